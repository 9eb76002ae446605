package api

import (
	"errors"

	"budgeto/logging"
	"budgeto/middleware"
	"budgeto/models"
	"budgeto/service"

	"github.com/gin-gonic/gin"
)

// CredentialsRequest 注册/登录请求
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// AuthResponse 认证成功返回，token 供非浏览器客户端放入 Authorization 头
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// WelcomeMailer 注册成功后发送欢迎邮件
type WelcomeMailer interface {
	SendWelcomeEmail(toEmail string) error
}

// AuthHandler 认证处理器
type AuthHandler struct {
	credentials *service.CredentialService
	sessions    *middleware.SessionManager
	mailer      WelcomeMailer
}

// NewAuthHandler 创建认证处理器，mailer 可为 nil
func NewAuthHandler(credentials *service.CredentialService, sessions *middleware.SessionManager, mailer WelcomeMailer) *AuthHandler {
	return &AuthHandler{credentials: credentials, sessions: sessions, mailer: mailer}
}

// SignUp 用户注册
// @Summary 用户注册
// @Description 邮箱不区分大小写，注册成功后写入会话 Cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "注册信息"
// @Success 200 {object} Response{data=AuthResponse} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "邮箱已被注册"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /api/auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if !bindJSON(c, &req, nil, "Email and password are required") {
		return
	}

	user, err := h.credentials.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to sign up")
		return
	}

	token, ok := h.startSession(c, user)
	if !ok {
		return
	}
	h.sendWelcome(user.Email)

	SuccessWithMessage(c, "Account created", AuthResponse{User: user, Token: token})
}

// SignIn 用户登录
// @Summary 用户登录
// @Description 校验邮箱密码，成功后写入会话 Cookie（7 天有效）
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "登录信息"
// @Success 200 {object} Response{data=AuthResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /api/auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if !bindJSON(c, &req, nil, "Email and password are required") {
		return
	}

	user, err := h.credentials.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	token, ok := h.startSession(c, user)
	if !ok {
		return
	}
	SuccessWithMessage(c, "Signed in", AuthResponse{User: user, Token: token})
}

// SignOut 退出登录
// @Summary 退出登录
// @Description 仅清除会话 Cookie，已签发的令牌在过期前仍然有效
// @Tags 认证
// @Produce json
// @Success 200 {object} Response "退出成功"
// @Router /api/auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	clearSessionCookie(c, h.sessions)
	SuccessWithMessage(c, "Signed out", nil)
}

// Profile 当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.credentials.Profile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}
	Success(c, user)
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) (string, bool) {
	token, err := h.sessions.Issue(user.ID, user.Email)
	if err != nil {
		logging.Logger.WithError(err).Error("签发会话令牌失败")
		InternalError(c, "Failed to create session")
		return "", false
	}
	setSessionCookie(c, h.sessions, token)
	return token, true
}

// sendWelcome 欢迎邮件失败不影响注册结果
func (h *AuthHandler) sendWelcome(email string) {
	if h.mailer == nil {
		return
	}
	if err := h.mailer.SendWelcomeEmail(email); err != nil && !errors.Is(err, service.ErrEmailDisabled) {
		logging.Logger.WithError(err).WithField("email", email).Warn("发送欢迎邮件失败")
	}
}
