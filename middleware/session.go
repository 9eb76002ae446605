package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionContextKey = "session"

// SessionPayload 已验证的会话信息
type SessionPayload struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// sessionClaims JWT 载荷
type sessionClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager 签发与校验会话令牌（HS256），无服务端吊销
type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
}

// NewSessionManager 创建会话管理器
func NewSessionManager(secret string, ttl time.Duration, cookieName string) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, cookieName: cookieName}
}

// TTL 令牌有效期，同时作为 Cookie 的 Max-Age
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// CookieName 会话 Cookie 名称
func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// Issue 签发令牌
func (m *SessionManager) Issue(userID, email string) (string, error) {
	return m.IssueAt(userID, email, time.Now())
}

// IssueAt 以指定签发时间签发令牌，过期时间为签发时间加 TTL
func (m *SessionManager) IssueAt(userID, email string, issuedAt time.Time) (string, error) {
	claims := sessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify 校验令牌，任何失败（格式错误、签名错误、过期、算法不符）都返回 nil
func (m *SessionManager) Verify(tokenString string) *SessionPayload {
	if tokenString == "" {
		return nil
	}
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil
	}

	payload := &SessionPayload{UserID: claims.UserID, Email: claims.Email}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}
	return payload
}

// sessionFromRequest 优先使用 Cookie，Cookie 缺失或无效时再尝试 Authorization: Bearer
func (m *SessionManager) sessionFromRequest(c *gin.Context) *SessionPayload {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		if payload := m.Verify(cookie); payload != nil {
			return payload
		}
	}
	return m.Verify(bearerToken(c))
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// LoadSession 解析会话并写入上下文，无效令牌视为未登录，不中断请求
func (m *SessionManager) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if payload := m.sessionFromRequest(c); payload != nil {
			c.Set(sessionContextKey, payload)
		}
		c.Next()
	}
}

// RequireSession 需在 LoadSession 之后使用，未登录返回 401
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized",
			})
			return
		}
		c.Next()
	}
}

// CurrentSession 获取当前会话，未登录返回 nil
func CurrentSession(c *gin.Context) *SessionPayload {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	payload, _ := v.(*SessionPayload)
	return payload
}

// CurrentUserID 获取当前用户 ID，未登录返回空字符串
func CurrentUserID(c *gin.Context) string {
	if payload := CurrentSession(c); payload != nil {
		return payload.UserID
	}
	return ""
}
