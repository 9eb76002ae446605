package api

import (
	"net/http"

	"budgeto/config"
	"budgeto/middleware"

	"github.com/gin-gonic/gin"
)

// getCookieOptions 根据运行模式返回 Cookie 的安全选项
// release 模式下启用 Secure（仅 HTTPS 传输），SameSite=Lax
func getCookieOptions() (secure bool, sameSite http.SameSite) {
	secure = config.GlobalConfig.IsRelease()
	sameSite = http.SameSiteLaxMode
	return
}

// setSessionCookie 写入会话 Cookie，Max-Age 与令牌有效期一致
func setSessionCookie(c *gin.Context, sessions *middleware.SessionManager, token string) {
	secure, sameSite := getCookieOptions()
	c.SetCookieData(&http.Cookie{
		Name:     sessions.CookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// clearSessionCookie 清除会话 Cookie，令牌本身在过期前仍然有效
func clearSessionCookie(c *gin.Context, sessions *middleware.SessionManager) {
	secure, sameSite := getCookieOptions()
	c.SetCookieData(&http.Cookie{
		Name:     sessions.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}
