package server

import (
	"net/http"

	"github.com/d1may/LanguageAPP/internal/config"
	"github.com/d1may/LanguageAPP/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CSRF 配对 cookie 的固定名字。双提交校验：未启用 httpOnly，
// 前端读取后放进 X-CSRF-Token 头。
const (
	csrfAccessCookie  = "csrf_access_token"
	csrfRefreshCookie = "csrf_refresh_token"
)

// refresh 令牌只随 /auth 下的请求发送。
const refreshCookiePath = "/api/v1/auth"

func sameSiteMode(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// setAuthCookies 下发 access/refresh httpOnly cookie，启用 CSRF 时
// 附带一对非 httpOnly 的 CSRF cookie。
func setAuthCookies(c *gin.Context, cfg config.Config, pair service.TokenPair) {
	accessMaxAge := cfg.AccessTokenTTLMinutes * 60
	refreshMaxAge := cfg.RefreshTokenTTLDays * 24 * 3600

	c.SetSameSite(sameSiteMode(cfg.CookieSameSite))
	c.SetCookie(cfg.AccessCookieName, pair.AccessToken, accessMaxAge, "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(cfg.RefreshCookieName, pair.RefreshToken, refreshMaxAge, refreshCookiePath, cfg.CookieDomain, cfg.CookieSecure, true)
	if cfg.CookieCSRF {
		c.SetCookie(csrfAccessCookie, uuid.NewString(), accessMaxAge, "/", cfg.CookieDomain, cfg.CookieSecure, false)
		c.SetCookie(csrfRefreshCookie, uuid.NewString(), refreshMaxAge, refreshCookiePath, cfg.CookieDomain, cfg.CookieSecure, false)
	}
}

// clearAuthCookies 清除四个会话 cookie，不多不少。
func clearAuthCookies(c *gin.Context, cfg config.Config) {
	c.SetSameSite(sameSiteMode(cfg.CookieSameSite))
	c.SetCookie(cfg.AccessCookieName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(cfg.RefreshCookieName, "", -1, refreshCookiePath, cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(csrfAccessCookie, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, false)
	c.SetCookie(csrfRefreshCookie, "", -1, refreshCookiePath, cfg.CookieDomain, cfg.CookieSecure, false)
}
