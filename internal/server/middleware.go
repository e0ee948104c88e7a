package server

import (
	"net/http"

	"github.com/d1may/LanguageAPP/internal/config"
	"github.com/d1may/LanguageAPP/internal/token"
	"github.com/gin-gonic/gin"
)

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// AuthRequired 校验 access cookie。令牌缺失、过期、签名错误、类型
// 不符一律返回同一个 401，不透露失败原因。
func AuthRequired(cfg config.Config, issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cfg.AccessCookieName)
		if err != nil || raw == "" {
			abortUnauthorized(c)
			return
		}
		claims, err := issuer.Decode(raw)
		if err != nil || claims.Kind != string(token.KindAccess) {
			abortUnauthorized(c)
			return
		}
		c.Set("userID", claims.UserID)
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CSRFGuard 双提交校验：非安全方法要求 X-CSRF-Token 头与指定的
// CSRF cookie 一致。未启用时为空操作。
func CSRFGuard(cfg config.Config, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.CookieCSRF || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		want, err := c.Cookie(cookieName)
		if err != nil || want == "" || c.GetHeader("X-CSRF-Token") != want {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// GetUserID 取出 AuthRequired 写入的用户 ID。
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok2 := v.(uint); ok2 {
			return id
		}
	}
	return 0
}
