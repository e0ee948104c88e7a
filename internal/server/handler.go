package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/d1may/LanguageAPP/internal/client"
	"github.com/d1may/LanguageAPP/internal/config"
	"github.com/d1may/LanguageAPP/internal/metrics"
	"github.com/d1may/LanguageAPP/internal/service"
	"github.com/d1may/LanguageAPP/internal/wordlist"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	cfg   config.Config
	auth  *service.AuthService
	users *service.UserService
	cards *service.FlashcardService
	words *service.WordsService
	chain *service.WordChainService
	list  *wordlist.List
	deepl *client.DeepLAPI
}

func NewHandler(cfg config.Config, auth *service.AuthService, users *service.UserService,
	cards *service.FlashcardService, words *service.WordsService, chain *service.WordChainService,
	list *wordlist.List, deepl *client.DeepLAPI) *Handler {
	return &Handler{cfg: cfg, auth: auth, users: users, cards: cards, words: words, chain: chain, list: list, deepl: deepl}
}

// Register 处理用户注册请求。
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email,max=255"`
		Username string `json:"username" binding:"required,min=2,max=50"`
		Password string `json:"password" binding:"required,min=8,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	result, err := h.auth.Register(req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("register")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// Login 处理用户登录请求，成功后通过 cookie 下发令牌对。
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	result, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	metrics.LoginsTotal.Inc()
	setAuthCookies(c, h.cfg, result.Tokens)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": result.User.ID, "email": result.User.Email, "username": result.User.Username},
	})
}

// RefreshToken 轮换一次令牌对。任何失败都是同一个 401。
func (h *Handler) RefreshToken(c *gin.Context) {
	raw, err := c.Cookie(h.cfg.RefreshCookieName)
	if err != nil || raw == "" {
		abortUnauthorized(c)
		return
	}
	pair, err := h.auth.Refresh(raw)
	if err != nil {
		if !errors.Is(err, service.ErrUnauthorized) {
			log.Error().Err(err).Msg("refresh token")
		} else {
			log.Warn().Msg("refresh token rejected")
		}
		abortUnauthorized(c)
		return
	}
	metrics.TokenRotationsTotal.Inc()
	setAuthCookies(c, h.cfg, *pair)
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// Logout 吊销 refresh 令牌并清除会话 cookie。总是 200。
func (h *Handler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(h.cfg.RefreshCookieName); err == nil {
		h.auth.Logout(raw)
	}
	clearAuthCookies(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me 返回当前登录用户的信息。
func (h *Handler) Me(c *gin.Context) {
	profile, err := h.users.GetProfile(GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			abortUnauthorized(c)
			return
		}
		log.Error().Err(err).Uint("user_id", GetUserID(c)).Msg("me")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetSettings 返回用户偏好。
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.users.GetSettings(GetUserID(c))
	if err != nil {
		log.Error().Err(err).Uint("user_id", GetUserID(c)).Msg("get settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings 更新语言与主题偏好。
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req struct {
		WordLang string `json:"random_word_lang" binding:"required,wordlang"`
		Theme    string `json:"theme" binding:"required,apptheme"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	settings, err := h.users.UpdateSettings(GetUserID(c), service.Settings{WordLang: req.WordLang, Theme: req.Theme})
	if err != nil {
		log.Error().Err(err).Uint("user_id", GetUserID(c)).Msg("update settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Translate 代理 DeepL 翻译。未配置密钥 503，上游失败 502。
func (h *Handler) Translate(c *gin.Context) {
	var req struct {
		Text   string `json:"text" binding:"required,max=500"`
		Source string `json:"source" binding:"required,len=2"`
		Target string `json:"target" binding:"required,len=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	translated, err := h.deepl.Translate(c.Request.Context(), req.Text, req.Source, req.Target)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "translation is not configured"})
		case errors.Is(err, client.ErrUpstream):
			log.Warn().Err(err).Msg("translate")
			c.JSON(http.StatusBadGateway, gin.H{"error": "translation service unavailable"})
		default:
			log.Error().Err(err).Msg("translate")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "translation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"translated": translated})
}
