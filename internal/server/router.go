package server

import (
	"net/http"
	"time"

	"github.com/d1may/LanguageAPP/internal/config"
	"github.com/d1may/LanguageAPP/internal/metrics"
	"github.com/d1may/LanguageAPP/internal/mw"
	"github.com/d1may/LanguageAPP/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// registerValidators 向 gin 的 binding 引擎注册业务枚举校验。
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("wordlang", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "en", "de":
			return true
		}
		return false
	})
	_ = v.RegisterValidation("apptheme", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "amber", "sapphire", "arctic":
			return true
		}
		return false
	})
}

// SetupRouter 统一初始化 Gin 中间件与 REST API。
func SetupRouter(cfg config.Config, issuer *token.Issuer, h *Handler, limiter *mw.Limiter) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env, cfg.CORSOrigins))
	if limiter == nil {
		limiter = mw.NewLimiter(rate.Every(time.Second/20), 40, 2*time.Minute)
	}
	r.Use(limiter.Middleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	// refresh 与 logout 用 refresh CSRF cookie 做双提交校验。
	auth.POST("/refresh", CSRFGuard(cfg, csrfRefreshCookie), h.RefreshToken)
	auth.POST("/logout", CSRFGuard(cfg, csrfRefreshCookie), h.Logout)
	auth.GET("/me", AuthRequired(cfg, issuer), h.Me)

	// 业务接口要求 access cookie，非安全方法附加 CSRF 校验。
	authed := api.Group("")
	authed.Use(AuthRequired(cfg, issuer), CSRFGuard(cfg, csrfAccessCookie))

	authed.GET("/user/settings", h.GetSettings)
	authed.PUT("/user/settings", h.UpdateSettings)

	authed.POST("/decks", h.SaveDeck)
	authed.GET("/decks", h.ListDecks)
	authed.GET("/decks/counts", h.CardCounts)
	authed.GET("/decks/session", h.ReviewSession)
	authed.PUT("/decks/:id", h.UpdateDeck)
	authed.DELETE("/decks/:id", h.DeleteDeck)
	authed.POST("/decks/:id/words", h.SaveCard)
	authed.GET("/decks/:id/words", h.ListCards)
	authed.PUT("/decks/:id/words/:wordID", h.UpdateCard)
	authed.DELETE("/decks/:id/words/:wordID", h.DeleteCard)
	authed.PUT("/decks/:id/words/:wordID/difficulty", h.ReviewCard)
	authed.GET("/decks/:id/export", h.ExportDeck)
	authed.POST("/decks/:id/import", h.ImportDeck)

	authed.POST("/words/rate", h.RateWord)
	authed.GET("/words", h.ListRatings)
	authed.GET("/words/library", h.WordLibrary)
	authed.PATCH("/words/:id", h.UpdateWordMeta)
	authed.GET("/words/random/:lang", h.RandomWord)
	authed.POST("/words/random/session", h.RecordRandomWord)

	authed.POST("/wordle/check", h.WordleCheck)
	authed.GET("/wordle/word/:lang/:length", h.WordleWord)
	authed.GET("/wordle/stats", h.WordleStats)
	authed.POST("/wordle/stats", h.RecordWordle)

	authed.POST("/chain/words", h.ChainAdd)
	authed.GET("/chain/words", h.ChainList)
	authed.DELETE("/chain/words", h.ChainClear)
	authed.POST("/chain/bot", h.ChainBot)

	authed.POST("/translate", h.Translate)

	return r
}
