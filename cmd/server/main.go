package main

import (
	"time"

	"github.com/d1may/LanguageAPP/internal/client"
	"github.com/d1may/LanguageAPP/internal/config"
	"github.com/d1may/LanguageAPP/internal/db"
	"github.com/d1may/LanguageAPP/internal/ledger"
	applog "github.com/d1may/LanguageAPP/internal/log"
	"github.com/d1may/LanguageAPP/internal/mw"
	"github.com/d1may/LanguageAPP/internal/server"
	"github.com/d1may/LanguageAPP/internal/service"
	"github.com/d1may/LanguageAPP/internal/token"
	"github.com/d1may/LanguageAPP/internal/wordlist"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	// main 负责装配：配置、日志、数据库、词表、各 service 与路由。
	cfg := config.Load()
	applog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	words, err := wordlist.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("word lists")
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, cfg.RefreshTokenTTLDays)
	led := ledger.New(gdb)

	sweeper := ledger.NewSweeper(led, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)
	go sweeper.Run()
	defer sweeper.Stop()

	limiter := mw.NewLimiter(rate.Every(time.Second/20), 40, 2*time.Minute)
	defer limiter.Stop()

	h := server.NewHandler(cfg,
		service.NewAuthService(gdb, issuer, led, cfg),
		service.NewUserService(gdb),
		service.NewFlashcardService(gdb),
		service.NewWordsService(gdb),
		service.NewWordChainService(gdb, words),
		words,
		client.NewDeepLAPI(cfg.DeepLKey),
	)

	r := server.SetupRouter(cfg, issuer, h, limiter)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
