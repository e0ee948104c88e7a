package service

import (
	"testing"

	"github.com/d1may/LanguageAPP/internal/config"
	"github.com/d1may/LanguageAPP/internal/ledger"
	"github.com/d1may/LanguageAPP/internal/models"
	"github.com/d1may/LanguageAPP/internal/token"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.FlashcardDeck{},
		&models.FlashcardWord{},
		&models.WordRating{},
		&models.WordChainEntry{},
	))
	return gdb
}

func testConfig() config.Config {
	return config.Config{
		Port:                  "8080",
		JWTSecret:             "test-secret",
		Env:                   "dev",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLDays:   7,
		AccessCookieName:      "access_token",
		RefreshCookieName:     "refresh_token",
		CookieSameSite:        "lax",
	}
}

func newTestAuth(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	gdb := newTestDB(t)
	cfg := testConfig()
	iss := token.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, cfg.RefreshTokenTTLDays)
	return NewAuthService(gdb, iss, ledger.New(gdb), cfg), gdb
}

func mustRegister(t *testing.T, svc *AuthService, email, username string) uint {
	t.Helper()
	res, err := svc.Register(email, username, "password123")
	require.NoError(t, err)
	return res.ID
}
