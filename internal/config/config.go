package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const defaultSecret = "dev-secret-change-me"

type Config struct {
	Port                  string
	DatabaseDSN           string
	JWTSecret             string
	Env                   string
	AccessTokenTTLMinutes int
	RefreshTokenTTLDays   int

	AccessCookieName  string
	RefreshCookieName string
	CookieDomain      string
	CookieSecure      bool
	CookieSameSite    string
	CookieCSRF        bool

	CORSOrigins []string
	DeepLKey    string

	SweepIntervalMinutes int
}

// Load 通过环境变量加载配置，缺省值适用于本地开发。
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=languageapp port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("JWT_SECRET", defaultSecret)
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("ACCESS_TOKEN_TTL_MINUTES", 15)
	v.SetDefault("REFRESH_TOKEN_TTL_DAYS", 7)
	v.SetDefault("JWT_ACCESS_COOKIE_NAME", "access_token")
	v.SetDefault("JWT_REFRESH_COOKIE_NAME", "refresh_token")
	v.SetDefault("JWT_COOKIE_DOMAIN", "")
	v.SetDefault("JWT_COOKIE_SECURE", false)
	v.SetDefault("JWT_COOKIE_SAMESITE", "lax")
	v.SetDefault("JWT_COOKIE_CSRF_PROTECT", true)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("DEEPL_KEY", "")
	v.SetDefault("LEDGER_SWEEP_INTERVAL_MINUTES", 60)

	accessTTL := v.GetInt("ACCESS_TOKEN_TTL_MINUTES")
	if accessTTL <= 0 {
		accessTTL = 15
	}
	refreshTTL := v.GetInt("REFRESH_TOKEN_TTL_DAYS")
	if refreshTTL <= 0 {
		refreshTTL = 7
	}
	sweep := v.GetInt("LEDGER_SWEEP_INTERVAL_MINUTES")
	if sweep <= 0 {
		sweep = 60
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Port:                  v.GetString("APP_PORT"),
		DatabaseDSN:           v.GetString("DATABASE_DSN"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		Env:                   v.GetString("APP_ENV"),
		AccessTokenTTLMinutes: accessTTL,
		RefreshTokenTTLDays:   refreshTTL,
		AccessCookieName:      v.GetString("JWT_ACCESS_COOKIE_NAME"),
		RefreshCookieName:     v.GetString("JWT_REFRESH_COOKIE_NAME"),
		CookieDomain:          v.GetString("JWT_COOKIE_DOMAIN"),
		CookieSecure:          v.GetBool("JWT_COOKIE_SECURE"),
		CookieSameSite:        strings.ToLower(v.GetString("JWT_COOKIE_SAMESITE")),
		CookieCSRF:            v.GetBool("JWT_COOKIE_CSRF_PROTECT"),
		CORSOrigins:           origins,
		DeepLKey:              v.GetString("DEEPL_KEY"),
		SweepIntervalMinutes:  sweep,
	}
}

// Validate 校验配置，dev 以外的环境禁止使用默认密钥。
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is required")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: database dsn is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("config: jwt secret is required")
	}
	if cfg.Env != "dev" && cfg.JWTSecret == defaultSecret {
		return errors.New("config: default jwt secret is not allowed outside dev")
	}
	if cfg.AccessCookieName == "" || cfg.RefreshCookieName == "" {
		return errors.New("config: cookie names are required")
	}
	switch cfg.CookieSameSite {
	case "lax", "strict", "none":
	default:
		return errors.New("config: cookie samesite must be lax, strict or none")
	}
	return nil
}
