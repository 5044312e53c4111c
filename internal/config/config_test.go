package config

import (
	"testing"
	"time"
)

// 環境変数未設定時にデフォルト値が使われることを検証
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("APP_ENV", "")

	cfg := Load()

	if cfg.DatabaseURL != defaultDatabaseURL {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, defaultDatabaseURL)
	}
	if cfg.JWTSecret != defaultJWTSecret {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, defaultJWTSecret)
	}
	if cfg.ServerPort != defaultServerPort {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, defaultServerPort)
	}
	if cfg.TokenMaxAge != 24*time.Hour {
		t.Errorf("TokenMaxAge = %v, want 24h", cfg.TokenMaxAge)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want 120", cfg.RateLimitGeneral)
	}
	if cfg.RateLimitSubmit != 10 {
		t.Errorf("RateLimitSubmit = %d, want 10", cfg.RateLimitSubmit)
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false for development default")
	}
}

// 環境変数が設定されている場合に優先されることを検証
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/portal")
	t.Setenv("JWT_SECRET", "override-secret")
	t.Setenv("TOKEN_MAX_AGE", "1h")
	t.Setenv("RATE_LIMIT_GENERAL", "60")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://u:p@db:5432/portal" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "override-secret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.TokenMaxAge != time.Hour {
		t.Errorf("TokenMaxAge = %v, want 1h", cfg.TokenMaxAge)
	}
	if cfg.RateLimitGeneral != 60 {
		t.Errorf("RateLimitGeneral = %d, want 60", cfg.RateLimitGeneral)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}

// 不正な数値・durationはデフォルト値にフォールバックすることを検証
func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TOKEN_MAX_AGE", "not-a-duration")
	t.Setenv("RATE_LIMIT_GENERAL", "abc")

	cfg := Load()

	if cfg.TokenMaxAge != 24*time.Hour {
		t.Errorf("TokenMaxAge = %v, want default 24h", cfg.TokenMaxAge)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want default 120", cfg.RateLimitGeneral)
	}
}
