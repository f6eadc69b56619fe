package config

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "delishub")
	t.Setenv("DB_NAME", "delishub")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL_HOURS", "12")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("IS_PROD", "true")

	cfg := LoadConfig()

	if cfg.AppPort != "8080" {
		t.Errorf("AppPort: got %q want %q", cfg.AppPort, "8080")
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret: got %q want %q", cfg.JWTSecret, "s3cret")
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL: got %v want %v", cfg.TokenTTL, 12*time.Hour)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost: got %d want 10", cfg.BcryptCost)
	}
	if cfg.RedisDB != 2 {
		t.Errorf("RedisDB: got %d want 2", cfg.RedisDB)
	}
	if !cfg.IsProd {
		t.Errorf("IsProd: got false want true")
	}
}

func TestLoadConfig_DefaultTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL_HOURS", "")

	cfg := LoadConfig()
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL default: got %v want %v", cfg.TokenTTL, 24*time.Hour)
	}
}
