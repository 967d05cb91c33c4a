package config

import (
	"strings"
	"testing"
)

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{Env: "production", DatabaseURL: "postgres://x"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when JWT_SECRET is missing in production")
	}
}

func TestValidate_DevAllowsMissingSecret(t *testing.T) {
	cfg := &Config{Env: "development", DatabaseURL: "postgres://x"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_ShortSecretRejected(t *testing.T) {
	cfg := &Config{Env: "production", DatabaseURL: "postgres://x", JWTSecret: "short"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "32 characters") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidate_ConnBounds(t *testing.T) {
	cfg := &Config{
		Env:         "development",
		DatabaseURL: "postgres://x",
		DBMaxConns:  5,
		DBMinConns:  10,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when DB_MIN_CONNS exceeds DB_MAX_CONNS")
	}
}

func TestIsDev(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDev() {
		t.Error("expected IsDev true")
	}
	if cfg.IsProduction() {
		t.Error("expected IsProduction false")
	}
	cfg.Env = "production"
	if cfg.IsDev() {
		t.Error("expected IsDev false")
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction true")
	}
}
