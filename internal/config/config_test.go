package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	if cfg.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %q", cfg.Host)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.StoragePath != "upload" {
		t.Errorf("expected default storage path 'upload', got %q", cfg.StoragePath)
	}
	if cfg.MaxUploadBytes != 100*1024*1024 {
		t.Errorf("expected default upload cap 100MB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.SearchTimeout != 30*time.Second {
		t.Errorf("expected default search timeout 30s, got %v", cfg.SearchTimeout)
	}
	if cfg.Development {
		t.Error("expected production mode by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_PATH", "/tmp/vault")
	t.Setenv("SEARCH_TIMEOUT", "5s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("ENV", "development")
	t.Setenv("DATABASE_URL", "postgres://example/db")

	cfg := Load()

	if cfg.StoragePath != "/tmp/vault" {
		t.Errorf("expected storage path override, got %q", cfg.StoragePath)
	}
	if cfg.SearchTimeout != 5*time.Second {
		t.Errorf("expected 5s search timeout, got %v", cfg.SearchTimeout)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024 byte upload cap, got %d", cfg.MaxUploadBytes)
	}
	if !cfg.Development {
		t.Error("expected development mode")
	}
	if cfg.DatabaseURL != "postgres://example/db" {
		t.Errorf("DATABASE_URL should win over DB_* parts, got %q", cfg.DatabaseURL)
	}
}
