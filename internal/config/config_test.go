package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Make sure ambient env vars don't leak into the test
	for _, key := range []string{
		"PORT", "BASE_URL", "DATABASE_URL", "REDIS_ADDR",
		"DEFAULT_COMMUNITY", "INDEX_REGEN_INTERVAL", "INDEX_CACHE_DIR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/modvault")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %s, want localhost:6379", cfg.RedisAddr)
	}
	if cfg.RegenInterval != 5*time.Minute {
		t.Errorf("RegenInterval = %s, want 5m", cfg.RegenInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate returned error: %v", err)
	}
}

func TestLoadRegenInterval(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/modvault")
	t.Setenv("INDEX_REGEN_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RegenInterval != 30*time.Second {
		t.Errorf("RegenInterval = %s, want 30s", cfg.RegenInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{DatabaseURL: "postgres://x", DefaultCommunity: "rr2", RegenInterval: time.Minute}, false},
		{"missing db", Config{DefaultCommunity: "rr2", RegenInterval: time.Minute}, true},
		{"missing community", Config{DatabaseURL: "postgres://x", RegenInterval: time.Minute}, true},
		{"interval too short", Config{DatabaseURL: "postgres://x", DefaultCommunity: "rr2", RegenInterval: time.Millisecond}, true},
	}

	for _, tt := range tests {
		err := tt.cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
