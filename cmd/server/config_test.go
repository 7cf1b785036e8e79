package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.Auth.AccessTokenTTL != "15m" {
		t.Errorf("access token ttl = %q, want 15m", cfg.Auth.AccessTokenTTL)
	}
}

func TestConfigValidate_RejectsInvalidDurations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth.LockoutDuration = "not-a-duration"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for invalid auth.lockout_duration")
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  address: ":9090"
  metrics_address: ":9091"
database:
  path: /tmp/worklog-test.db
auth:
  access_token_ttl: 5m
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("address = %q, want :9090", cfg.Server.Address)
	}
	if cfg.Server.MetricsAddress != ":9091" {
		t.Errorf("metrics address = %q, want :9091", cfg.Server.MetricsAddress)
	}
	if cfg.Auth.AccessTokenTTL != "5m" {
		t.Errorf("access token ttl = %q, want 5m", cfg.Auth.AccessTokenTTL)
	}
	// Unset fields keep defaults
	if cfg.Auth.RefreshTokenTTL != "168h" {
		t.Errorf("refresh token ttl = %q, want default 168h", cfg.Auth.RefreshTokenTTL)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/no/such/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
