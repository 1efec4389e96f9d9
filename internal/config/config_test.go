package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "INFO" || cfg.AI.TimeoutSeconds != 60 || cfg.Location != "America/Sao_Paulo" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600, got %o", perm)
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "db_path: /tmp/x.db\nai:\n  proxy_url: http://localhost:8787\nlocation: Not/AZone\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.AI.ProxyURL != "http://localhost:8787" {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.AI.TimeoutSeconds != 60 || cfg.Hall == "" {
		t.Errorf("defaults not filled: %+v", cfg)
	}
	if cfg.Location != "America/Sao_Paulo" {
		t.Errorf("expected invalid zone to fall back, got %q", cfg.Location)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.WebhookURL = "https://example.test/hook"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.WebhookURL != cfg.WebhookURL {
		t.Errorf("expected %q, got %q", cfg.WebhookURL, got.WebhookURL)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDB, "/data/m.db")
	t.Setenv(EnvAIProxy, "http://proxy")
	t.Setenv(EnvAITimeout, "5")
	t.Setenv(EnvWebhook, "")

	cfg := DefaultConfig()
	cfg.WebhookURL = "https://keep"
	cfg.ApplyEnv()
	if cfg.DBPath != "/data/m.db" || cfg.AI.ProxyURL != "http://proxy" || cfg.AI.TimeoutSeconds != 5 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.WebhookURL != "https://keep" {
		t.Errorf("empty env must not override, got %q", cfg.WebhookURL)
	}
	if cfg.AITimeout().Seconds() != 5 {
		t.Errorf("expected 5s timeout, got %v", cfg.AITimeout())
	}
}
