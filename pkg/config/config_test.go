package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Listen != ":8000" {
		t.Errorf("Expected default listen :8000, got %q", cfg.App.Listen)
	}
	if cfg.Planner.Mode != "rule" {
		t.Errorf("Expected default planner mode 'rule', got %q", cfg.Planner.Mode)
	}
	if cfg.Scraper.Mode != "http" {
		t.Errorf("Expected default scraper mode 'http', got %q", cfg.Scraper.Mode)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("Expected default SMTP port 587, got %d", cfg.SMTP.Port)
	}
	if cfg.Memory.Path == "" {
		t.Error("Expected a default memory path")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  listen: ":9000"
  workspace: "/tmp/ws"
planner:
  mode: llm
providers:
  openai:
    api_key: file-key
    model: gpt-4o
    enabled: true
policy:
  denied_tools: [scrape]
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Listen != ":9000" || cfg.App.Workspace != "/tmp/ws" {
		t.Errorf("Unexpected app config: %+v", cfg.App)
	}
	if cfg.Planner.Mode != "llm" {
		t.Errorf("Expected planner mode 'llm', got %q", cfg.Planner.Mode)
	}
	name, p := cfg.GetDefaultProvider()
	if name != "openai" || p.Model != "gpt-4o" {
		t.Errorf("Unexpected provider: %s %+v", name, p)
	}
	if len(cfg.Policy.DeniedTools) != 1 || cfg.Policy.DeniedTools[0] != "scrape" {
		t.Errorf("Unexpected policy: %+v", cfg.Policy)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PLANNER_MODE", "llm")
	t.Setenv("SCRAPER_MODE", "browser")
	t.Setenv("SERPAPI_KEY", "serp-env")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("TELEGRAM_TOKEN", "tg-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Planner.Mode != "llm" {
		t.Errorf("Expected PLANNER_MODE override, got %q", cfg.Planner.Mode)
	}
	if cfg.Scraper.Mode != "browser" {
		t.Errorf("Expected SCRAPER_MODE override, got %q", cfg.Scraper.Mode)
	}
	if cfg.Search.SerpAPIKey != "serp-env" {
		t.Errorf("Expected SerpAPI key from env, got %q", cfg.Search.SerpAPIKey)
	}
	if cfg.SMTP.Host != "mail.example.com" || cfg.SMTP.Port != 2525 {
		t.Errorf("Unexpected SMTP: %+v", cfg.SMTP)
	}

	name, p := cfg.GetDefaultProvider()
	if name != "openai" || p.APIKey != "env-key" || p.Model != "gpt-4o-mini" {
		t.Errorf("Unexpected provider from env: %s %+v", name, p)
	}

	g, ok := cfg.GetGateway("telegram")
	if !ok || g.Token != "tg-token" {
		t.Errorf("Expected telegram gateway enabled from env, got %+v ok=%v", g, ok)
	}
	if _, ok := cfg.GetGateway("discord"); ok {
		t.Error("Expected discord gateway disabled")
	}
}

func TestSMTPConfig_Configured(t *testing.T) {
	if (SMTPConfig{}).Configured() {
		t.Error("Empty SMTP config must not count as configured")
	}
	full := SMTPConfig{Host: "h", User: "u", Password: "p"}
	if !full.Configured() {
		t.Error("Complete SMTP config should count as configured")
	}
}
