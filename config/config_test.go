package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.AcceptLanguage != "zh-CN,zh;q=0.8" {
		t.Errorf("AcceptLanguage = %q", cfg.AcceptLanguage)
	}
	if cfg.FetchTimeout() != 15*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout())
	}
	if cfg.RenderTimeout() != 15*time.Second {
		t.Errorf("RenderTimeout = %v", cfg.RenderTimeout())
	}
	if cfg.MinTextChars != 200 {
		t.Errorf("MinTextChars = %d", cfg.MinTextChars)
	}
	if cfg.MaxContentChars != 12000 {
		t.Errorf("MaxContentChars = %d", cfg.MaxContentChars)
	}
	if cfg.MaxHTMLBytes != 5_000_000 {
		t.Errorf("MaxHTMLBytes = %d", cfg.MaxHTMLBytes)
	}
	if cfg.Workflow.User != "seo-blog-agent" {
		t.Errorf("Workflow.User = %q", cfg.Workflow.User)
	}
	if cfg.Workflow.Timeout() != 120*time.Second {
		t.Errorf("Workflow.Timeout = %v", cfg.Workflow.Timeout())
	}
}

func TestLocale(t *testing.T) {
	cases := []struct {
		accept string
		want   string
	}{
		{"zh-CN,zh;q=0.8", "zh-CN"},
		{"en-US", "en-US"},
		{" fr-FR , fr;q=0.9", "fr-FR"},
		{"", ""},
	}
	for _, c := range cases {
		cfg := Config{AcceptLanguage: c.accept}
		if got := cfg.Locale(); got != c.want {
			t.Errorf("Locale(%q) = %q, want %q", c.accept, got, c.want)
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
accept_language: "en-US,en;q=0.9"
min_text_chars: 50
workflow:
  url: "https://engine.example.com/v1/workflows/run"
  api_key: "app-key"
  timeout_sec: 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AcceptLanguage != "en-US,en;q=0.9" {
		t.Errorf("AcceptLanguage = %q", cfg.AcceptLanguage)
	}
	if cfg.MinTextChars != 50 {
		t.Errorf("MinTextChars = %d", cfg.MinTextChars)
	}
	if cfg.Workflow.URL != "https://engine.example.com/v1/workflows/run" {
		t.Errorf("Workflow.URL = %q", cfg.Workflow.URL)
	}
	if cfg.Workflow.TimeoutSec != 30 {
		t.Errorf("Workflow.TimeoutSec = %d", cfg.Workflow.TimeoutSec)
	}
	// Untouched fields keep their defaults.
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.MaxContentChars != 12000 {
		t.Errorf("MaxContentChars = %d", cfg.MaxContentChars)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
