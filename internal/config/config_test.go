package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PORT", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Session.TimeoutMinutes != 30 {
		t.Errorf("session timeout = %d", cfg.Session.TimeoutMinutes)
	}
	if len(cfg.Router.Providers) != 4 {
		t.Errorf("providers = %d", len(cfg.Router.Providers))
	}
	if cfg.Router.Providers["gemini"].APIKey != "" {
		t.Error("expected no credential without env")
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "careermastery.json")
	body := `{"server":{"port":9090},"session":{"timeoutMinutes":5,"sweepSpec":"@every 1m"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Session.SweepSpec != "@every 1m" {
		t.Errorf("sweep spec = %q", cfg.Session.SweepSpec)
	}
}

func TestLoadEnvCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Router.Providers["gemini"].APIKey != "g-key" {
		t.Errorf("gemini key = %q", cfg.Router.Providers["gemini"].APIKey)
	}
	if cfg.Router.Providers["claude"].APIKey != "a-key" {
		t.Errorf("claude key = %q", cfg.Router.Providers["claude"].APIKey)
	}
	if cfg.Router.Providers["deepseek"].APIKey != "" {
		t.Error("deepseek key should stay empty")
	}
}

func TestLoadPortEnv(t *testing.T) {
	t.Setenv("PORT", "8123")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}
