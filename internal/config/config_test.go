package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/diogo/webhookchat/internal/models"
)

// withHome points HOME at a fresh temp dir and clears the overlay variables
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"MAKE_WEBHOOK_URL", "WEBHOOKCHAT_PLAYER", "WEBHOOKCHAT_PLAYER_ARGS",
		"WEBHOOKCHAT_THEME", "WEBHOOKCHAT_TIMEOUT", "WEBHOOKCHAT_GREETING", "WEBHOOKCHAT_AUTOPLAY", "WEBHOOKCHAT_HEADERS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func writeConfig(t *testing.T, home string, v any) {
	t.Helper()
	dir := filepath.Join(home, ".webhookchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WebhookURL != "" {
		t.Errorf("WebhookURL = %q, want empty", cfg.WebhookURL)
	}
	if cfg.Theme != ThemeDark {
		t.Errorf("Theme = %q, want %q", cfg.Theme, ThemeDark)
	}
	if cfg.Greeting != models.DefaultGreeting {
		t.Errorf("Greeting = %q", cfg.Greeting)
	}
	if !cfg.Autoplay {
		t.Error("Autoplay should default to true")
	}
	if cfg.TimeoutSeconds != 0 {
		t.Errorf("TimeoutSeconds = %d, want 0", cfg.TimeoutSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"light theme", func(c *Config) { c.Theme = ThemeLight }, false},
		{"unknown theme", func(c *Config) { c.Theme = "solarized" }, true},
		{"negative timeout", func(c *Config) { c.TimeoutSeconds = -1 }, true},
		{"https webhook", func(c *Config) { c.WebhookURL = "https://hook.example/abc" }, false},
		{"schemeless webhook", func(c *Config) { c.WebhookURL = "hook.example/abc" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWebhookURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"", false},
		{"https://hook.example/abc", false},
		{"http://localhost:5678/webhook/abc", false},
		{"hook.example/abc", true},
		{"ftp://hook.example/abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			err := ValidateWebhookURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWebhookURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	home := withHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".webhookchat", "config.json")
	if path != want {
		t.Errorf("GetConfigPath() = %s, want %s", path, want)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	withHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Theme != ThemeDark || cfg.Greeting != models.DefaultGreeting {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_WithExistingFile(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, map[string]any{
		"webhook_url": "https://hook.example/file",
		"theme":       "light",
		"greeting":    "",
		"autoplay":    false,
	})

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.WebhookURL != "https://hook.example/file" {
		t.Errorf("WebhookURL = %s", cfg.WebhookURL)
	}
	if cfg.Theme != ThemeLight {
		t.Errorf("Theme = %s", cfg.Theme)
	}
	if cfg.Greeting != "" {
		t.Errorf("explicit empty greeting should disable it, got %q", cfg.Greeting)
	}
	if cfg.Autoplay {
		t.Error("Autoplay should be false")
	}
	if !cfg.Markdown.EnableEmoji {
		t.Error("fields missing from the file keep their defaults")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := withHome(t)
	dir := filepath.Join(home, ".webhookchat")
	_ = os.MkdirAll(dir, 0o700)
	_ = os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600)

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Theme != ThemeDark {
		t.Error("defaults should be returned on parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	withHome(t)
	t.Setenv("MAKE_WEBHOOK_URL", "https://hook.example/env")
	t.Setenv("WEBHOOKCHAT_PLAYER", "mpg123")
	t.Setenv("WEBHOOKCHAT_PLAYER_ARGS", "-f 8000")
	t.Setenv("WEBHOOKCHAT_TIMEOUT", "15")
	t.Setenv("WEBHOOKCHAT_AUTOPLAY", "false")
	t.Setenv("WEBHOOKCHAT_HEADERS", "X-Api-Key:k1,X-Scenario:chat")

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv() returned error: %v", err)
	}

	if cfg.WebhookURL != "https://hook.example/env" {
		t.Errorf("WebhookURL = %s", cfg.WebhookURL)
	}
	if cfg.Player != "mpg123" {
		t.Errorf("Player = %s", cfg.Player)
	}
	if len(cfg.PlayerArgs) != 2 || cfg.PlayerArgs[0] != "-f" || cfg.PlayerArgs[1] != "8000" {
		t.Errorf("PlayerArgs = %v", cfg.PlayerArgs)
	}
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if cfg.Autoplay {
		t.Error("Autoplay should be overridden to false")
	}
	if cfg.Headers["X-Api-Key"] != "k1" || cfg.Headers["X-Scenario"] != "chat" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
	if cfg.Theme != ThemeDark {
		t.Error("unset variables must leave fields untouched")
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	withHome(t)
	t.Setenv("WEBHOOKCHAT_TIMEOUT", "soon")

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err == nil {
		t.Error("expected error for non-numeric timeout")
	}
}

func TestLoad_Layering(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, map[string]any{
		"webhook_url": "https://hook.example/file",
		"theme":       "light",
	})
	t.Setenv("MAKE_WEBHOOK_URL", "https://hook.example/env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.WebhookURL != "https://hook.example/env" {
		t.Errorf("environment should win over the file, got %s", cfg.WebhookURL)
	}
	if cfg.Theme != ThemeLight {
		t.Errorf("file value should survive, got %s", cfg.Theme)
	}
}

func TestLoadDotEnv(t *testing.T) {
	withHome(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("WEBHOOKCHAT_THEME=light\nMAKE_WEBHOOK_URL=https://hook.example/dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MAKE_WEBHOOK_URL", "https://hook.example/already-set")
	t.Cleanup(func() { os.Unsetenv("WEBHOOKCHAT_THEME") })

	if err := LoadDotEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() returned error: %v", err)
	}

	if got := os.Getenv("WEBHOOKCHAT_THEME"); got != "light" {
		t.Errorf("WEBHOOKCHAT_THEME = %q, want light", got)
	}
	if got := os.Getenv("MAKE_WEBHOOK_URL"); got != "https://hook.example/already-set" {
		t.Errorf(".env must not override the environment, got %q", got)
	}
}

func TestSaveConfig(t *testing.T) {
	home := withHome(t)

	cfg := DefaultConfig()
	cfg.WebhookURL = "https://hook.example/saved"
	cfg.Theme = ThemeLight

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(home, ".webhookchat", "config.json")
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.WebhookURL != cfg.WebhookURL || loaded.Theme != cfg.Theme {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestAvailableThemes(t *testing.T) {
	themes := AvailableThemes()
	if len(themes) != 2 || themes[0] != ThemeDark || themes[1] != ThemeLight {
		t.Errorf("AvailableThemes() = %v", themes)
	}
}
