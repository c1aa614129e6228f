package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != defaultBaseURL {
		t.Fatalf("API.BaseURL = %q, want %q", cfg.API.BaseURL, defaultBaseURL)
	}
	if cfg.API.Timeout != defaultTimeout {
		t.Fatalf("API.Timeout = %v, want %v", cfg.API.Timeout, defaultTimeout)
	}
	if cfg.Store.Backend != "file" {
		t.Fatalf("Store.Backend = %q, want file", cfg.Store.Backend)
	}

	wantPath, err := expandPath(defaultStorePath)
	if err != nil {
		t.Fatalf("expandPath(defaultStorePath) returned error: %v", err)
	}
	if cfg.Store.Path != wantPath {
		t.Fatalf("Store.Path = %q, want %q", cfg.Store.Path, wantPath)
	}
	if cfg.Store.Key != "students" {
		t.Fatalf("Store.Key = %q, want students", cfg.Store.Key)
	}
	if !strings.HasPrefix(cfg.Log.File, home) {
		t.Fatalf("Log.File = %q, want it under HOME %q", cfg.Log.File, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
[api]
base_url = "  http://127.0.0.1:8080  "
timeout = "3s"

[store]
backend = " Redis "
redis_addr = "10.0.0.5:6380"
key = "roster:students"

[log]
file = "  ~/logs/roster.log  "
level = "DEBUG"

[ui]
theme = "Slate"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8080" {
		t.Fatalf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://127.0.0.1:8080")
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Fatalf("API.Timeout = %v, want 3s", cfg.API.Timeout)
	}
	if cfg.Store.Backend != "redis" {
		t.Fatalf("Store.Backend = %q, want redis", cfg.Store.Backend)
	}
	if cfg.Store.RedisAddr != "10.0.0.5:6380" {
		t.Fatalf("Store.RedisAddr = %q, want %q", cfg.Store.RedisAddr, "10.0.0.5:6380")
	}
	if cfg.Store.Key != "roster:students" {
		t.Fatalf("Store.Key = %q, want %q", cfg.Store.Key, "roster:students")
	}
	if cfg.Log.File != filepath.Join(home, "logs", "roster.log") {
		t.Fatalf("Log.File = %q, want it under HOME %q", cfg.Log.File, home)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.UI.Theme != "Slate" {
		t.Fatalf("UI.Theme = %q, want Slate", cfg.UI.Theme)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
[api]
base_url = "   "
[store]
path = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != defaultBaseURL {
		t.Fatalf("API.BaseURL = %q, want %q", cfg.API.BaseURL, defaultBaseURL)
	}
	wantPath, err := expandPath(defaultStorePath)
	if err != nil {
		t.Fatalf("expandPath(defaultStorePath) returned error: %v", err)
	}
	if cfg.Store.Path != wantPath {
		t.Fatalf("Store.Path = %q, want %q", cfg.Store.Path, wantPath)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	for name, body := range map[string]string{
		"syntax":  `[api`,
		"timeout": "[api]\ntimeout = \"soon\"\n",
		"backend": "[store]\nbackend = \"sqlite\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want parse error")
			}
			if !strings.Contains(err.Error(), "parse config") {
				t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestPrefs_MissingFileUsesFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := LoadPrefs("", "Nightfox")
	if p.Theme != "Nightfox" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Nightfox")
	}
}

func TestPrefs_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	if err := SavePrefs(path, Prefs{Theme: "Kanagawa"}); err != nil {
		t.Fatalf("SavePrefs returned error: %v", err)
	}
	p := LoadPrefs(path, "Dracula")
	if p.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Kanagawa")
	}
}

func TestPrefs_BrokenFileUsesFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p := LoadPrefs(path, "Dracula")
	if p.Theme != "Dracula" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Dracula")
	}
}
