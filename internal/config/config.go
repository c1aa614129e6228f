package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the resolved roster configuration.
type Config struct {
	API   APIConfig
	Store StoreConfig
	Log   LogConfig
	UI    UIConfig
}

// APIConfig points at the remote students API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StoreConfig selects the local list backend.
type StoreConfig struct {
	Backend   string
	Path      string
	RedisAddr string
	Key       string
}

// LogConfig controls the log file.
type LogConfig struct {
	File  string
	Level string
}

// UIConfig holds TUI defaults.
type UIConfig struct {
	Theme string
}

const (
	defaultConfigPath = "~/.config/roster/config.toml"
	defaultBaseURL    = "https://moringa-school-portal-backend.onrender.com"
	defaultTimeout    = 10 * time.Second
	defaultBackend    = "file"
	defaultStorePath  = "~/.local/share/roster/students.json"
	defaultRedisAddr  = "127.0.0.1:6379"
	defaultStoreKey   = "students"
	defaultLogFile    = "~/.local/state/roster/roster.log"
	defaultLogLevel   = "info"
	defaultTheme      = "Nightfox"
)

type rawConfig struct {
	API struct {
		BaseURL string `toml:"base_url"`
		Timeout string `toml:"timeout"`
	} `toml:"api"`
	Store struct {
		Backend   string `toml:"backend"`
		Path      string `toml:"path"`
		RedisAddr string `toml:"redis_addr"`
		Key       string `toml:"key"`
	} `toml:"store"`
	Log struct {
		File  string `toml:"file"`
		Level string `toml:"level"`
	} `toml:"log"`
	UI struct {
		Theme string `toml:"theme"`
	} `toml:"ui"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		API:   APIConfig{BaseURL: defaultBaseURL, Timeout: defaultTimeout},
		Store: StoreConfig{Backend: defaultBackend, Path: mustExpand(defaultStorePath), RedisAddr: defaultRedisAddr, Key: defaultStoreKey},
		Log:   LogConfig{File: mustExpand(defaultLogFile), Level: defaultLogLevel},
		UI:    UIConfig{Theme: defaultTheme},
	}
}

// Load locates and parses the roster config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	cfg.API.BaseURL = orDefault(raw.API.BaseURL, defaultBaseURL)
	if t := strings.TrimSpace(raw.API.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse config: api.timeout %q is not a positive duration", t)
		}
		cfg.API.Timeout = d
	}

	cfg.Store.Backend = strings.ToLower(orDefault(raw.Store.Backend, defaultBackend))
	switch cfg.Store.Backend {
	case "file", "redis", "memory":
	default:
		return Config{}, fmt.Errorf("parse config: unknown store.backend %q", cfg.Store.Backend)
	}
	cfg.Store.Path = mustExpand(orDefault(raw.Store.Path, defaultStorePath))
	cfg.Store.RedisAddr = orDefault(raw.Store.RedisAddr, defaultRedisAddr)
	cfg.Store.Key = orDefault(raw.Store.Key, defaultStoreKey)

	cfg.Log.File = mustExpand(orDefault(raw.Log.File, defaultLogFile))
	cfg.Log.Level = strings.ToLower(orDefault(raw.Log.Level, defaultLogLevel))

	cfg.UI.Theme = orDefault(raw.UI.Theme, defaultTheme)

	return cfg, nil
}

// DefaultPath returns the config file used when no path is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
