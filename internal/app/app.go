package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/credentials"
	"github.com/five82/roster/internal/localstore"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/remote"
	"github.com/five82/roster/internal/roster"
	"github.com/five82/roster/internal/ui"
)

// Options configure the roster application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/roster/prefs.toml
	Token      string // overrides every other credential source
	EnvFile    string
	TokenFile  string
	LogLevel   string // overrides the config file when set
	// LogOutput receives logs when the config names no log file.
	LogOutput io.Writer
	// Backend overrides the configured store backend.
	Backend string
}

// Services are the long-lived pieces shared by the TUI and the CLI commands.
type Services struct {
	Config config.Config
	Log    *logrus.Logger
	Roster *roster.Collection
	API    *remote.Client
	Token  credentials.Token

	closers []func() error
}

// Open loads configuration and builds every service. Callers must Close the
// result.
func Open(opts Options) (*Services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	log, closeLog, err := logging.New(logging.Options{File: cfg.Log.File, Level: level, Fallback: opts.LogOutput})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	svc := &Services{Config: cfg, Log: log, closers: []func() error{closeLog}}

	token, err := credentials.Resolve(credentials.Options{
		Explicit:  opts.Token,
		EnvFile:   opts.EnvFile,
		TokenFile: opts.TokenFile,
	})
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("resolve access token: %w", err)
	}
	svc.Token = token
	if token.Empty() {
		log.Warn("no access token configured; remote requests will be unauthenticated")
	} else {
		log.WithField("source", token.Source).Debug("access token resolved")
	}

	backend := cfg.Store.Backend
	if strings.TrimSpace(opts.Backend) != "" {
		backend = opts.Backend
	}
	store, err := localstore.Open(localstore.Options{
		Backend:   localstore.Backend(backend),
		Path:      cfg.Store.Path,
		RedisAddr: cfg.Store.RedisAddr,
		Key:       cfg.Store.Key,
		Logger:    log,
	})
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		svc.closers = append(svc.closers, c.Close)
	}
	svc.Roster = roster.New(store, log)

	client, err := remote.NewClient(remote.Options{
		BaseURL: cfg.API.BaseURL,
		Token:   token.Value,
		Timeout: cfg.API.Timeout,
		Logger:  log,
	})
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	svc.API = client

	log.WithFields(logrus.Fields{
		"backend":  backend,
		"api":      client.BaseURL(),
		"students": svc.Roster.Len(),
	}).Info("roster started")
	return svc, nil
}

// Close releases the store connection and the log file.
func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Run boots the roster TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, err := Open(opts)
	if err != nil {
		return err
	}
	defer svc.Close()

	userPrefs := config.LoadPrefs(opts.PrefsPath, svc.Config.UI.Theme)

	return ui.Run(ui.Options{
		Context:   ctx,
		Roster:    svc.Roster,
		API:       svc.API,
		Logger:    svc.Log,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}
