package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/petasbytes/moviebot/internal/config"
	"github.com/petasbytes/moviebot/internal/logging"
	"github.com/petasbytes/moviebot/internal/movies"
	"github.com/petasbytes/moviebot/internal/provider"
	"github.com/petasbytes/moviebot/internal/runner"
	"github.com/petasbytes/moviebot/internal/session"
	"github.com/petasbytes/moviebot/memory"
	"github.com/petasbytes/moviebot/tools"
)

// app is the wired process: config, logger, history backend and sessions.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	sessions *session.Manager
	closers  []io.Closer
}

func newApp(logOut io.Writer) (*app, error) {
	// Basic env check (SDK also reads API key)
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return nil, errors.New("missing ANTHROPIC_API_KEY; export it before running")
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	backend, err := a.openBackend()
	if err != nil {
		return nil, err
	}

	src, err := movies.NewClient(movies.Config{
		BaseURL: cfg.Movies.BaseURL,
		APIKey:  cfg.Movies.APIKey,
		Timeout: cfg.Movies.Timeout,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.Oracle.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Oracle.BaseURL))
	}
	oracle := provider.NewAnthropicOracle(provider.NewAnthropicClient(opts...), cfg.Oracle.Model, cfg.Oracle.MaxTokens)

	r := runner.New(oracle, tools.Registry(), src,
		runner.WithDelay(cfg.Lookup.Delay),
		runner.WithOracleTimeout(cfg.Oracle.Timeout),
		runner.WithLogger(log),
	)
	a.sessions = session.NewManager(r, backend, log)

	log.Debug().
		Str("model", cfg.Oracle.Model).
		Str("movies_url", cfg.Movies.BaseURL).
		Str("history", cfg.History.Backend).
		Msg("moviebot wired")
	return a, nil
}

func (a *app) openBackend() (memory.Backend, error) {
	switch a.cfg.History.Backend {
	case config.BackendFile:
		return memory.NewFileBackend(a.cfg.History.Path)
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(a.cfg.History.Path), 0o755); err != nil {
			return nil, fmt.Errorf("history dir: %w", err)
		}
		b, err := memory.NewSQLiteBackend(a.cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, b)
		return b, nil
	default:
		return memory.NopBackend{}, nil
	}
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close")
		}
	}
}

// openSession resumes id, or starts a new session when id is empty.
func (a *app) openSession(ctx context.Context, id string) (*session.Session, error) {
	s, err := a.sessions.Open(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return s, nil
}
