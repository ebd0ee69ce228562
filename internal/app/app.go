package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/cde-ev/template-renderer-v3/internal/config"
	"github.com/cde-ev/template-renderer-v3/internal/ctxlog"
	"github.com/cde-ev/template-renderer-v3/internal/render"
	"github.com/cde-ev/template-renderer-v3/internal/targets"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *targets.Registry
	conf     *config.Config

	// defaultDir holds the shipped templates, assets and config. Tests
	// point it somewhere else.
	defaultDir string
	// compile replaces the LaTeX engine invocation in tests. Nil runs
	// the real engine.
	compile render.CompileFunc
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and target registry.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	conf, err := config.Load(ctx, cfg.CustomDir, cfg.Definitions)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded.", "customDir", cfg.CustomDir)

	return &App{
		outW:       outW,
		logger:     logger,
		registry:   targets.Builtin(),
		conf:       conf,
		defaultDir: filepath.Join(BaseDir(), "default"),
	}
}

// Registry returns the application's target registry. This is primarily for
// testing.
func (a *App) Registry() *targets.Registry {
	return a.registry
}
