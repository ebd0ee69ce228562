package app

import (
	"errors"

	"github.com/cde-ev/template-renderer-v3/internal/config"
)

// Config holds everything an App instance needs to run once.
type Config struct {
	// Targets names the render targets to produce.
	Targets []string
	// CustomDir holds the event's config file, templates and assets.
	CustomDir string
	// InputFile is the partial export downloaded from the CdEDB.
	InputFile string
	// OutputDir receives the rendered documents. It must exist.
	OutputDir string
	// MaxWorkers caps concurrent compile processes. Zero defers to the
	// configuration file.
	MaxWorkers int
	// Match narrows targets to matching entities, as an uncompiled regexp.
	Match string
	// NoCleanup keeps rendered sources and LaTeX auxiliary files.
	NoCleanup bool
	// Definitions are -D overrides applied after the config file.
	Definitions []config.Override

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputFile == "" {
		return nil, errors.New("an input file is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("an output directory is required")
	}
	return &cfg, nil
}
