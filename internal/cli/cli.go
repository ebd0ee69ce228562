package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cde-ev/template-renderer-v3/internal/app"
	"github.com/cde-ev/template-renderer-v3/internal/config"
	"github.com/cde-ev/template-renderer-v3/internal/targets"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// definitionList collects repeatable -D config definitions.
type definitionList []config.Override

func (d *definitionList) String() string {
	parts := make([]string, 0, len(*d))
	for _, ov := range *d {
		parts = append(parts, ov.Section+"."+ov.Key+"="+ov.Value)
	}
	return strings.Join(parts, " ")
}

func (d *definitionList) Set(value string) error {
	ov, err := config.ParseOverride(value)
	if err != nil {
		return err
	}
	*d = append(*d, ov)
	return nil
}

// Parse processes command-line arguments. It returns a populated app config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	// A .env file in the working directory may supply CDETR_* fallbacks
	// for the flag defaults.
	_ = godotenv.Load()

	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("template-renderer", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
CdE Template Renderer - Renders TeX documents from CdEDB event exports.

Usage:
  template-renderer [options] TARGETS...

Arguments:
  TARGETS
    One or more render targets. Without targets, the available ones are
    listed.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaultCustomDir := envOr("CDETR_CUSTOM_DIR", filepath.Join(app.BaseDir(), "custom"))
	defaultInput := envOr("CDETR_INPUT", "partial_export_event.json")
	defaultOutput := envOr("CDETR_OUTPUT", filepath.Join(app.BaseDir(), "output"))
	defaultLogLevel := envOr("CDETR_LOG_LEVEL", "info")
	defaultLogFormat := envOr("CDETR_LOG_FORMAT", "text")

	var cfg app.Config
	var definitions definitionList
	flagSet.StringVar(&cfg.CustomDir, "custom-dir", defaultCustomDir, "Directory with the event's config file, templates and assets.")
	flagSet.StringVar(&cfg.CustomDir, "c", defaultCustomDir, "Shorthand for -custom-dir.")
	flagSet.StringVar(&cfg.InputFile, "input", defaultInput, "Path of the partial export file downloaded from the CdEDB.")
	flagSet.StringVar(&cfg.InputFile, "i", defaultInput, "Shorthand for -input.")
	flagSet.StringVar(&cfg.OutputDir, "output", defaultOutput, "Path of the output directory. The directory must exist.")
	flagSet.StringVar(&cfg.OutputDir, "o", defaultOutput, "Shorthand for -output.")
	flagSet.IntVar(&cfg.MaxWorkers, "max-workers", 0, "Maximum number of concurrent compile processes. 0 defers to the config file.")
	flagSet.IntVar(&cfg.MaxWorkers, "j", 0, "Shorthand for -max-workers.")
	flagSet.StringVar(&cfg.Match, "match", "", "A regex to match subtasks against, e.g. recipient names for tnletters.")
	flagSet.StringVar(&cfg.Match, "m", "", "Shorthand for -match.")
	flagSet.BoolVar(&cfg.NoCleanup, "no-cleanup", false, "Don't delete rendered sources and LaTeX auxiliary files after compilation.")
	flagSet.BoolVar(&cfg.NoCleanup, "n", false, "Shorthand for -no-cleanup.")
	flagSet.Var(&definitions, "D", "Override a config value in the format section.key=value. May be repeated.")
	flagSet.StringVar(&cfg.LogFormat, "log-format", defaultLogFormat, "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg.Targets = flagSet.Args()
	cfg.Definitions = definitions

	if len(cfg.Targets) == 0 {
		printTargetList(output)
		return nil, false, &ExitError{Code: 1}
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "targets", appConfig.Targets)
	return appConfig, false, nil
}

// printTargetList writes the names and descriptions of all registered
// targets, aligned in two columns.
func printTargetList(output io.Writer) {
	fmt.Fprintln(output, "No targets given. Please specify one or more of the following targets:")
	fmt.Fprintln(output)
	all := targets.Builtin().All()
	width := 0
	for _, t := range all {
		width = max(width, len(t.Name)+1)
	}
	for _, t := range all {
		fmt.Fprintf(output, "  %-*s %s\n", width, t.Name+":", t.Description)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
