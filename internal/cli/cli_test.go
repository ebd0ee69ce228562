package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cde-ev/template-renderer-v3/internal/config"
)

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{"nametags"}, &out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, []string{"nametags"}, cfg.Targets)
	assert.Equal(t, "partial_export_event.json", cfg.InputFile)
	assert.NotEmpty(t, cfg.CustomDir)
	assert.NotEmpty(t, cfg.OutputDir)
	assert.Zero(t, cfg.MaxWorkers)
	assert.Empty(t, cfg.Match)
	assert.False(t, cfg.NoCleanup)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParseFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{
		"-c", "my-event",
		"--input", "ta23_partial_export_event.json",
		"-o", "out",
		"-j", "3",
		"-m", "Berta",
		"-n",
		"-D", "data.timezone=UTC",
		"-D", "compile.cleanup=false",
		"--log-level", "DEBUG",
		"--log-format", "json",
		"tnletters", "nametags",
	}, &out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, []string{"tnletters", "nametags"}, cfg.Targets)
	assert.Equal(t, "my-event", cfg.CustomDir)
	assert.Equal(t, "ta23_partial_export_event.json", cfg.InputFile)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.Equal(t, "Berta", cfg.Match)
	assert.True(t, cfg.NoCleanup)
	assert.Equal(t, []config.Override{
		{Section: "data", Key: "timezone", Value: "UTC"},
		{Section: "compile", Key: "cleanup", Value: "false"},
	}, cfg.Definitions)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParseEnvFallback(t *testing.T) {
	t.Setenv("CDETR_INPUT", "from_env.json")
	t.Setenv("CDETR_LOG_LEVEL", "warn")

	var out bytes.Buffer
	cfg, _, err := Parse([]string{"nametags"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "from_env.json", cfg.InputFile)
	assert.Equal(t, "warn", cfg.LogLevel)

	// An explicit flag wins over the environment.
	cfg, _, err = Parse([]string{"-i", "flag.json", "nametags"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "flag.json", cfg.InputFile)
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseNoTargets(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse(nil, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Empty(t, exitErr.Message)

	listing := out.String()
	assert.Contains(t, listing, "No targets given.")
	for _, name := range []string{"tnletters", "nametags", "participant_lists", "course_lists"} {
		assert.Contains(t, listing, name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--frobnicate", "nametags"}},
		{"bad definition", []string{"-D", "garbage", "nametags"}},
		{"bad log level", []string{"--log-level", "loud", "nametags"}},
		{"bad log format", []string{"--log-format", "xml", "nametags"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tt.args, &out)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
