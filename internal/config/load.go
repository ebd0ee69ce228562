package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	// Fallback timezone database for systems without zoneinfo.
	_ "time/tzdata"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/cde-ev/template-renderer-v3/internal/ctxlog"
)

// FileName is the configuration file looked up inside a custom directory.
const FileName = "config.hcl"

// hclFile is the decoding structure of a config.hcl.
type hclFile struct {
	Data    *hclData     `hcl:"data,block"`
	Compile *hclCompile  `hcl:"compile,block"`
	Targets []*hclTarget `hcl:"target,block"`
}

// Attributes are pointers so that an absent attribute keeps the value of the
// layer below instead of zeroing it.
type hclData struct {
	Timezone        *string   `hcl:"timezone,optional"`
	HomeCountries   *[]string `hcl:"home_countries,optional"`
	CourseRoomField *string   `hcl:"course_room_field,optional"`
}

type hclCompile struct {
	Command    *string `hcl:"command,optional"`
	MaxWorkers *int    `hcl:"max_workers,optional"`
	Cleanup    *bool   `hcl:"cleanup,optional"`
}

type hclTarget struct {
	Name    string   `hcl:"name,label"`
	Options hcl.Body `hcl:",remain"`
}

// Load assembles the effective configuration. customDir may be empty and a
// custom directory without a config.hcl is fine; overrides apply last.
func Load(ctx context.Context, customDir string, overrides []Override) (*Config, error) {
	log := ctxlog.FromContext(ctx)
	cfg := Default()

	if customDir != "" {
		path := filepath.Join(customDir, FileName)
		err := cfg.mergeFile(path)
		switch {
		case err == nil:
			log.Debug("Loaded configuration file.", "path", path)
		case errors.Is(err, fs.ErrNotExist):
			log.Debug("No configuration file in custom directory.", "path", path)
		default:
			return nil, err
		}
	}

	for _, o := range overrides {
		if err := cfg.apply(o); err != nil {
			return nil, err
		}
	}

	loc, err := time.LoadLocation(cfg.Data.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", cfg.Data.Timezone)
	}
	cfg.Data.Location = loc
	return cfg, nil
}

// mergeFile overlays one config.hcl onto the configuration.
func (c *Config) mergeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	if d := parsed.Data; d != nil {
		if d.Timezone != nil {
			c.Data.Timezone = *d.Timezone
		}
		if d.HomeCountries != nil {
			c.Data.HomeCountries = *d.HomeCountries
		}
		if d.CourseRoomField != nil {
			c.Data.CourseRoomField = *d.CourseRoomField
		}
	}
	if co := parsed.Compile; co != nil {
		if co.Command != nil {
			c.Compile.Command = *co.Command
		}
		if co.MaxWorkers != nil {
			c.Compile.MaxWorkers = *co.MaxWorkers
		}
		if co.Cleanup != nil {
			c.Compile.Cleanup = *co.Cleanup
		}
	}
	for _, t := range parsed.Targets {
		attrs, diags := t.Options.JustAttributes()
		if diags.HasErrors() {
			return fmt.Errorf("target %q options: %w", t.Name, diags)
		}
		opts := c.Targets[t.Name]
		if opts == nil {
			opts = make(TargetOptions, len(attrs))
			c.Targets[t.Name] = opts
		}
		for name, attr := range attrs {
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return fmt.Errorf("target %q option %q: %w", t.Name, name, diags)
			}
			opts[name] = v
		}
	}
	return nil
}

// Override is one -D command line override.
type Override struct {
	Section string
	Key     string
	Value   string
}

// ParseOverride splits a "section.key=value" argument.
func ParseOverride(s string) (Override, error) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return Override{}, fmt.Errorf("override %q: expected section.key=value", s)
	}
	path, value := s[:eq], s[eq+1:]
	dot := strings.IndexByte(path, '.')
	if dot <= 0 || dot == len(path)-1 {
		return Override{}, fmt.Errorf("override %q: expected section.key=value", s)
	}
	return Override{Section: path[:dot], Key: path[dot+1:], Value: value}, nil
}

// apply sets one override. Unknown sections address target options, so that
// every target knob is reachable from the command line.
func (c *Config) apply(o Override) error {
	switch o.Section {
	case "data":
		switch o.Key {
		case "timezone":
			c.Data.Timezone = o.Value
		case "home_countries":
			c.Data.HomeCountries = splitList(o.Value)
		case "course_room_field":
			c.Data.CourseRoomField = o.Value
		default:
			return fmt.Errorf("unknown data option %q", o.Key)
		}
	case "compile":
		switch o.Key {
		case "command":
			c.Compile.Command = o.Value
		case "max_workers":
			n, err := strconv.Atoi(o.Value)
			if err != nil {
				return fmt.Errorf("compile.max_workers: %q is not a number", o.Value)
			}
			c.Compile.MaxWorkers = n
		case "cleanup":
			b, err := strconv.ParseBool(o.Value)
			if err != nil {
				return fmt.Errorf("compile.cleanup: %q is not a bool", o.Value)
			}
			c.Compile.Cleanup = b
		default:
			return fmt.Errorf("unknown compile option %q", o.Key)
		}
	default:
		opts := c.Targets[o.Section]
		if opts == nil {
			opts = make(TargetOptions, 1)
			c.Targets[o.Section] = opts
		}
		opts[o.Key] = cty.StringVal(o.Value)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
