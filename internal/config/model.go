package config

import (
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Config is the effective renderer configuration.
type Config struct {
	Data    Data
	Compile Compile

	// Targets holds the free-form options of the target blocks, keyed by
	// target name.
	Targets map[string]TargetOptions
}

// Data controls how the event data is interpreted and rendered.
type Data struct {
	// Timezone is the IANA name of the timezone dates are formatted in.
	Timezone string
	// Location is the loaded Timezone. Load fills it in.
	Location *time.Location
	// HomeCountries are the country spellings omitted from postal blocks.
	// Nil keeps the built-in list.
	HomeCountries []string
	// CourseRoomField overrides the course room field announced by the
	// export. Empty keeps the export's choice.
	CourseRoomField string
}

// Compile controls the LaTeX runs.
type Compile struct {
	// Command is the LaTeX engine binary.
	Command string
	// MaxWorkers caps the parallel compilations. 0 means one per CPU.
	MaxWorkers int
	// Cleanup removes LaTeX byproducts after a successful run.
	Cleanup bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data:    Data{Timezone: "Europe/Berlin"},
		Compile: Compile{Command: "lualatex", Cleanup: true},
		Targets: make(map[string]TargetOptions),
	}
}

// Target returns the options of the named target. Unconfigured targets get an
// empty, read-only view.
func (c *Config) Target(name string) TargetOptions {
	return c.Targets[name]
}

// TargetOptions are the free-form options of one target block. Values stay
// typed HCL values until a target pulls them out.
type TargetOptions map[string]cty.Value

// Has reports whether the option is set to a non-null value.
func (o TargetOptions) Has(name string) bool {
	v, ok := o[name]
	return ok && !v.IsNull()
}

// String returns the named option as a string, or fallback when unset.
func (o TargetOptions) String(name, fallback string) (string, error) {
	v, ok := o[name]
	if !ok || v.IsNull() {
		return fallback, nil
	}
	converted, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("option %q: %w", name, err)
	}
	return converted.AsString(), nil
}

// Bool returns the named option as a bool, or fallback when unset.
func (o TargetOptions) Bool(name string, fallback bool) (bool, error) {
	v, ok := o[name]
	if !ok || v.IsNull() {
		return fallback, nil
	}
	converted, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("option %q: %w", name, err)
	}
	var b bool
	if err := gocty.FromCtyValue(converted, &b); err != nil {
		return false, fmt.Errorf("option %q: %w", name, err)
	}
	return b, nil
}

// Int returns the named option as an int, or fallback when unset.
func (o TargetOptions) Int(name string, fallback int) (int, error) {
	v, ok := o[name]
	if !ok || v.IsNull() {
		return fallback, nil
	}
	converted, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("option %q: %w", name, err)
	}
	var n int
	if err := gocty.FromCtyValue(converted, &n); err != nil {
		return 0, fmt.Errorf("option %q: %w", name, err)
	}
	return n, nil
}

// StringList returns the named option as a list of strings, or nil when
// unset.
func (o TargetOptions) StringList(name string) ([]string, error) {
	v, ok := o[name]
	if !ok || v.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(v, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", name, err)
	}
	var out []string
	for it := converted.ElementIterator(); it.Next(); {
		_, element := it.Element()
		if element.IsNull() {
			continue
		}
		out = append(out, element.AsString())
	}
	return out, nil
}
