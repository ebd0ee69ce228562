package render

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"text/template"
	"time"
)

// Environment loads and parses templates. Template and asset directories are
// searched in order, so a custom directory listed first shadows the shipped
// defaults file by file.
type Environment struct {
	templateDirs []string
	assetDirs    []string
	location     *time.Location
	now          time.Time
	funcs        template.FuncMap
}

// NewEnvironment builds a template environment. A nil location falls back to
// UTC. The "now" template function is frozen here, so every document of one
// run shows the same timestamp.
func NewEnvironment(templateDirs, assetDirs []string, location *time.Location) *Environment {
	if location == nil {
		location = time.UTC
	}
	env := &Environment{
		templateDirs: templateDirs,
		assetDirs:    assetDirs,
		location:     location,
		now:          time.Now().In(location),
	}
	env.funcs = template.FuncMap{
		"e":             func(v any) string { return TexEscape(stringify(v)) },
		"elines":        func(v any) string { return TexEscapeLines(stringify(v)) },
		"date":          func(v any) (string, error) { return env.formatTime("02.01.2006", v) },
		"shortDate":     func(v any) (string, error) { return env.formatTime("02.01.", v) },
		"datetime":      func(v any) (string, error) { return env.formatTime("02.01.2006 15:04", v) },
		"formatTime":    env.formatTime,
		"now":           func() time.Time { return env.now },
		"findAsset":     env.findAsset,
		"inverseChunks": inverseChunks,
	}
	return env
}

// Template loads and parses the named template file.
func (env *Environment) Template(name string) (*template.Template, error) {
	path, ok := findFile(name, env.templateDirs)
	if !ok {
		return nil, fmt.Errorf("template %q not found in %v", name, env.templateDirs)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	tmpl, err := template.New(name).
		Delims("<<", ">>").
		Option("missingkey=error").
		Funcs(env.funcs).
		Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	return tmpl, nil
}

// findAsset resolves an asset name against the asset directories and returns
// a slash-separated path for use inside TeX, or "" when no directory has it.
func (env *Environment) findAsset(name string) string {
	if path, ok := findFile(name, env.assetDirs); ok {
		return filepath.ToSlash(path)
	}
	return ""
}

func findFile(name string, dirs []string) (string, bool) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		full := filepath.Join(dir, filepath.FromSlash(name))
		if _, err := os.Stat(full); err == nil {
			return full, true
		}
	}
	return "", false
}

// formatTime renders a time value in the configured timezone. Nil values
// format to the empty string so nullable date fields stay usable.
func (env *Environment) formatTime(layout string, v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		return t.In(env.location).Format(layout), nil
	case *time.Time:
		if t == nil {
			return "", nil
		}
		return t.In(env.location).Format(layout), nil
	default:
		return "", fmt.Errorf("cannot format %T as a time", v)
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// inverseChunks reverses the order within consecutive chunks of n elements.
// Duplex printing needs this: the backsides of a sheet of badges mirror the
// front row, so each row is laid out in reverse. A short final chunk is
// reversed as-is.
func inverseChunks(n int, items any) ([]any, error) {
	if n < 1 {
		return nil, fmt.Errorf("chunk size %d is not positive", n)
	}
	v := reflect.ValueOf(items)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot chunk %T", items)
	}
	length := v.Len()
	out := make([]any, 0, length)
	for start := 0; start < length; start += n {
		end := start + n
		if end > length {
			end = length
		}
		for i := end - 1; i >= start; i-- {
			out = append(out, v.Index(i).Interface())
		}
	}
	return out, nil
}
