package targets

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/cde-ev/template-renderer-v3/internal/config"
	"github.com/cde-ev/template-renderer-v3/internal/event"
	"github.com/cde-ev/template-renderer-v3/internal/render"
)

// Params is everything a target may consult when assembling its tasks.
type Params struct {
	// Event is the immutable event graph.
	Event *event.Event
	// Options holds the target's configuration block.
	Options config.TargetOptions
	// OutputDir is the root output directory of the run.
	OutputDir string
	// Match narrows the target to matching entities. Nil selects everything.
	Match *regexp.Regexp
}

// Target produces the render tasks for one family of documents.
type Target struct {
	// Name is the identifier given on the command line.
	Name string
	// Description is a one-line summary for the target listing.
	Description string
	// Tasks assembles the documents to render.
	Tasks func(ctx context.Context, p Params) ([]render.Task, error)
}

// Registry holds the registered render targets of one application instance.
type Registry struct {
	targets map[string]Target
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]Target)}
}

// Register adds a target. Registering a second target under the same name
// is a programmer error and panics.
func (r *Registry) Register(t Target) {
	if t.Name == "" || t.Tasks == nil {
		panic("render target needs a name and a task function")
	}
	if _, exists := r.targets[t.Name]; exists {
		panic(fmt.Sprintf("render target with name '%s' already registered", t.Name))
	}
	slog.Debug("Registering render target.", "name", t.Name)
	r.targets[t.Name] = t
}

// Lookup returns the target registered under name.
func (r *Registry) Lookup(name string) (Target, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// All returns the registered targets sorted by name.
func (r *Registry) All() []Target {
	out := make([]Target, 0, len(r.targets))
	for _, t := range r.targets {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Target) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Builtin returns a registry with all built-in targets registered.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(TNLetters())
	r.Register(Nametags())
	r.Register(ParticipantLists())
	r.Register(CourseLists())
	return r
}
