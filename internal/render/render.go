package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cde-ev/template-renderer-v3/internal/ctxlog"
)

// Task is one document to produce.
type Task struct {
	// Template is the template filename to render.
	Template string
	// Jobname names the LaTeX output files.
	Jobname string
	// Data is what the template sees as its dot.
	Data any
	// DoubleTex compiles twice, for references, TOCs and longtables.
	DoubleTex bool
	// Subdir is an optional subdirectory of the output directory.
	Subdir string
}

// CompileFunc runs one engine pass over texFile inside dir.
type CompileFunc func(ctx context.Context, command, dir, texFile string) error

// Renderer renders tasks and drives the LaTeX engine over the results.
type Renderer struct {
	Env       *Environment
	OutputDir string
	Command   string
	Cleanup   bool

	// Compile runs one engine pass. Nil means RunLaTeX.
	Compile CompileFunc
}

// Do renders the task's template into the output directory and compiles it.
func (r *Renderer) Do(ctx context.Context, task Task) error {
	log := ctxlog.FromContext(ctx).With("jobname", task.Jobname)

	tmpl, err := r.Env.Template(task.Template)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, task.Data); err != nil {
		return fmt.Errorf("rendering %q: %w", task.Jobname, err)
	}

	dir := r.OutputDir
	if task.Subdir != "" {
		dir = filepath.Join(dir, task.Subdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	texFile := task.Jobname + ".tex"
	if err := os.WriteFile(filepath.Join(dir, texFile), buf.Bytes(), 0o644); err != nil {
		return err
	}

	compile := r.Compile
	if compile == nil {
		compile = RunLaTeX
	}
	passes := 1
	if task.DoubleTex {
		passes = 2
	}
	for pass := 1; pass <= passes; pass++ {
		log.Info("Compiling document.", "pass", pass, "passes", passes)
		if err := compile(ctx, r.Command, dir, texFile); err != nil {
			return fmt.Errorf("compiling %q (pass %d): %w", task.Jobname, pass, err)
		}
	}

	if r.Cleanup {
		if err := cleanupOutputs(dir, task.Jobname); err != nil {
			return fmt.Errorf("cleaning up after %q: %w", task.Jobname, err)
		}
	}
	log.Debug("Document finished.")
	return nil
}

// RunLaTeX executes the engine in batch mode inside dir. Engine output is
// discarded; the .log file carries the details.
func RunLaTeX(ctx context.Context, command, dir, texFile string) error {
	cmd := exec.CommandContext(ctx, command, "--interaction=batchmode", texFile)
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

// cleanupOutputs sorts a finished run's files: the PDF stays where it is, the
// log and the tex source move into log/ and tex/ subdirectories, every other
// file with the task's jobname goes away.
func cleanupOutputs(dir, jobname string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext, ok := strings.CutPrefix(entry.Name(), jobname+".")
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch ext {
		case "pdf":
		case "log", "tex":
			sub := filepath.Join(dir, ext)
			if err := os.MkdirAll(sub, 0o755); err != nil {
				return err
			}
			if err := os.Rename(path, filepath.Join(sub, entry.Name())); err != nil {
				return err
			}
		default:
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}
