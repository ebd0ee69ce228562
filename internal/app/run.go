package app

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/cde-ev/template-renderer-v3/internal/ctxlog"
	"github.com/cde-ev/template-renderer-v3/internal/event"
	"github.com/cde-ev/template-renderer-v3/internal/export"
	"github.com/cde-ev/template-renderer-v3/internal/render"
	"github.com/cde-ev/template-renderer-v3/internal/scheduler"
	"github.com/cde-ev/template-renderer-v3/internal/targets"
)

// Run loads the export, builds the event graph and renders every requested
// target. It blocks until all jobs finished or the context is cancelled.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	runID := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	logger := a.logger.With("runID", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App run started.")

	var match *regexp.Regexp
	if cfg.Match != "" {
		var err error
		if match, err = regexp.Compile(cfg.Match); err != nil {
			return fmt.Errorf("invalid match pattern %q: %w", cfg.Match, err)
		}
	}

	doc, err := export.ReadFile(cfg.InputFile)
	if err != nil {
		return err
	}
	ev, err := event.FromExport(ctx, doc, event.Options{
		HomeCountries:   a.conf.Data.HomeCountries,
		CourseRoomField: a.conf.Data.CourseRoomField,
	})
	if err != nil {
		return fmt.Errorf("building event graph from %q: %w", cfg.InputFile, err)
	}
	logger.Info("Event data loaded.", "event", ev.Shortname, "registrations", len(ev.Registrations))

	tasks, err := a.assembleTasks(ctx, cfg, ev, match)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		logger.Warn("No documents to render, stopping.")
		return nil
	}

	renderer := &render.Renderer{
		Env:       render.NewEnvironment(a.templateDirs(cfg), a.assetDirs(cfg), a.conf.Data.Location),
		OutputDir: cfg.OutputDir,
		Command:   a.conf.Compile.Command,
		Cleanup:   a.conf.Compile.Cleanup && !cfg.NoCleanup,
		Compile:   a.compile,
	}

	jobs := make([]scheduler.Job, 0, len(tasks))
	for _, task := range tasks {
		task := task
		jobs = append(jobs, scheduler.Job{
			Name: task.Jobname,
			Run:  func(ctx context.Context) error { return renderer.Do(ctx, task) },
		})
	}

	workers := a.workerCount(cfg)
	logger.Info("Starting render jobs.", "jobs", len(jobs), "workers", workers)
	summary := scheduler.Run(ctx, workers, jobs)
	if !summary.OK() {
		logger.Error("Some render jobs failed.", "failed", summary.Failed)
		return fmt.Errorf("%d of %d render jobs failed: %s",
			len(summary.Failed), len(jobs), strings.Join(summary.Failed, ", "))
	}
	logger.Info("Finished all jobs.", "jobs", summary.Done)
	return nil
}

// assembleTasks collects the render tasks of all requested targets.
func (a *App) assembleTasks(ctx context.Context, cfg *Config, ev *event.Event, match *regexp.Regexp) ([]render.Task, error) {
	logger := ctxlog.FromContext(ctx)
	var tasks []render.Task
	for _, name := range cfg.Targets {
		target, ok := a.registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		targetTasks, err := target.Tasks(ctx, targets.Params{
			Event:     ev,
			Options:   a.conf.Target(name),
			OutputDir: cfg.OutputDir,
			Match:     match,
		})
		if err != nil {
			return nil, fmt.Errorf("assembling tasks for target %q: %w", name, err)
		}
		logger.Debug("Target tasks assembled.", "target", name, "tasks", len(targetTasks))
		tasks = append(tasks, targetTasks...)
	}
	return tasks, nil
}

// workerCount resolves the worker cap: the -j flag wins over the config
// file, the fallback leaves one CPU for the rest of the system.
func (a *App) workerCount(cfg *Config) int {
	if cfg.MaxWorkers > 0 {
		return cfg.MaxWorkers
	}
	if a.conf.Compile.MaxWorkers > 0 {
		return a.conf.Compile.MaxWorkers
	}
	return max(1, runtime.NumCPU()-1)
}
