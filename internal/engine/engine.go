package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reporeview/internal/config"
	gh "reporeview/internal/github"
	"reporeview/internal/output"
	"reporeview/internal/tree"

	"golang.org/x/sync/errgroup"
)

func exitCodeForRun(fatal, partial, failures bool) int {
	// Exit code contract:
	// 0 = clean run, every reported check passed or was skipped
	// 1 = failing checks
	// 2 = partial failure (a target errored or ran no checks)
	// 3 = fatal error (nothing was reviewed)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	if failures {
		return 1
	}
	return 0
}

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		var sink output.Sink
		if cfg.Output.Format == "text" {
			sink = output.NewConsoleSink(stdout, cfg.Output.FilterStatus, cfg.Output.NoColor)
		} else {
			es, err := output.NewEmitSink(stdout, cfg.Output.Format, cfg.Output.FilterStatus)
			if err != nil {
				outMgr.Close()
				return nil, err
			}
			sink = es
		}
		if err := outMgr.AddSink(sink); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// Engine reviews the targets of a run and streams results to the output
// sinks.
type Engine struct {
	// Client reads GitHub targets. It may be nil when every target is local.
	Client   *gh.Client
	Manifest Manifest
	Log      *slog.Logger

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// openTarget is a test seam. If nil, Target.Open is used.
	openTarget func(ctx context.Context, t Target) (tree.Tree, error)
}

func NewEngine(client *gh.Client, m Manifest, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		Client:   client,
		Manifest: m,
		Log:      log,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// uniqueName returns name, or name with a " (n)" suffix when an earlier
// target of the run already reported under it. Sinks group results by target
// name, so a repository supplied twice must not merge into one report.
func uniqueName(name string, seen map[string]bool) string {
	out := name
	for n := 2; seen[out]; n++ {
		out = fmt.Sprintf("%s (%d)", name, n)
	}
	seen[out] = true
	return out
}

// opened is a target and the result of opening it.
type opened struct {
	target Target
	root   tree.Tree
	err    error
}

func (e *Engine) open(ctx context.Context, t Target) (tree.Tree, error) {
	if e.openTarget != nil {
		return e.openTarget(ctx, t)
	}
	if t.Remote() && e.Client == nil {
		return nil, fmt.Errorf("open %s: no GitHub client configured", t)
	}
	return t.Open(ctx, e.Client)
}

// openAll opens every target, at most concurrency at a time. The returned
// slice is in target order; a failure to open one target does not stop the
// others.
func (e *Engine) openAll(ctx context.Context, targets []Target, concurrency int) []opened {
	out := make([]opened, len(targets))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, t := range targets {
		i, t := i, t
		out[i].target = t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i].err = err
				return nil
			}
			e.Log.Debug("opening target", "target", t.String())
			out[i].root, out[i].err = e.open(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// OptionsFromConfig converts the check configuration into run options.
func OptionsFromConfig(cfg *config.Config, log *slog.Logger) Options {
	return Options{
		Select:       cfg.Checks.Select,
		Ignore:       cfg.Checks.Ignore,
		ExtendSelect: cfg.Checks.ExtendSelect,
		ExtendIgnore: cfg.Checks.ExtendIgnore,
		PackageDir:   cfg.Targets.PackageDir,
		Logger:       log,
	}
}

func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	stderr := e.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stdout := e.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	targets := make([]Target, 0, len(cfg.Targets.Paths))
	for _, raw := range cfg.Targets.Paths {
		t, err := ParseTarget(raw)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCodeForRun(true, false, false)
		}
		targets = append(targets, t)
	}

	outMgr, err := setupOutputManager(cfg, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	defer func() {
		if err := outMgr.Close(); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	if !cfg.Output.NoConsole && cfg.Output.Format == "text" {
		fmt.Fprintf(stderr, "Opening %d target(s)...\n", len(targets))
	}
	roots := e.openAll(ctx, targets, cfg.Runtime.Concurrency)

	_ = outMgr.Write(output.Event{Type: output.EventRunStarted, Targets: len(targets)})

	opts := OptionsFromConfig(cfg, e.Log)
	var errored, empty, failures int
	seen := make(map[string]bool, len(roots))
	for _, o := range roots {
		name := o.target.String()
		if o.root != nil {
			name = o.root.String()
		}
		name = uniqueName(name, seen)
		_ = outMgr.Write(output.Event{Type: output.EventTargetStarted, Target: name})

		if o.err != nil {
			errored++
			e.Log.Debug("target could not be opened", "target", name, "error", o.err)
			_ = outMgr.Write(output.Event{Type: output.EventTargetFailed, Target: name, Error: presentTargetError(o.err, cfg.Runtime.Verbose)})
			continue
		}

		report, err := Process(o.root, e.Manifest, opts)
		if err != nil {
			errored++
			_ = outMgr.Write(output.Event{Type: output.EventTargetFailed, Target: name, Error: presentTargetError(err, cfg.Runtime.Verbose)})
			continue
		}

		for _, r := range report.Results {
			r.Target = name
			_ = outMgr.Write(r)
		}
		if report.Empty {
			empty++
		}
		if report.Failed() {
			failures++
		}
		_ = outMgr.Write(output.Event{
			Type:     output.EventTargetFinished,
			Target:   name,
			Families: report.Families,
			Warnings: report.Warnings,
			Empty:    report.Empty,
		})
	}

	fatal := len(targets) > 0 && errored == len(targets)
	code := exitCodeForRun(fatal, errored > 0 || empty > 0, failures > 0)
	_ = outMgr.Write(output.Event{Type: output.EventRunFinished, ExitCode: code})
	return code
}
