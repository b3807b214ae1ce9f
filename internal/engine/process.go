package engine

import (
	"log/slog"
	"reporeview/internal/checks"
	"reporeview/internal/settings"
	"reporeview/internal/tree"
)

// Options are the runtime selection options of one run.
type Options struct {
	Select       []string
	Ignore       []string
	ExtendSelect []string
	ExtendIgnore []string
	// PackageDir is the package directory relative to the root. Empty means
	// the root itself.
	PackageDir string
	Logger     *slog.Logger
}

// Report is the outcome of reviewing one repository.
type Report struct {
	Target string
	// Families holds metadata for every family referenced by a collected
	// check.
	Families map[string]checks.Family
	Results  []checks.Result
	Warnings []string
	// Empty is set when no check was collected at all.
	Empty bool
}

// Failed reports whether any result failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == checks.StatusFail {
			return true
		}
	}
	return false
}

// Process reviews the repository at root. Every collected check runs; the
// selection only decides which results are reported.
func Process(root tree.Tree, m Manifest, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	pkg := root
	if opts.PackageDir != "" {
		pkg = root.Join(opts.PackageDir)
	}

	coll, err := CollectAll(root, pkg, m, log)
	if err != nil {
		return nil, err
	}
	log.Debug("collected checks", "target", root.String(), "fixtures", coll.Fixtures.Len(), "checks", len(coll.Checks))

	s, err := settings.Load(pkg)
	if err != nil {
		return nil, err
	}
	if s.Source != "" {
		log.Debug("loaded repository settings", "source", s.Source)
	}
	sel := NewSelection(opts, s)

	sched := NewScheduler(log)
	completed, err := sched.Run(coll.Fixtures, coll.Checks)
	if err != nil {
		return nil, err
	}

	return &Report{
		Target:   root.String(),
		Families: coll.Families,
		Results:  aggregate(coll, completed, sel),
		Warnings: sched.Warnings(),
		Empty:    len(coll.Checks) == 0,
	}, nil
}
