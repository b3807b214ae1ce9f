// Package logger builds the structured logger used for diagnostics. Logs go
// to stderr so they never mix with report output on stdout.
package logger

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type Options struct {
	// Verbose lowers the level to debug and adds source locations on
	// terminals.
	Verbose bool
	// Quiet raises the level to error. Verbose wins when both are set.
	Quiet bool
	// NoColor disables colored terminal output.
	NoColor bool
}

// New returns a logger writing to w. Terminals get tint's colored handler,
// everything else a plain text handler.
func New(w io.Writer, opts Options) *slog.Logger {
	lvl := &slog.LevelVar{}
	lvl.Set(level(opts))

	if isTerminal(w) {
		return slog.New(newTerminalHandler(w, lvl, opts))
	}
	return slog.New(newTextHandler(w, lvl))
}

// Default is New on stderr.
func Default(opts Options) *slog.Logger {
	return New(os.Stderr, opts)
}

// Discard drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func level(opts Options) slog.Level {
	switch {
	case opts.Verbose:
		return slog.LevelDebug
	case opts.Quiet:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func newTextHandler(w io.Writer, lvl slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				lvl := a.Value.Any().(slog.Level)
				return slog.String(a.Key, strings.ToLower(lvl.String()))
			}
			return a
		},
	})
}

func newTerminalHandler(w io.Writer, lvl slog.Leveler, opts Options) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor:   opts.NoColor || runtime.GOOS == "windows",
		AddSource: opts.Verbose,
		Level:     lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}
