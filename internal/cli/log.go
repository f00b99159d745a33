// Package cli implements the algoreel command-line interface.
//
// This package provides commands for compiling and rendering algorithm
// scenes, inspecting BST insertion layouts, serving live previews over HTTP
// and managing the render cache and run history. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Compile a scene and encode it as mp4, gif, png, svg or json
//   - scenes: List registered scenes and quality presets
//   - layout: Print the insertion table for a list of values
//   - pick: Choose a scene interactively and render it
//   - serve: Serve timelines and SVG frames over HTTP
//   - cache, history, clean: Manage cached artifacts, past runs and media
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Timestamps read "15:04:05.00"; at
// debug level lines are also prefixed with the binary name.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	if level <= log.DebugLevel {
		l.SetPrefix(appName)
	}
	return l
}

// progress logs how long a multi-step operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time and any extra key/value pairs,
// e.g. `Rendered scenes ok=3 failed=0 elapsed=4.2s`.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
