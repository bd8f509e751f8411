// Package cli implements the depviz command-line interface.
//
// The commands read a sentence (JSON or CoNLL-U), run it through the
// pipeline and write the results to disk, or serve the pipeline over HTTP.
// The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - render: lay out a sentence and write SVG, PDF, PNG, JPEG, JSON, DOT or LaTeX
//   - latex: print the tikz-dependency source of a sentence
//   - inspect: browse a sentence in the terminal and pick tokens to highlight
//   - serve: run the HTTP render service
//   - cache: manage the local artifact cache
//
// # Logging
//
// --verbose (-v) lowers the level to debug and installs
// [observability.LogHooks], so layout, render, export, cache and request
// events show up as debug records. Commands find the logger in their
// context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/observability"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// newLogger writes to w with "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache and HTTP hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	}
}

func installLogHooks(l *log.Logger) {
	hooks := observability.NewLogHooks(l)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// progress logs how long a command took once it is done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, and any
// extra key/value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "duration", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
