package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a step took once it finishes.
type progress struct {
	logger *log.Logger
	now    func() time.Time
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, now: time.Now, start: time.Now()}
}

// done logs the formatted message with the elapsed time rounded to the
// millisecond, e.g. "Rendered scene.toml (12ms)".
func (p *progress) done(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), p.now().Sub(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
