package tracing

import (
	"io"
	"log/slog"

	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/replacement"
)

// A Tracer is a hook that exports the history of a run once the run
// completes.
type Tracer struct {
	path   string
	logger *slog.Logger
	err    error
}

// NewTracer creates a tracer that writes to path. The path also picks the
// format, for example run.json or run.csv.lz4.
func NewTracer(path string, logger *slog.Logger) (*Tracer, error) {
	if _, _, err := codecOf(path); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Tracer{path: path, logger: logger}, nil
}

// Attach makes the tracer listen to the completion of the run.
func (t *Tracer) Attach(run *replacement.Run) {
	run.AcceptHook(t, replacement.HookPosCompleted)
}

// Func exports the history of the completed run.
func (t *Tracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != replacement.HookPosCompleted {
		return
	}

	run, ok := ctx.Domain.(*replacement.Run)
	if !ok {
		return
	}

	t.err = Export(t.path, FromRun(run))
	if t.err != nil {
		t.logger.Error("trace export failed", "path", t.path, "err", t.err)
		return
	}

	t.logger.Info("trace exported", "path", t.path, "run", run.Name())
}

// Err returns the error of the last export.
func (t *Tracer) Err() error {
	return t.err
}
