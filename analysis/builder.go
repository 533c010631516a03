package analysis

import (
	"io"
	"log/slog"
)

// Builder can build batches.
type Builder struct {
	workers int
	memo    *Memo
	logger  *slog.Logger
}

// MakeBuilder creates a builder that uses one worker per CPU, no memo, and
// discards logs.
func MakeBuilder() Builder {
	return Builder{}
}

// WithWorkers sets the number of runs performed at the same time.
func (b Builder) WithWorkers(n int) Builder {
	b.workers = n
	return b
}

// WithMemo makes the batch reuse results of jobs it has seen before.
func (b Builder) WithMemo(m *Memo) Builder {
	b.memo = m
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l *slog.Logger) Builder {
	b.logger = l
	return b
}

// Build creates the batch.
func (b Builder) Build() *Batch {
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Batch{
		workers: b.workers,
		memo:    b.memo,
		logger:  logger,
	}
}
