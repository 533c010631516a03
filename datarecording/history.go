package datarecording

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/replacement"
)

// Table names used for run histories.
const (
	RunTableName  = "pagesim_runs"
	StepTableName = "pagesim_steps"
)

// ErrRunNotFound is returned when a database holds no run with the given ID.
var ErrRunNotFound = errors.New("run not found")

// RunEntry is one row of the run table.
type RunEntry struct {
	RunID    string
	Policy   string
	Capacity int
	Refs     string
}

// References decodes the reference sequence of the run.
func (e RunEntry) References() (replacement.ReferenceSequence, error) {
	fields := strings.Fields(e.Refs)
	refs := make(replacement.ReferenceSequence, len(fields))

	for i, field := range fields {
		p, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bad reference %q: %w", field, err)
		}

		refs[i] = replacement.Page(p)
	}

	return refs, nil
}

// StepEntry is one row of the step table.
type StepEntry struct {
	RunID      string
	Position   int
	Page       int
	Hit        bool
	Slot       int
	Evicted    int
	HasEvicted bool
	Frames     string
}

func stepEntry(runID string, r replacement.StepResult) StepEntry {
	return StepEntry{
		RunID:      runID,
		Position:   r.Position,
		Page:       int(r.Page),
		Hit:        r.IsHit(),
		Slot:       r.Slot,
		Evicted:    int(r.Evicted),
		HasEvicted: r.HasEvicted,
		Frames:     r.Frames.String(),
	}
}

func (e StepEntry) stepResult() (replacement.StepResult, error) {
	frames, err := replacement.ParseFrames(e.Frames)
	if err != nil {
		return replacement.StepResult{}, err
	}

	outcome := replacement.Fault
	if e.Hit {
		outcome = replacement.Hit
	}

	return replacement.StepResult{
		Position:   e.Position,
		Page:       replacement.Page(e.Page),
		Outcome:    outcome,
		Slot:       e.Slot,
		Evicted:    replacement.Page(e.Evicted),
		HasEvicted: e.HasEvicted,
		Frames:     frames,
	}, nil
}

// A HistoryRecorder is a hook that writes every step of the runs it is
// attached to.
type HistoryRecorder struct {
	recorder DataRecorder
	err      error
}

// NewHistoryRecorder creates the run and step tables in the recorder.
func NewHistoryRecorder(recorder DataRecorder) (*HistoryRecorder, error) {
	if err := recorder.CreateTable(RunTableName, RunEntry{}); err != nil {
		return nil, err
	}

	if err := recorder.CreateTable(StepTableName, StepEntry{}); err != nil {
		return nil, err
	}

	return &HistoryRecorder{recorder: recorder}, nil
}

// Attach records the configuration of the run and starts listening to it.
func (h *HistoryRecorder) Attach(run *replacement.Run) error {
	entry := RunEntry{
		RunID:    run.Name(),
		Policy:   run.Policy().String(),
		Capacity: run.Capacity(),
		Refs:     strings.Trim(run.References().String(), "[]"),
	}

	if err := h.recorder.InsertData(RunTableName, entry); err != nil {
		return err
	}

	run.AcceptHook(h)

	return nil
}

// Func records a step, and flushes when a run completes.
func (h *HistoryRecorder) Func(ctx hooking.HookCtx) {
	if h.err != nil {
		return
	}

	switch ctx.Pos {
	case replacement.HookPosStep:
		result := ctx.Item.(replacement.StepResult)
		h.err = h.recorder.InsertData(StepTableName,
			stepEntry(ctx.Domain.Name(), result))
	case replacement.HookPosCompleted:
		h.err = h.recorder.Flush()
	}
}

// Err returns the first error met while recording.
func (h *HistoryRecorder) Err() error {
	return h.err
}

// A HistoryReader loads recorded runs.
type HistoryReader struct {
	reader DataReader
}

// NewHistoryReader maps the history tables of the reader.
func NewHistoryReader(reader DataReader) *HistoryReader {
	reader.MapTable(RunTableName, RunEntry{})
	reader.MapTable(StepTableName, StepEntry{})

	return &HistoryReader{reader: reader}
}

// ListRuns returns every recorded run.
func (h *HistoryReader) ListRuns(ctx context.Context) ([]RunEntry, error) {
	rows, _, err := h.reader.Query(ctx, RunTableName, QueryParams{})
	if err != nil {
		return nil, err
	}

	runs := make([]RunEntry, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, *row.(*RunEntry))
	}

	return runs, nil
}

// LoadRun returns the configuration and the history of one run.
func (h *HistoryReader) LoadRun(
	ctx context.Context,
	runID string,
) (RunEntry, replacement.History, error) {
	rows, _, err := h.reader.Query(ctx, RunTableName, QueryParams{
		Where: "RunID = ?",
		Args:  []any{runID},
	})
	if err != nil {
		return RunEntry{}, nil, err
	}

	if len(rows) == 0 {
		return RunEntry{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	run := *rows[0].(*RunEntry)

	rows, _, err = h.reader.Query(ctx, StepTableName, QueryParams{
		Where:   "RunID = ?",
		Args:    []any{runID},
		OrderBy: "Position ASC",
	})
	if err != nil {
		return RunEntry{}, nil, err
	}

	history := make(replacement.History, 0, len(rows))

	for _, row := range rows {
		step, err := row.(*StepEntry).stepResult()
		if err != nil {
			return RunEntry{}, nil, err
		}

		history = append(history, step)
	}

	return run, history, nil
}
