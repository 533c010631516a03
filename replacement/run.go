package replacement

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/pagesim/hooking"
)

// RunState is where a run is in its life cycle.
type RunState int

// A run that was not created by NewRun is idle. NewRun returns a running
// run, which completes once every reference has been served.
const (
	RunIdle RunState = iota
	RunRunning
	RunCompleted
)

func (s RunState) String() string {
	switch s {
	case RunRunning:
		return "Running"
	case RunCompleted:
		return "Completed"
	default:
		return "Idle"
	}
}

// HookPosStep fires after every step. The item is the StepResult.
var HookPosStep = &hooking.HookPos{Name: "Step"}

// HookPosCompleted fires once, after the last step. The item is the final
// Stats.
var HookPosCompleted = &hooking.HookPos{Name: "Completed"}

// A Run replays one reference sequence against one frame table under one
// policy. A Run must not be stepped from more than one goroutine at a time.
type Run struct {
	hooking.HookableBase

	name     string
	policy   Policy
	refs     ReferenceSequence
	table    *FrameTable
	finder   VictimFinder
	state    RunState
	position int
	history  History
	stats    Stats
}

// NewRun validates the configuration and creates a running Run with an empty
// frame table. The references are copied.
func NewRun(capacity int, policy Policy, refs ReferenceSequence) (*Run, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1, got %d",
			ErrInvalidConfiguration, capacity)
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: reference sequence is empty",
			ErrInvalidConfiguration)
	}

	finder, err := NewVictimFinder(policy)
	if err != nil {
		return nil, err
	}

	r := &Run{
		name:    xid.New().String(),
		policy:  policy,
		refs:    refs.Clone(),
		table:   NewFrameTable(capacity),
		finder:  finder,
		state:   RunRunning,
		history: make(History, 0, len(refs)),
	}

	return r, nil
}

// Name returns the unique ID of the run.
func (r *Run) Name() string {
	return r.name
}

// Policy returns the replacement policy of the run.
func (r *Run) Policy() Policy {
	return r.policy
}

// Capacity returns the number of frames.
func (r *Run) Capacity() int {
	if r.table == nil {
		return 0
	}

	return r.table.Capacity()
}

// References returns a copy of the references the run replays.
func (r *Run) References() ReferenceSequence {
	return r.refs.Clone()
}

// State returns where the run is in its life cycle.
func (r *Run) State() RunState {
	return r.state
}

// Position returns the index of the next reference to serve.
func (r *Run) Position() int {
	return r.position
}

// Frames returns a snapshot of the frame table.
func (r *Run) Frames() Frames {
	if r.table == nil {
		return nil
	}

	return r.table.Snapshot()
}

// Queue returns the policy's slot order, head first. OPT returns nil.
func (r *Run) Queue() []int {
	if r.finder == nil {
		return nil
	}

	return r.finder.Queue()
}

// Stats returns the hit and fault counts so far.
func (r *Run) Stats() Stats {
	return r.stats
}

// History returns a copy of the steps taken so far.
func (r *Run) History() History {
	return r.history.Clone()
}

// Step serves the next reference.
func (r *Run) Step() (StepResult, error) {
	switch r.state {
	case RunIdle:
		return StepResult{}, ErrRunNotStarted
	case RunCompleted:
		return StepResult{}, ErrRunCompleted
	}

	page := r.refs[r.position]

	var result StepResult
	if slot, found := r.table.Lookup(page); found {
		result = r.hit(slot)
	} else {
		result = r.fault(page)
	}

	result.Position = r.position
	result.Page = page
	result.Frames = r.table.Snapshot()

	r.record(result)

	return result, nil
}

func (r *Run) hit(slot int) StepResult {
	r.finder.Visit(slot)

	return StepResult{
		Outcome: Hit,
		Slot:    slot,
	}
}

func (r *Run) fault(page Page) StepResult {
	slot, hasEmpty := r.table.FirstEmpty()
	if !hasEmpty {
		slot = r.finder.FindVictim(r.table, r.refs, r.position)
	}

	evicted := r.table.Place(slot, page)
	r.finder.Insert(slot)

	return StepResult{
		Outcome:    Fault,
		Slot:       slot,
		Evicted:    evicted.Page,
		HasEvicted: evicted.Occupied,
	}
}

func (r *Run) record(result StepResult) {
	r.history = append(r.history, result.clone())
	r.position++

	r.stats.References++
	if result.Outcome == Hit {
		r.stats.Hits++
	} else {
		r.stats.Faults++
	}

	r.InvokeHook(hooking.HookCtx{
		Domain: r,
		Pos:    HookPosStep,
		Item:   result,
	})

	if r.position < len(r.refs) {
		return
	}

	r.state = RunCompleted

	r.InvokeHook(hooking.HookCtx{
		Domain: r,
		Pos:    HookPosCompleted,
		Item:   r.stats,
	})
}

// RunToCompletion serves all the remaining references and returns the whole
// history of the run.
func (r *Run) RunToCompletion() (History, error) {
	if r.state != RunRunning {
		_, err := r.Step()
		return nil, err
	}

	for r.state == RunRunning {
		if _, err := r.Step(); err != nil {
			return nil, err
		}
	}

	return r.History(), nil
}
