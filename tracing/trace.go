// Package tracing exports the history of a run to files that other tools can
// read, and imports them back.
package tracing

import (
	"github.com/sarchlab/pagesim/replacement"
)

// A Trace is everything needed to replay a run without running it again.
type Trace struct {
	RunID      string                        `json:"run_id"`
	Policy     replacement.Policy            `json:"policy"`
	Capacity   int                           `json:"capacity"`
	References replacement.ReferenceSequence `json:"references"`
	Steps      replacement.History           `json:"steps"`
}

// FromRun captures the steps a run has taken so far.
func FromRun(run *replacement.Run) Trace {
	return Trace{
		RunID:      run.Name(),
		Policy:     run.Policy(),
		Capacity:   run.Capacity(),
		References: run.References(),
		Steps:      run.History(),
	}
}

// Stats recomputes the hit and fault counts from the steps.
func (t Trace) Stats() replacement.Stats {
	return replacement.Stats{
		References: len(t.Steps),
		Hits:       t.Steps.Hits(),
		Faults:     t.Steps.Faults(),
	}
}
