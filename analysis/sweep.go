package analysis

import (
	"context"
	"fmt"

	"github.com/sarchlab/pagesim/replacement"
)

// A SweepPoint is the fault count at one frame count.
type SweepPoint struct {
	Capacity int
	Faults   int
}

// A Sweep is the fault count of one policy over a range of frame counts.
type Sweep struct {
	Policy replacement.Policy
	Refs   replacement.ReferenceSequence
	Points []SweepPoint
}

// Anomalies returns the points that faulted more than the point with one
// frame less. This is Belady's anomaly, which FIFO can show and LRU and OPT
// cannot.
func (s Sweep) Anomalies() []SweepPoint {
	var a []SweepPoint

	for i := 1; i < len(s.Points); i++ {
		if s.Points[i].Faults > s.Points[i-1].Faults {
			a = append(a, s.Points[i])
		}
	}

	return a
}

// Sweep runs the policy on the references once per frame count from
// minCapacity to maxCapacity.
func (b *Batch) Sweep(
	ctx context.Context,
	policy replacement.Policy,
	refs replacement.ReferenceSequence,
	minCapacity, maxCapacity int,
) (Sweep, error) {
	if minCapacity < 1 || maxCapacity < minCapacity {
		return Sweep{}, fmt.Errorf("%w: frame range %d-%d",
			replacement.ErrInvalidConfiguration, minCapacity, maxCapacity)
	}

	jobs := make([]Job, 0, maxCapacity-minCapacity+1)
	for c := minCapacity; c <= maxCapacity; c++ {
		jobs = append(jobs, Job{Policy: policy, Capacity: c, Refs: refs})
	}

	results, err := b.Run(ctx, jobs)
	if err != nil {
		return Sweep{}, err
	}

	s := Sweep{
		Policy: policy,
		Refs:   refs.Clone(),
		Points: make([]SweepPoint, len(results)),
	}

	for i, r := range results {
		s.Points[i] = SweepPoint{Capacity: r.Job.Capacity, Faults: r.Stats.Faults}
	}

	for _, a := range s.Anomalies() {
		b.logger.Info("Belady's anomaly",
			"policy", policy, "frames", a.Capacity, "faults", a.Faults)
	}

	return s, nil
}
