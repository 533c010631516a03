package analysis

import (
	"context"

	"github.com/sarchlab/pagesim/replacement"
)

// A Comparison holds the statistics of every policy on the same references
// and frame count.
type Comparison struct {
	Capacity int
	Refs     replacement.ReferenceSequence
	Stats    map[replacement.Policy]replacement.Stats
}

// Faults returns the fault count of a policy.
func (c Comparison) Faults(p replacement.Policy) int {
	return c.Stats[p].Faults
}

// OptimalIsMinimal tells if OPT faulted no more than any other policy, which
// must always hold.
func (c Comparison) OptimalIsMinimal() bool {
	opt := c.Faults(replacement.OPT)

	for p, s := range c.Stats {
		if p != replacement.OPT && s.Faults < opt {
			return false
		}
	}

	return true
}

// Compare runs every policy on the references with the given frame count.
func (b *Batch) Compare(
	ctx context.Context,
	capacity int,
	refs replacement.ReferenceSequence,
) (Comparison, error) {
	policies := replacement.Policies()

	jobs := make([]Job, len(policies))
	for i, p := range policies {
		jobs[i] = Job{Policy: p, Capacity: capacity, Refs: refs}
	}

	results, err := b.Run(ctx, jobs)
	if err != nil {
		return Comparison{}, err
	}

	c := Comparison{
		Capacity: capacity,
		Refs:     refs.Clone(),
		Stats:    make(map[replacement.Policy]replacement.Stats, len(results)),
	}

	for _, r := range results {
		c.Stats[r.Job.Policy] = r.Stats
	}

	if !c.OptimalIsMinimal() {
		b.logger.Error("OPT faulted more than another policy",
			"frames", capacity, "refs", refs.String())
	}

	return c, nil
}
