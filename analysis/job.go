// Package analysis runs many independent page-replacement runs and compares
// their fault counts across policies and frame counts.
package analysis

import (
	"strconv"
	"strings"

	"github.com/sarchlab/pagesim/replacement"
)

// A Job describes one run to perform.
type Job struct {
	Policy   replacement.Policy
	Capacity int
	Refs     replacement.ReferenceSequence
}

// key identifies jobs that necessarily produce the same result.
func (j Job) key() string {
	var b strings.Builder

	b.WriteString(j.Policy.String())
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(j.Capacity))
	b.WriteByte('/')

	for i, p := range j.Refs {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(strconv.Itoa(int(p)))
	}

	return b.String()
}

func (j Job) run() (replacement.Stats, error) {
	r, err := replacement.NewRun(j.Capacity, j.Policy, j.Refs)
	if err != nil {
		return replacement.Stats{}, err
	}

	if _, err := r.RunToCompletion(); err != nil {
		return replacement.Stats{}, err
	}

	return r.Stats(), nil
}

// A Result is the outcome of a job.
type Result struct {
	Job    Job
	Stats  replacement.Stats
	Cached bool
}
