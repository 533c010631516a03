// Package replacement replays a page reference string against a fixed number
// of frames and records what each reference did to the frame table.
package replacement

import (
	"strconv"
	"strings"
)

// A Page identifies a unit of memory that a workload references. Pages are
// only ever compared for equality.
type Page int

// A ReferenceSequence is the ordered list of pages a workload touches.
type ReferenceSequence []Page

// Clone returns an independent copy of the sequence.
func (s ReferenceSequence) Clone() ReferenceSequence {
	c := make(ReferenceSequence, len(s))
	copy(c, s)

	return c
}

// String formats the sequence the way it is shown to users, e.g. [7 0 1].
func (s ReferenceSequence) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = strconv.Itoa(int(p))
	}

	return "[" + strings.Join(parts, " ") + "]"
}

// nextUse returns how many positions after from the page is referenced
// again, looking only at positions from+1 onward.
func (s ReferenceSequence) nextUse(page Page, from int) Distance {
	for i := from + 1; i < len(s); i++ {
		if s[i] == page {
			return Distance(i - from - 1)
		}
	}

	return NoFutureUse
}

// Distance is how far in the future a page is needed again.
type Distance int

// NoFutureUse marks a page that is never referenced again. It compares
// greater than every real distance.
const NoFutureUse Distance = 1<<31 - 1
