package replacement

// Outcome classifies a reference.
type Outcome int

// A reference either hits a resident page or faults.
const (
	Fault Outcome = iota
	Hit
)

func (o Outcome) String() string {
	if o == Hit {
		return "HIT"
	}

	return "FAULT"
}

// MarshalText prints the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "HIT":
		*o = Hit
	case "FAULT":
		*o = Fault
	default:
		return ErrInvalidConfiguration
	}

	return nil
}

// StepResult records what serving one reference did.
type StepResult struct {
	// Position is the index of the reference in the sequence.
	Position int `json:"position"`

	// Page is the referenced page.
	Page Page `json:"page"`

	Outcome Outcome `json:"outcome"`

	// Slot is the slot that was hit, filled, or refilled after eviction.
	Slot int `json:"slot"`

	// Evicted is the page that was replaced. Only valid if HasEvicted.
	Evicted    Page `json:"evicted"`
	HasEvicted bool `json:"has_evicted"`

	// Frames is the frame table after the step.
	Frames Frames `json:"frames"`
}

func (r StepResult) clone() StepResult {
	r.Frames = r.Frames.Clone()
	return r
}

// IsHit tells if the reference was a hit.
func (r StepResult) IsHit() bool {
	return r.Outcome == Hit
}

// History is the ordered list of step results of a run.
type History []StepResult

// Clone returns a deep copy of the history.
func (h History) Clone() History {
	c := make(History, len(h))
	for i, s := range h {
		c[i] = s.clone()
	}

	return c
}

// Faults counts the faulting steps.
func (h History) Faults() int {
	n := 0

	for _, s := range h {
		if s.Outcome == Fault {
			n++
		}
	}

	return n
}

// Hits counts the hitting steps.
func (h History) Hits() int {
	return len(h) - h.Faults()
}

// Outcomes lists the outcome of every step.
func (h History) Outcomes() []Outcome {
	o := make([]Outcome, len(h))
	for i, s := range h {
		o[i] = s.Outcome
	}

	return o
}

// Stats summarizes a run so far.
type Stats struct {
	References int `json:"references"`
	Hits       int `json:"hits"`
	Faults     int `json:"faults"`
}

// HitRatio returns hits over processed references, 0 if none processed.
func (s Stats) HitRatio() float64 {
	if s.References == 0 {
		return 0
	}

	return float64(s.Hits) / float64(s.References)
}
