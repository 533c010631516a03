package replacement

import (
	"fmt"
	"strings"
)

// Policy selects how a victim is chosen when the frame table is full.
type Policy int

// The supported policies.
const (
	FIFO Policy = iota + 1
	LRU
	OPT
)

// Policies returns all the supported policies, in display order.
func Policies() []Policy {
	return []Policy{FIFO, LRU, OPT}
}

func (p Policy) String() string {
	switch p {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	case OPT:
		return "OPT"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Valid tells if p is one of the supported policies.
func (p Policy) Valid() bool {
	return p == FIFO || p == LRU || p == OPT
}

// ParsePolicy converts a policy name, case-insensitively, into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo":
		return FIFO, nil
	case "lru":
		return LRU, nil
	case "opt", "optimal":
		return OPT, nil
	default:
		return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfiguration, name)
	}
}

// MarshalText makes policies print by name in JSON and similar encodings.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: unknown policy %d", ErrInvalidConfiguration, int(p))
	}

	return []byte(p.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// NewVictimFinder creates the victim finder that implements the policy.
func NewVictimFinder(p Policy) (VictimFinder, error) {
	switch p {
	case FIFO:
		return NewFIFOVictimFinder(), nil
	case LRU:
		return NewLRUVictimFinder(), nil
	case OPT:
		return NewOPTVictimFinder(), nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %d", ErrInvalidConfiguration, int(p))
	}
}
