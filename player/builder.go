package player

import (
	"io"
	"os"
	"time"
)

// DefaultDelay is the pause between two steps.
const DefaultDelay = time.Second

// Builder can build players.
type Builder struct {
	w     io.Writer
	delay time.Duration
}

// MakeBuilder creates a builder that writes to stdout with the default
// delay.
func MakeBuilder() Builder {
	return Builder{
		w:     os.Stdout,
		delay: DefaultDelay,
	}
}

// WithWriter sets where the player prints.
func (b Builder) WithWriter(w io.Writer) Builder {
	b.w = w
	return b
}

// WithDelay sets the pause between steps. Zero plays without pausing.
func (b Builder) WithDelay(d time.Duration) Builder {
	b.delay = d
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.w == nil {
		panic("writer is not set")
	}

	if b.delay < 0 {
		panic("delay must not be negative")
	}
}

// Build creates the player.
func (b Builder) Build() *Player {
	b.parametersMustBeValid()

	return &Player{
		w:     b.w,
		delay: b.delay,
	}
}
