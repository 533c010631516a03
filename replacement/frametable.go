package replacement

import (
	"fmt"
	"strconv"
	"strings"
)

// A Slot is one frame of the frame table.
type Slot struct {
	Page     Page `json:"page"`
	Occupied bool `json:"occupied"`
}

// Frames is a snapshot of all the slots of a frame table, in slot order.
type Frames []Slot

// Clone returns an independent copy of the frames.
func (f Frames) Clone() Frames {
	if f == nil {
		return nil
	}

	c := make(Frames, len(f))
	copy(c, f)

	return c
}

// Occupied returns the number of slots that hold a page.
func (f Frames) Occupied() int {
	n := 0

	for _, s := range f {
		if s.Occupied {
			n++
		}
	}

	return n
}

// Pages returns the page of every slot. The second result tells which slots
// are occupied.
func (f Frames) Pages() ([]Page, []bool) {
	pages := make([]Page, len(f))
	occupied := make([]bool, len(f))

	for i, s := range f {
		pages[i] = s.Page
		occupied[i] = s.Occupied
	}

	return pages, occupied
}

// String formats the frames as [7 0 -], where - is an empty slot.
func (f Frames) String() string {
	parts := make([]string, len(f))

	for i, s := range f {
		if s.Occupied {
			parts[i] = strconv.Itoa(int(s.Page))
		} else {
			parts[i] = "-"
		}
	}

	return "[" + strings.Join(parts, " ") + "]"
}

// ParseFrames reads frames printed by String. The brackets are optional.
func ParseFrames(text string) (Frames, error) {
	fields := strings.Fields(strings.Trim(text, "[]"))
	f := make(Frames, len(fields))

	for i, field := range fields {
		if field == "-" {
			continue
		}

		p, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bad frame %q: %w", field, err)
		}

		f[i] = Slot{Page: Page(p), Occupied: true}
	}

	return f, nil
}

// A FrameTable holds a fixed number of slots. The slot index is the identity
// every policy works with, so slots never move.
type FrameTable struct {
	slots []Slot
}

// NewFrameTable creates an empty table with the given number of slots.
func NewFrameTable(capacity int) *FrameTable {
	return &FrameTable{
		slots: make([]Slot, capacity),
	}
}

// Capacity returns the number of slots.
func (t *FrameTable) Capacity() int {
	return len(t.slots)
}

// Slot returns the content of slot i.
func (t *FrameTable) Slot(i int) Slot {
	return t.slots[i]
}

// Lookup finds the slot that holds the page.
func (t *FrameTable) Lookup(page Page) (int, bool) {
	for i, s := range t.slots {
		if s.Occupied && s.Page == page {
			return i, true
		}
	}

	return 0, false
}

// FirstEmpty returns the lowest-indexed empty slot.
func (t *FrameTable) FirstEmpty() (int, bool) {
	for i, s := range t.slots {
		if !s.Occupied {
			return i, true
		}
	}

	return 0, false
}

// Place puts the page into slot i and returns the page it replaced, if any.
func (t *FrameTable) Place(i int, page Page) (evicted Slot) {
	evicted = t.slots[i]
	t.slots[i] = Slot{Page: page, Occupied: true}

	return evicted
}

// Snapshot returns a copy of the current slots.
func (t *FrameTable) Snapshot() Frames {
	return Frames(t.slots).Clone()
}
