package replacement

// A VictimFinder decides which slot should be evicted when the frame table is
// full. It also keeps whatever bookkeeping the policy needs.
type VictimFinder interface {
	// Insert tells the finder that a page has just been placed in the slot.
	Insert(slot int)

	// Visit tells the finder that the page in the slot was hit.
	Visit(slot int)

	// FindVictim picks the slot to evict from a full table while the
	// reference at pos is being served. The slot is dropped from the
	// finder's bookkeeping; the caller inserts it again once refilled.
	FindVictim(table *FrameTable, refs ReferenceSequence, pos int) int

	// Queue returns a copy of the slot order the finder keeps. Policies
	// without an order return nil.
	Queue() []int
}

// slotQueue is an ordered list of slot indices. The head is the next victim.
type slotQueue []int

func (q *slotQueue) push(slot int) {
	*q = append(*q, slot)
}

func (q *slotQueue) pop() int {
	head := (*q)[0]
	*q = (*q)[1:]

	return head
}

// moveToTail moves the slot to the end of the queue.
func (q *slotQueue) moveToTail(slot int) {
	newQueue := make(slotQueue, 0, len(*q))

	for _, s := range *q {
		if s != slot {
			newQueue = append(newQueue, s)
		}
	}

	newQueue = append(newQueue, slot)
	*q = newQueue
}

func (q slotQueue) clone() []int {
	c := make([]int, len(q))
	copy(c, q)

	return c
}

// FIFOVictimFinder evicts the page that has been resident the longest. Hits
// do not change the order.
type FIFOVictimFinder struct {
	order slotQueue
}

// NewFIFOVictimFinder returns a newly constructed FIFO victim finder.
func NewFIFOVictimFinder() *FIFOVictimFinder {
	return &FIFOVictimFinder{}
}

// Insert appends the slot to the insertion order.
func (f *FIFOVictimFinder) Insert(slot int) {
	f.order.push(slot)
}

// Visit does nothing. FIFO ignores recency.
func (f *FIFOVictimFinder) Visit(int) {}

// FindVictim returns the oldest resident slot.
func (f *FIFOVictimFinder) FindVictim(*FrameTable, ReferenceSequence, int) int {
	return f.order.pop()
}

// Queue returns the insertion order, oldest first.
func (f *FIFOVictimFinder) Queue() []int {
	return f.order.clone()
}

// LRUVictimFinder evicts the least recently used page. Both placing a page
// and hitting it count as a use.
type LRUVictimFinder struct {
	recency slotQueue
}

// NewLRUVictimFinder returns a newly constructed LRU victim finder.
func NewLRUVictimFinder() *LRUVictimFinder {
	return &LRUVictimFinder{}
}

// Insert marks the slot as the most recently used.
func (f *LRUVictimFinder) Insert(slot int) {
	f.recency.push(slot)
}

// Visit moves the slot to the end of the recency queue.
func (f *LRUVictimFinder) Visit(slot int) {
	f.recency.moveToTail(slot)
}

// FindVictim returns the least recently used slot.
func (f *LRUVictimFinder) FindVictim(*FrameTable, ReferenceSequence, int) int {
	return f.recency.pop()
}

// Queue returns the recency order, least recently used first.
func (f *LRUVictimFinder) Queue() []int {
	return f.recency.clone()
}

// OPTVictimFinder evicts the page whose next use is furthest in the future.
// It keeps no state and rescans the remaining references on every decision.
type OPTVictimFinder struct{}

// NewOPTVictimFinder returns a newly constructed OPT victim finder.
func NewOPTVictimFinder() *OPTVictimFinder {
	return &OPTVictimFinder{}
}

// Insert does nothing.
func (f *OPTVictimFinder) Insert(int) {}

// Visit does nothing.
func (f *OPTVictimFinder) Visit(int) {}

// FindVictim returns the slot whose page is needed furthest in the future,
// or never again. Ties go to the lowest slot index.
func (f *OPTVictimFinder) FindVictim(
	table *FrameTable,
	refs ReferenceSequence,
	pos int,
) int {
	victim := -1
	furthest := Distance(-1)

	for i := 0; i < table.Capacity(); i++ {
		slot := table.Slot(i)
		if !slot.Occupied {
			continue
		}

		d := refs.nextUse(slot.Page, pos)
		if d > furthest {
			victim = i
			furthest = d
		}
	}

	return victim
}

// Queue returns nil. OPT keeps no order.
func (f *OPTVictimFinder) Queue() []int {
	return nil
}
