package analysis

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/sarchlab/pagesim/replacement"
)

// A Memo remembers the statistics of finished jobs, so that sweeps and
// comparisons over the same references do not replay them. Entries may be
// dropped at any time.
type Memo struct {
	cache *ristretto.Cache[string, replacement.Stats]
}

// NewMemo creates a memo that keeps about maxEntries results.
func NewMemo(maxEntries int64) (*Memo, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, replacement.Stats]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Memo{cache: cache}, nil
}

// Lookup returns the remembered statistics of a job.
func (m *Memo) Lookup(j Job) (replacement.Stats, bool) {
	return m.cache.Get(j.key())
}

// Store remembers the statistics of a job.
func (m *Memo) Store(j Job, s replacement.Stats) {
	m.cache.Set(j.key(), s, 1)
	m.cache.Wait()
}

// Close releases the memo.
func (m *Memo) Close() {
	m.cache.Close()
}
