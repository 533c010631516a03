package replacement

import (
	"math/rand"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func randomRefs(rng *rand.Rand, length, alphabet int) ReferenceSequence {
	refs := make(ReferenceSequence, length)
	for i := range refs {
		refs[i] = Page(rng.Intn(alphabet))
	}

	return refs
}

func occupiedSlots(f Frames) []int {
	var s []int

	for i, slot := range f {
		if slot.Occupied {
			s = append(s, i)
		}
	}

	return s
}

func faults(capacity int, policy Policy, refs ReferenceSequence) int {
	r, err := NewRun(capacity, policy, refs)
	Expect(err).NotTo(HaveOccurred())

	h, err := r.RunToCompletion()
	Expect(err).NotTo(HaveOccurred())

	return h.Faults()
}

var _ = Describe("Properties", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(20240611))
	})

	DescribeTable("the frame table never overflows and stays full once full",
		func(policy Policy) {
			for trial := 0; trial < 50; trial++ {
				capacity := 1 + rng.Intn(9)
				refs := randomRefs(rng, 1+rng.Intn(30), 10)
				h, err := mustNewRun(capacity, policy, refs...).RunToCompletion()
				Expect(err).NotTo(HaveOccurred())

				full := false
				for _, s := range h {
					n := s.Frames.Occupied()
					Expect(n).To(BeNumerically("<=", capacity))

					if full {
						Expect(n).To(Equal(capacity))
					}
					full = n == capacity
				}
			}
		},
		Entry("FIFO", FIFO),
		Entry("LRU", LRU),
		Entry("OPT", OPT),
	)

	DescribeTable("the queue is a permutation of the occupied slots",
		func(policy Policy) {
			for trial := 0; trial < 50; trial++ {
				r := mustNewRun(1+rng.Intn(6), policy, randomRefs(rng, 25, 8)...)

				for r.State() == RunRunning {
					_, err := r.Step()
					Expect(err).NotTo(HaveOccurred())

					q := r.Queue()
					sort.Ints(q)
					Expect(q).To(Equal(occupiedSlots(r.Frames())))
				}
			}
		},
		Entry("FIFO", FIFO),
		Entry("LRU", LRU),
	)

	It("should let FIFO evict the longest resident slot despite hits", func() {
		for trial := 0; trial < 50; trial++ {
			r := mustNewRun(1+rng.Intn(5), FIFO, randomRefs(rng, 30, 8)...)
			loadedAt := map[int]int{}

			for r.State() == RunRunning {
				res, err := r.Step()
				Expect(err).NotTo(HaveOccurred())

				if res.Outcome == Hit {
					continue
				}

				if res.HasEvicted {
					for slot, at := range loadedAt {
						if slot != res.Slot {
							Expect(at).To(BeNumerically(">", loadedAt[res.Slot]))
						}
					}
				}
				loadedAt[res.Slot] = res.Position
			}
		}
	})

	It("should move a hit slot to the LRU tail and evict the head", func() {
		for trial := 0; trial < 50; trial++ {
			r := mustNewRun(1+rng.Intn(5), LRU, randomRefs(rng, 30, 8)...)

			for r.State() == RunRunning {
				before := r.Queue()
				full := r.Frames().Occupied() == r.Capacity()

				res, err := r.Step()
				Expect(err).NotTo(HaveOccurred())

				after := r.Queue()
				Expect(after[len(after)-1]).To(Equal(res.Slot))

				if res.Outcome == Fault && full {
					Expect(res.Slot).To(Equal(before[0]))
				}
			}
		}
	})

	It("should never fault more with OPT than with FIFO or LRU", func() {
		for trial := 0; trial < 500; trial++ {
			capacity := 1 + rng.Intn(6)
			refs := randomRefs(rng, 1+rng.Intn(40), 1+rng.Intn(10))

			opt := faults(capacity, OPT, refs)

			Expect(opt).To(BeNumerically("<=", faults(capacity, FIFO, refs)))
			Expect(opt).To(BeNumerically("<=", faults(capacity, LRU, refs)))
		}
	})

	DescribeTable("identical runs produce identical histories",
		func(policy Policy) {
			refs := randomRefs(rng, 30, 10)

			a, err := mustNewRun(4, policy, refs...).RunToCompletion()
			Expect(err).NotTo(HaveOccurred())
			b, err := mustNewRun(4, policy, refs...).RunToCompletion()
			Expect(err).NotTo(HaveOccurred())

			Expect(a).To(Equal(b))
		},
		Entry("FIFO", FIFO),
		Entry("LRU", LRU),
		Entry("OPT", OPT),
	)

	DescribeTable("more frames never cause more faults",
		func(policy Policy) {
			for trial := 0; trial < 100; trial++ {
				refs := randomRefs(rng, 30, 8)

				prev := faults(1, policy, refs)
				for capacity := 2; capacity <= 8; capacity++ {
					f := faults(capacity, policy, refs)
					Expect(f).To(BeNumerically("<=", prev))
					prev = f
				}
			}
		},
		Entry("LRU", LRU),
		Entry("OPT", OPT),
	)

	It("should reproduce Belady's anomaly with FIFO", func() {
		refs := ReferenceSequence{1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5}

		Expect(faults(3, FIFO, refs)).To(Equal(9))
		Expect(faults(4, FIFO, refs)).To(Equal(10))

		Expect(faults(4, LRU, refs)).To(BeNumerically("<=", faults(3, LRU, refs)))
		Expect(faults(4, OPT, refs)).To(BeNumerically("<=", faults(3, OPT, refs)))
	})
})
