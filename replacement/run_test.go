package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/hooking"
	gomock "go.uber.org/mock/gomock"
)

func mustNewRun(capacity int, policy Policy, refs ...Page) *Run {
	r, err := NewRun(capacity, policy, refs)
	Expect(err).NotTo(HaveOccurred())

	return r
}

func mustComplete(capacity int, policy Policy, refs ...Page) History {
	h, err := mustNewRun(capacity, policy, refs...).RunToCompletion()
	Expect(err).NotTo(HaveOccurred())

	return h
}

var _ = Describe("NewRun", func() {
	It("should reject a capacity below one", func() {
		_, err := NewRun(0, FIFO, ReferenceSequence{1})
		Expect(err).To(MatchError(ErrInvalidConfiguration))

		_, err = NewRun(-3, LRU, ReferenceSequence{1})
		Expect(err).To(MatchError(ErrInvalidConfiguration))
	})

	It("should reject an empty reference sequence", func() {
		_, err := NewRun(3, OPT, nil)
		Expect(err).To(MatchError(ErrInvalidConfiguration))
	})

	It("should reject an unknown policy", func() {
		_, err := NewRun(3, Policy(42), ReferenceSequence{1})
		Expect(err).To(MatchError(ErrInvalidConfiguration))
	})

	It("should not bound the capacity from above", func() {
		r := mustNewRun(64, LRU, 1, 2)

		Expect(r.Capacity()).To(Equal(64))
	})

	It("should start running with an empty table", func() {
		r := mustNewRun(3, FIFO, 1, 2)

		Expect(r.State()).To(Equal(RunRunning))
		Expect(r.Position()).To(Equal(0))
		Expect(r.Frames()).To(Equal(slots(-1, -1, -1)))
		Expect(r.History()).To(BeEmpty())
		Expect(r.Name()).NotTo(BeEmpty())
	})

	It("should copy the references", func() {
		refs := ReferenceSequence{1, 2, 3}
		r, err := NewRun(1, FIFO, refs)
		Expect(err).NotTo(HaveOccurred())

		refs[0] = 9

		Expect(r.References()).To(Equal(ReferenceSequence{1, 2, 3}))
	})
})

var _ = Describe("Run", func() {
	It("should fail to step a run that was never started", func() {
		r := &Run{}

		_, err := r.Step()

		Expect(err).To(MatchError(ErrRunNotStarted))
		Expect(r.State()).To(Equal(RunIdle))
	})

	It("should fail to run a run that was never started to completion", func() {
		r := &Run{}

		_, err := r.RunToCompletion()

		Expect(err).To(MatchError(ErrRunNotStarted))
	})

	It("should complete after the last reference", func() {
		r := mustNewRun(2, LRU, 1, 2)

		_, err := r.Step()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.State()).To(Equal(RunRunning))

		_, err = r.Step()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.State()).To(Equal(RunCompleted))

		_, err = r.Step()
		Expect(err).To(MatchError(ErrRunCompleted))
		Expect(r.History()).To(HaveLen(2))
	})

	It("should finish a partly stepped run", func() {
		r := mustNewRun(2, FIFO, 1, 2, 3)
		first, err := r.Step()
		Expect(err).NotTo(HaveOccurred())

		h, err := r.RunToCompletion()

		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(HaveLen(3))
		Expect(h[0]).To(Equal(first))
	})

	It("should refuse to run a completed run again", func() {
		r := mustNewRun(1, OPT, 1)
		_, err := r.RunToCompletion()
		Expect(err).NotTo(HaveOccurred())

		_, err = r.RunToCompletion()

		Expect(err).To(MatchError(ErrRunCompleted))
	})

	It("should keep independent runs apart", func() {
		a := mustNewRun(1, FIFO, 1, 2)
		b := mustNewRun(1, FIFO, 1, 2)

		_, err := a.Step()
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Position()).To(Equal(1))
		Expect(b.Position()).To(Equal(0))
		Expect(b.Frames()).To(Equal(slots(-1)))
	})

	It("should not let callers change the history", func() {
		r := mustNewRun(1, FIFO, 1, 1)
		h, err := r.RunToCompletion()
		Expect(err).NotTo(HaveOccurred())

		h[0].Page = 99
		h[0].Frames[0].Page = 99

		Expect(r.History()[0].Page).To(Equal(Page(1)))
		Expect(r.History()[0].Frames).To(Equal(slots(1)))
	})

	It("should count hits and faults", func() {
		r := mustNewRun(1, LRU, 5, 5, 5)
		_, err := r.RunToCompletion()
		Expect(err).NotTo(HaveOccurred())

		Expect(r.Stats()).To(Equal(Stats{References: 3, Hits: 2, Faults: 1}))
		Expect(r.Stats().HitRatio()).To(BeNumerically("~", 2.0/3.0))
	})

	Context("with hooks", func() {
		var (
			mockCtrl *gomock.Controller
			hook     *MockHook
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			hook = NewMockHook(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should invoke hooks after each step and on completion", func() {
			r := mustNewRun(1, FIFO, 3, 3)
			r.AcceptHook(hook)

			gomock.InOrder(
				hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
					Expect(ctx.Pos).To(Equal(HookPosStep))
					Expect(ctx.Domain).To(BeIdenticalTo(r))
					Expect(ctx.Item.(StepResult).Outcome).To(Equal(Fault))
				}),
				hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
					Expect(ctx.Pos).To(Equal(HookPosStep))
					Expect(ctx.Item.(StepResult).Outcome).To(Equal(Hit))
				}),
				hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
					Expect(ctx.Pos).To(Equal(HookPosCompleted))
					Expect(ctx.Item).To(Equal(Stats{References: 2, Hits: 1, Faults: 1}))
				}),
			)

			_, err := r.RunToCompletion()

			Expect(err).NotTo(HaveOccurred())
		})

		It("should only invoke hooks at the positions they listen to", func() {
			r := mustNewRun(2, LRU, 1, 2, 1)
			r.AcceptHook(hook, HookPosCompleted)

			hook.EXPECT().Func(gomock.Any()).Times(1)

			_, err := r.RunToCompletion()

			Expect(err).NotTo(HaveOccurred())
		})
	})
})

var _ = Describe("Traces", func() {
	refs := []Page{7, 0, 1, 2, 0, 3, 0, 4}

	It("should replay FIFO on 7 0 1 2 0 3 0 4 with 3 frames", func() {
		h := mustComplete(3, FIFO, refs...)

		Expect(h.Outcomes()).To(Equal([]Outcome{
			Fault, Fault, Fault, Fault, Hit, Fault, Fault, Fault,
		}))
		Expect(h.Faults()).To(Equal(7))

		Expect(h[3].Slot).To(Equal(0))
		Expect(h[3].HasEvicted).To(BeTrue())
		Expect(h[3].Evicted).To(Equal(Page(7)))
		Expect(h[4].Slot).To(Equal(1))
		Expect(h[5].Evicted).To(Equal(Page(0)))
		Expect(h[6].Evicted).To(Equal(Page(1)))
		Expect(h[7].Evicted).To(Equal(Page(2)))

		Expect(h[0].Frames).To(Equal(slots(7, -1, -1)))
		Expect(h[3].Frames).To(Equal(slots(2, 0, 1)))
		Expect(h[5].Frames).To(Equal(slots(2, 3, 1)))
		Expect(h[6].Frames).To(Equal(slots(2, 3, 0)))
		Expect(h[7].Frames).To(Equal(slots(4, 3, 0)))
	})

	It("should replay LRU on 7 0 1 2 0 3 0 4 with 3 frames", func() {
		h := mustComplete(3, LRU, refs...)

		Expect(h.Outcomes()).To(Equal([]Outcome{
			Fault, Fault, Fault, Fault, Hit, Fault, Hit, Fault,
		}))
		Expect(h[5].Evicted).To(Equal(Page(1)))
		Expect(h[7].Evicted).To(Equal(Page(2)))
		Expect(h[7].Frames).To(Equal(slots(4, 0, 3)))
	})

	It("should replay OPT on 7 0 1 2 0 3 0 4 with 3 frames", func() {
		h := mustComplete(3, OPT, refs...)

		Expect(h.Outcomes()).To(Equal([]Outcome{
			Fault, Fault, Fault, Fault, Hit, Fault, Hit, Fault,
		}))
		Expect(h[3].Frames).To(Equal(slots(2, 0, 1)))
		Expect(h[5].Frames).To(Equal(slots(3, 0, 1)))
		Expect(h[7].Frames).To(Equal(slots(4, 0, 1)))
	})

	DescribeTable("a single frame referenced three times",
		func(policy Policy) {
			h := mustComplete(1, policy, 5, 5, 5)

			Expect(h.Outcomes()).To(Equal([]Outcome{Fault, Hit, Hit}))
			Expect(h.Faults()).To(Equal(1))
			Expect(h[2].Frames).To(Equal(slots(5)))
		},
		Entry("FIFO", FIFO),
		Entry("LRU", LRU),
		Entry("OPT", OPT),
	)

	It("should fault less with OPT than with FIFO on 1 2 3 1 2", func() {
		fifo := mustComplete(2, FIFO, 1, 2, 3, 1, 2)
		opt := mustComplete(2, OPT, 1, 2, 3, 1, 2)

		Expect(fifo.Faults()).To(Equal(5))
		Expect(opt.Faults()).To(Equal(4))
		Expect(opt.Faults()).To(BeNumerically("<=", fifo.Faults()))
		Expect(opt[4].Frames).To(Equal(slots(2, 3)))
	})

	It("should fill the lowest empty slot first", func() {
		h := mustComplete(3, LRU, 4, 5)

		Expect(h[0].Slot).To(Equal(0))
		Expect(h[1].Slot).To(Equal(1))
		Expect(h[1].HasEvicted).To(BeFalse())
	})
})
