package player

import (
	"bytes"
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/replacement"
)

var _ = Describe("Player", func() {
	var (
		buf *bytes.Buffer
		p   *Player
	)

	newRun := func(capacity int, policy replacement.Policy,
		refs ...replacement.Page,
	) *replacement.Run {
		run, err := replacement.NewRun(capacity, policy, refs)
		Expect(err).NotTo(HaveOccurred())

		return run
	}

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		p = MakeBuilder().WithWriter(buf).WithDelay(0).Build()
	})

	It("should play a run to completion", func() {
		run := newRun(3, replacement.FIFO, 7, 0, 1, 2, 0, 3, 0, 4)

		h, err := p.Play(context.Background(), run)

		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(HaveLen(8))
		Expect(run.State()).To(Equal(replacement.RunCompleted))

		out := buf.String()
		Expect(out).To(ContainSubstring("Ref String: [7, 0, 1, 2, 0, 3, 0, 4]\n"))
		Expect(out).To(ContainSubstring("Processing 7 (FIFO)\n"))
		Expect(out).To(ContainSubstring("| >7 |  - |  - |"))
		Expect(out).To(ContainSubstring("| >2 |  0 |  1 |  evicted 7"))
		Expect(out).To(ContainSubstring("|  2 | *0 |  1 |"))
		Expect(out).To(ContainSubstring("Simulation complete\n"))
		Expect(out).To(ContainSubstring("8 references, 1 hits, 7 faults"))
		Expect(strings.Count(out, "Processing")).To(Equal(8))
	})

	It("should continue a partly stepped run", func() {
		run := newRun(1, replacement.LRU, 5, 5, 5)
		_, err := run.Step()
		Expect(err).NotTo(HaveOccurred())

		h, err := p.Play(context.Background(), run)

		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(HaveLen(3))
		Expect(strings.Count(buf.String(), "Processing")).To(Equal(2))
	})

	It("should stop when interrupted", func() {
		p = MakeBuilder().WithWriter(buf).WithDelay(time.Hour).Build()
		run := newRun(2, replacement.OPT, 1, 2, 3)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(10*time.Millisecond, cancel)

		h, err := p.Play(ctx, run)

		Expect(err).To(MatchError(context.Canceled))
		Expect(h).To(HaveLen(1))
		Expect(buf.String()).To(ContainSubstring("Simulation Interrupted\n"))
		Expect(buf.String()).NotTo(ContainSubstring("Simulation complete"))
	})

	It("should not step at all with a cancelled context", func() {
		run := newRun(2, replacement.OPT, 1, 2, 3)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		h, err := p.Play(ctx, run)

		Expect(err).To(MatchError(context.Canceled))
		Expect(h).To(BeEmpty())
		Expect(run.Position()).To(Equal(0))
	})

	It("should pace the steps", func() {
		p = MakeBuilder().WithWriter(buf).WithDelay(5 * time.Millisecond).Build()
		run := newRun(1, replacement.FIFO, 1, 2, 3)

		start := time.Now()
		_, err := p.Play(context.Background(), run)

		Expect(err).NotTo(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically(">=", 10*time.Millisecond))
	})

	It("should replay a recorded history", func() {
		run := newRun(2, replacement.OPT, 1, 2, 3, 1, 2)
		h, err := run.RunToCompletion()
		Expect(err).NotTo(HaveOccurred())

		err = p.Replay(context.Background(), run.Policy(), run.References(), h)

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("Processing 3 (OPT)\n"))
		Expect(buf.String()).To(ContainSubstring("5 references, 1 hits, 4 faults"))
	})

	It("should refuse a run that was never started", func() {
		_, err := p.Play(context.Background(), &replacement.Run{})

		Expect(err).To(MatchError(replacement.ErrRunNotStarted))
		Expect(buf.String()).To(BeEmpty())
	})

	It("should refuse a negative delay", func() {
		Expect(func() {
			MakeBuilder().WithDelay(-time.Second).Build()
		}).To(Panic())
	})
})

var _ = Describe("FormatFrames", func() {
	It("should mark a hit slot with a star", func() {
		step := replacement.StepResult{
			Outcome: replacement.Hit,
			Slot:    1,
			Frames: replacement.Frames{
				{Page: 4, Occupied: true},
				{Page: 9, Occupied: true},
				{},
			},
		}

		Expect(FormatFrames(step)).To(Equal("|  4 | *9 |  - |"))
	})
})
