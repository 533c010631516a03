// Package player prints runs to a terminal one step at a time, pausing
// between steps so that a reader can follow along.
package player

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sarchlab/pagesim/replacement"
)

// A Player shows runs step by step. Hit slots are marked with * and the slot
// that received a page on a fault is marked with >.
type Player struct {
	w     io.Writer
	delay time.Duration
}

type stepSource interface {
	done() bool
	next() (replacement.StepResult, error)
}

type runSource struct {
	run *replacement.Run
}

func (s runSource) done() bool {
	return s.run.State() != replacement.RunRunning
}

func (s runSource) next() (replacement.StepResult, error) {
	return s.run.Step()
}

type historySource struct {
	history replacement.History
	i       int
}

func (s *historySource) done() bool {
	return s.i >= len(s.history)
}

func (s *historySource) next() (replacement.StepResult, error) {
	s.i++
	return s.history[s.i-1], nil
}

// Play steps the run until it completes, printing every step. If the context
// is cancelled first, Play stops and returns the steps taken so far along
// with the context error.
func (p *Player) Play(
	ctx context.Context,
	run *replacement.Run,
) (replacement.History, error) {
	if run.State() == replacement.RunIdle {
		return nil, replacement.ErrRunNotStarted
	}

	p.header(run.Policy(), run.References())

	if err := p.loop(ctx, run.Policy(), runSource{run: run}); err != nil {
		return run.History(), err
	}

	p.footer(run.Stats())

	return run.History(), nil
}

// Replay prints a history that was recorded earlier, with the same pacing
// as Play.
func (p *Player) Replay(
	ctx context.Context,
	policy replacement.Policy,
	refs replacement.ReferenceSequence,
	history replacement.History,
) error {
	p.header(policy, refs)

	if err := p.loop(ctx, policy, &historySource{history: history}); err != nil {
		return err
	}

	p.footer(replacement.Stats{
		References: len(history),
		Hits:       history.Hits(),
		Faults:     history.Faults(),
	})

	return nil
}

func (p *Player) loop(
	ctx context.Context,
	policy replacement.Policy,
	src stepSource,
) error {
	var tick <-chan time.Time

	if p.delay > 0 {
		ticker := time.NewTicker(p.delay)
		defer ticker.Stop()

		tick = ticker.C
	}

	for first := true; !src.done(); first = false {
		if err := p.wait(ctx, tick, first); err != nil {
			fmt.Fprintln(p.w, "Simulation Interrupted")
			return err
		}

		step, err := src.next()
		if err != nil {
			return err
		}

		p.show(policy, step)
	}

	return nil
}

func (p *Player) wait(ctx context.Context, tick <-chan time.Time, first bool) error {
	if first || tick == nil {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tick:
		return nil
	}
}

func (p *Player) header(
	policy replacement.Policy,
	refs replacement.ReferenceSequence,
) {
	pages := make([]string, len(refs))
	for i, page := range refs {
		pages[i] = strconv.Itoa(int(page))
	}

	fmt.Fprintf(p.w, "Policy: %s\n", policy)
	fmt.Fprintf(p.w, "Ref String: [%s]\n", strings.Join(pages, ", "))
}

func (p *Player) show(policy replacement.Policy, step replacement.StepResult) {
	fmt.Fprintf(p.w, "Processing %d (%s)\n", step.Page, policy)

	line := fmt.Sprintf("%3d  %-5s %s", step.Position+1, step.Outcome,
		FormatFrames(step))
	if step.HasEvicted {
		line += fmt.Sprintf("  evicted %d", step.Evicted)
	}

	fmt.Fprintln(p.w, line)
}

func (p *Player) footer(stats replacement.Stats) {
	fmt.Fprintln(p.w, "Simulation complete")
	fmt.Fprintf(p.w, "%d references, %d hits, %d faults, hit ratio %.2f%%\n",
		stats.References, stats.Hits, stats.Faults, 100*stats.HitRatio())
}

// FormatFrames prints the frame table after a step, as in
// "| >2 |  0 |  1 |".
func FormatFrames(step replacement.StepResult) string {
	cells := make([]string, len(step.Frames))

	for i, slot := range step.Frames {
		marker := " "
		if i == step.Slot {
			marker = ">"
			if step.IsHit() {
				marker = "*"
			}
		}

		content := "-"
		if slot.Occupied {
			content = strconv.Itoa(int(slot.Page))
		}

		cells[i] = fmt.Sprintf("%s%s", marker, content)
	}

	return "| " + strings.Join(cells, " | ") + " |"
}
