package flow

import (
	"context"
	"sync"
	"time"

	"foodlog/internal/models"
)

const maxPercent = 100

// Animation drives the cosmetic progress of the analyzing screen. It has no
// relation to the completion timer owned by the Controller.
type Animation struct {
	mu       sync.Mutex
	phases   []string
	progress models.ProcessingProgress

	cancel context.CancelFunc
	done   chan struct{}
}

// StartAnimation launches the progress and step tickers. The returned
// Animation must be released with Stop.
func StartAnimation(parent context.Context, t Timings, phases []string) *Animation {
	t = t.withDefaults()
	if len(phases) == 0 {
		phases = Phases
	}
	ctx, cancel := context.WithCancel(parent)
	a := &Animation{
		phases: phases,
		progress: models.ProcessingProgress{
			PhaseCount: len(phases),
			Phase:      phases[0],
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go a.run(ctx, t)
	return a
}

// run ticks until both counters are saturated or ctx is canceled.
func (a *Animation) run(ctx context.Context, t Timings) {
	defer close(a.done)

	progress := time.NewTicker(t.ProgressInterval)
	step := time.NewTicker(t.StepInterval)
	defer progress.Stop()
	defer step.Stop()

	progressC, stepC := progress.C, step.C
	if len(a.phases) < 2 {
		step.Stop()
		stepC = nil
	}

	for progressC != nil || stepC != nil {
		select {
		case <-ctx.Done():
			return
		case <-progressC:
			if !a.advancePercent(t.ProgressStep) {
				progress.Stop()
				progressC = nil
			}
		case <-stepC:
			if !a.advanceStep() {
				step.Stop()
				stepC = nil
			}
		}
	}
}

// advancePercent adds delta, clamped at 100. Returns false once saturated.
func (a *Animation) advancePercent(delta int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.progress.Percent >= maxPercent {
		return false
	}
	a.progress.Percent = minInt(a.progress.Percent+delta, maxPercent)
	return a.progress.Percent < maxPercent
}

// advanceStep moves to the next phase. Returns false on the last phase.
func (a *Animation) advanceStep() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	last := len(a.phases) - 1
	if a.progress.StepIndex >= last {
		return false
	}
	a.progress.StepIndex++
	a.progress.Phase = a.phases[a.progress.StepIndex]
	return a.progress.StepIndex < last
}

// Progress returns the current snapshot.
func (a *Animation) Progress() models.ProcessingProgress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progress
}

// Stop cancels both tickers and waits for the goroutine to exit. Safe to
// call more than once.
func (a *Animation) Stop() {
	a.cancel()
	<-a.done
}

// Done is closed once the animation goroutine has exited.
func (a *Animation) Done() <-chan struct{} {
	return a.done
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
