package flow

import (
	"context"
	"testing"
	"time"
)

func TestAnimation_CountersSaturate(t *testing.T) {
	tm := Timings{ProgressInterval: time.Millisecond, ProgressStep: 7, StepInterval: 2 * time.Millisecond}
	a := StartAnimation(context.Background(), tm, Phases)
	defer a.Stop()

	lastPercent, lastStep := 0, 0
	deadline := time.After(2 * time.Second)
	for done := false; !done; {
		select {
		case <-a.Done():
			done = true
		case <-deadline:
			t.Fatalf("animation did not finish")
		default:
		}
		p := a.Progress()
		if p.Percent < lastPercent || p.Percent > 100 {
			t.Fatalf("percent went from %d to %d", lastPercent, p.Percent)
		}
		if p.StepIndex < lastStep || p.StepIndex > len(Phases)-1 {
			t.Fatalf("step went from %d to %d", lastStep, p.StepIndex)
		}
		lastPercent, lastStep = p.Percent, p.StepIndex
		time.Sleep(100 * time.Microsecond)
	}

	p := a.Progress()
	if p.Percent != 100 {
		t.Fatalf("final percent = %d, want 100", p.Percent)
	}
	if p.StepIndex != len(Phases)-1 || p.Phase != "Calculating nutrition" {
		t.Fatalf("final step = %d (%q)", p.StepIndex, p.Phase)
	}
	if p.PhaseCount != 3 {
		t.Fatalf("phase count = %d", p.PhaseCount)
	}
}

func TestAnimation_StopBeforeFirstTick(t *testing.T) {
	a := StartAnimation(context.Background(), Timings{ProgressInterval: time.Hour, StepInterval: time.Hour}, nil)
	a.Stop()

	select {
	case <-a.Done():
	default:
		t.Fatalf("Done not closed after Stop")
	}
	if p := a.Progress(); p.Percent != 0 || p.StepIndex != 0 || p.Phase != Phases[0] {
		t.Fatalf("unexpected progress: %+v", p)
	}
	a.Stop() // second call must not block
}

func TestAnimation_NoChangeAfterStop(t *testing.T) {
	a := StartAnimation(context.Background(), Timings{ProgressInterval: time.Millisecond, ProgressStep: 1, StepInterval: 5 * time.Millisecond}, Phases)
	time.Sleep(10 * time.Millisecond)
	a.Stop()

	frozen := a.Progress()
	time.Sleep(30 * time.Millisecond)
	if got := a.Progress(); got != frozen {
		t.Fatalf("progress changed after Stop: %+v -> %+v", frozen, got)
	}
}

func TestAnimation_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := StartAnimation(ctx, Timings{ProgressInterval: time.Hour, StepInterval: time.Hour}, Phases)
	cancel()
	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatalf("animation ignored parent cancellation")
	}
}

func TestAnimation_SinglePhase(t *testing.T) {
	a := StartAnimation(context.Background(), Timings{ProgressInterval: time.Millisecond, ProgressStep: 50, StepInterval: time.Millisecond}, []string{"Only"})
	defer a.Stop()

	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatalf("animation did not finish")
	}
	if p := a.Progress(); p.Percent != 100 || p.StepIndex != 0 {
		t.Fatalf("unexpected progress: %+v", p)
	}
}
