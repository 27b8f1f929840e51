package flow

import (
	"sync"
	"testing"
	"time"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func fastTimings() Timings {
	return Timings{
		ProcessingDelay:  40 * time.Millisecond,
		ProgressInterval: time.Millisecond,
		ProgressStep:     2,
		StepInterval:     3 * time.Millisecond,
		SaveDelay:        20 * time.Millisecond,
	}
}

// recorder collects observer events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Observe(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func newTestController(t *testing.T, timings Timings) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := NewController("s-1", Options{Timings: timings, Observer: rec})
	t.Cleanup(c.Close)
	return c, rec
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// capturePreview puts c on Capture with a published PNG preview.
func capturePreview(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.StartCapture(); err != nil {
		t.Fatalf("StartCapture: %v", err)
	}
	ch, err := c.ProcessFile(&ImageFile{Name: "meal.png", ContentType: "image/png", Data: pngHeader})
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	select {
	case _, ok := <-ch:
		if !ok {
			t.Fatalf("preview was not published")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for preview")
	}
}
