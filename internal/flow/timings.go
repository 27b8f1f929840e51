package flow

import "time"

// ----------- Flow timing defaults -----------
const (
	DefaultProcessingDelay  = 2500 * time.Millisecond // Processing → Results
	DefaultProgressInterval = 50 * time.Millisecond   // progress tick
	DefaultProgressStep     = 2                       // percent per tick
	DefaultStepInterval     = 800 * time.Millisecond  // phase tick
	DefaultSaveDelay        = 1500 * time.Millisecond // Save → Home
)

// Phases are the labels cycled by the analyzing screen.
var Phases = []string{
	"Detecting food items",
	"Measuring portions",
	"Calculating nutrition",
}

// Timings groups the delays and intervals driving the flow.
type Timings struct {
	ProcessingDelay  time.Duration
	ProgressInterval time.Duration
	ProgressStep     int
	StepInterval     time.Duration
	SaveDelay        time.Duration
}

// DefaultTimings returns the stock flow timings.
func DefaultTimings() Timings {
	return Timings{
		ProcessingDelay:  DefaultProcessingDelay,
		ProgressInterval: DefaultProgressInterval,
		ProgressStep:     DefaultProgressStep,
		StepInterval:     DefaultStepInterval,
		SaveDelay:        DefaultSaveDelay,
	}
}

// withDefaults fills zero fields from DefaultTimings.
func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.ProcessingDelay <= 0 {
		t.ProcessingDelay = d.ProcessingDelay
	}
	if t.ProgressInterval <= 0 {
		t.ProgressInterval = d.ProgressInterval
	}
	if t.ProgressStep <= 0 {
		t.ProgressStep = d.ProgressStep
	}
	if t.StepInterval <= 0 {
		t.StepInterval = d.StepInterval
	}
	if t.SaveDelay <= 0 {
		t.SaveDelay = d.SaveDelay
	}
	return t
}
