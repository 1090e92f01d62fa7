package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/heatgrid/internal/heat"
)

// ErrDiverged is recorded when a tick leaves a non-finite temperature behind.
var ErrDiverged = errors.New("sim: field diverged (NaN or Inf temperature)")

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(f *heat.Field, tick int)
	Value() float64
	Reset()
}

// Observer is notified once per frame, before the frame's ticks run.
type Observer interface {
	OnFrame(f *heat.Field, tick int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *heat.Field, tick int)

func (fn ObserverFunc) OnFrame(f *heat.Field, tick int) { fn(f, tick) }

// Config controls a headless run. Ticks is the total number of stepper
// ticks; SubSteps ticks are taken between two observed frames.
type Config struct {
	Ticks         int
	SubSteps      int
	ValidateState bool
}

const (
	DefaultTicks    = 1000
	DefaultSubSteps = 4
)

func DefaultConfig() Config {
	return Config{
		Ticks:         DefaultTicks,
		SubSteps:      DefaultSubSteps,
		ValidateState: true,
	}
}

// Result summarises a run. Stats holds one sample per frame plus the final
// state.
type Result struct {
	Ticks    int
	Frames   int
	Stats    []heat.Stats
	Residual float64
	Metrics  map[string]float64
	Errors   []error
}

// Initial and Final return the first and last sampled stats.
func (r *Result) Initial() heat.Stats {
	if len(r.Stats) == 0 {
		return heat.Stats{}
	}
	return r.Stats[0]
}

func (r *Result) Final() heat.Stats {
	if len(r.Stats) == 0 {
		return heat.Stats{}
	}
	return r.Stats[len(r.Stats)-1]
}

// TickError wraps a failure with the tick it happened on.
type TickError struct {
	Tick    int
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *TickError) Unwrap() error { return e.Wrapped }
