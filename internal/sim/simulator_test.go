package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/palette"
	"github.com/san-kum/heatgrid/internal/render"
)

func twoCell(t *testing.T) *heat.Field {
	t.Helper()
	f, err := heat.Build([]string{"#f0#"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return f
}

func TestSimulatorRun(t *testing.T) {
	s := New(twoCell(t), heat.NewStepper(1, 0.1))

	result, err := s.Run(context.Background(), Config{Ticks: 10, SubSteps: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Ticks != 10 {
		t.Errorf("expected 10 ticks, got %d", result.Ticks)
	}
	if result.Frames != 4 {
		t.Errorf("expected 4 frames, got %d", result.Frames)
	}
	if len(result.Stats) != 5 {
		t.Errorf("expected 5 stat samples, got %d", len(result.Stats))
	}
	if s.Tick() != 10 {
		t.Errorf("expected tick 10, got %d", s.Tick())
	}
	if math.Abs(result.Final().Total-result.Initial().Total) > 1e-9 {
		t.Errorf("total heat drifted from %v to %v", result.Initial().Total, result.Final().Total)
	}
	if result.Final().Max >= result.Initial().Max {
		t.Errorf("hot cell did not cool: %v -> %v", result.Initial().Max, result.Final().Max)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		stepper *heat.Stepper
	}{
		{"zero ticks", Config{Ticks: 0, SubSteps: 1}, heat.NewStepper(1, 0.1)},
		{"negative ticks", Config{Ticks: -1, SubSteps: 1}, heat.NewStepper(1, 0.1)},
		{"zero substeps", Config{Ticks: 10, SubSteps: 0}, heat.NewStepper(1, 0.1)},
		{"zero dt", Config{Ticks: 10, SubSteps: 1}, heat.NewStepper(1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(twoCell(t), tt.stepper)
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorDivergence(t *testing.T) {
	f := twoCell(t)
	s := New(f, heat.NewStepper(1e300, 1e10))

	result, err := s.Run(context.Background(), Config{Ticks: 50, SubSteps: 1, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	if !errors.Is(result.Errors[0], ErrDiverged) {
		t.Errorf("expected ErrDiverged, got %v", result.Errors[0])
	}
	if result.Ticks >= 50 {
		t.Errorf("run did not stop at divergence, ran %d ticks", result.Ticks)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(twoCell(t), heat.NewStepper(1, 0.1))
	if _, err := s.Run(ctx, Config{Ticks: 10, SubSteps: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string                    { return "count" }
func (c *countMetric) Observe(f *heat.Field, tick int) { c.count++ }
func (c *countMetric) Value() float64                  { return float64(c.count) }
func (c *countMetric) Reset()                          { c.count = 0 }

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := New(twoCell(t), heat.NewStepper(1, 0.1))
	metric := &countMetric{}
	s.AddMetric(metric)

	var ticks []int
	s.AddObserver(ObserverFunc(func(f *heat.Field, tick int) {
		ticks = append(ticks, tick)
	}))

	result, err := s.Run(context.Background(), Config{Ticks: 8, SubSteps: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Metrics["count"] != 5 {
		t.Errorf("expected 5 observations, got %v", result.Metrics["count"])
	}
	want := []int{0, 2, 4, 6}
	if len(ticks) != len(want) {
		t.Fatalf("observer ticks %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("observer ticks %v, want %v", ticks, want)
			break
		}
	}
}

func TestSimulatorReset(t *testing.T) {
	s := New(twoCell(t), heat.NewStepper(1, 0.1))
	s.Advance(5)
	if s.Field().Temperature(1, 0) == 240 {
		t.Fatal("advance did not change the field")
	}
	s.Reset()
	if s.Tick() != 0 || s.Field().Temperature(1, 0) != 240 {
		t.Errorf("reset left tick=%d temperature=%v", s.Tick(), s.Field().Temperature(1, 0))
	}
}

func TestAnimatePaintsBeforeStepping(t *testing.T) {
	s := New(twoCell(t), heat.NewStepper(1, 0.1))
	img := render.NewImage(4, 1, true)
	img.StopAfter(3)
	p := render.NewPainter(palette.Get("heat"), 1)

	var seen []float64
	s.AddObserver(ObserverFunc(func(f *heat.Field, tick int) {
		seen = append(seen, f.Temperature(1, 0))
	}))

	frames, err := s.Animate(context.Background(), img, p, 2)
	if err != nil {
		t.Fatalf("animate failed: %v", err)
	}
	if frames != 3 {
		t.Errorf("expected 3 frames, got %d", frames)
	}
	if s.Tick() != 6 {
		t.Errorf("expected 6 ticks, got %d", s.Tick())
	}
	if seen[0] != 240 {
		t.Errorf("first frame should show the initial field, saw %v", seen[0])
	}
}

func TestRunWithCallback(t *testing.T) {
	s := New(twoCell(t), heat.NewStepper(1, 0.1))
	calls := 0
	err := s.RunWithCallback(context.Background(), Config{Ticks: 100, SubSteps: 5}, func(f *heat.Field, tick int) bool {
		calls++
		return tick < 20
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
	if s.Tick() != 20 {
		t.Errorf("expected to stop at tick 20, got %d", s.Tick())
	}
}

func TestSweep(t *testing.T) {
	base := twoCell(t)
	points, err := Sweep(context.Background(), base, 0.1, 1, 30, 3, Config{Ticks: 20, SubSteps: 4, ValidateState: true})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Conductivity != 1 || points[2].Conductivity != 30 {
		t.Errorf("unexpected conductivities %v, %v", points[0].Conductivity, points[2].Conductivity)
	}
	if !points[0].Stable {
		t.Error("conductivity 1 should be stable")
	}
	if points[2].Stable {
		t.Error("conductivity 30 should be flagged unstable")
	}
	if base.Temperature(1, 0) != 240 {
		t.Error("sweep mutated the base field")
	}
}

func TestSweepRejectsZeroSteps(t *testing.T) {
	if _, err := Sweep(context.Background(), twoCell(t), 0.1, 1, 2, 0, DefaultConfig()); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestAdjustConductivity(t *testing.T) {
	s := New(twoCell(t), heat.NewStepper(0.05, 0.1))
	if got := s.AdjustConductivity(ConductivityStep); math.Abs(got-0.15) > 1e-12 {
		t.Errorf("expected 0.15, got %v", got)
	}
	if got := s.AdjustConductivity(-1); got != 0 {
		t.Errorf("expected clamp at 0, got %v", got)
	}
	if s.Stepper().Conductivity != 0 {
		t.Error("stepper not updated")
	}
}
