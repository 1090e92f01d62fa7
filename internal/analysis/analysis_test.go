package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/sim"
)

func TestFitDecayExact(t *testing.T) {
	ticks := []int{1, 2, 3, 4, 5}
	residuals := make([]float64, len(ticks))
	for i, n := range ticks {
		residuals[i] = 100 * math.Exp(-0.5*float64(n))
	}

	d, ok := FitDecay(ticks, residuals)
	if !ok {
		t.Fatal("expected a fit")
	}
	if math.Abs(d.Rate-0.5) > 1e-9 {
		t.Errorf("expected rate 0.5, got %v", d.Rate)
	}
	if math.Abs(d.At(0)-100) > 1e-6 {
		t.Errorf("expected A=100, got %v", d.At(0))
	}
	if math.Abs(d.HalfLife()-math.Ln2/0.5) > 1e-9 {
		t.Errorf("unexpected half-life %v", d.HalfLife())
	}
	want := math.Ceil(math.Log(100/1e-6) / 0.5)
	if got := d.TicksTo(1e-6); math.Abs(got-want) > 1 {
		t.Errorf("expected about %v ticks, got %v", want, got)
	}
}

func TestFitDecayRejectsDegenerateInput(t *testing.T) {
	tests := []struct {
		name      string
		ticks     []int
		residuals []float64
	}{
		{"empty", nil, nil},
		{"single", []int{1}, []float64{1}},
		{"zeros", []int{1, 2, 3}, []float64{0, 0, 0}},
		{"same tick", []int{2, 2}, []float64{1, 0.5}},
		{"nan", []int{1, 2}, []float64{math.NaN(), 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := FitDecay(tt.ticks, tt.residuals); ok {
				t.Error("expected no fit")
			}
		})
	}
}

func TestNonDecayingFit(t *testing.T) {
	d, ok := FitDecay([]int{1, 2, 3}, []float64{1, 2, 4})
	if !ok {
		t.Fatal("expected a fit")
	}
	if !math.IsInf(d.TicksTo(1e-3), 1) || !math.IsInf(d.HalfLife(), 1) {
		t.Error("growing residual should never reach tolerance")
	}
}

func TestResidualTraceOnTwoCell(t *testing.T) {
	f, err := heat.Build([]string{"#f0#"})
	if err != nil {
		t.Fatal(err)
	}
	st := heat.NewStepper(1, 0.1)
	s := sim.New(f, st)
	trace := NewResidualTrace(st)
	s.AddObserver(trace)

	if _, err := s.Run(context.Background(), sim.Config{Ticks: 40, SubSteps: 1}); err != nil {
		t.Fatal(err)
	}
	if len(trace.Residuals) != 39 {
		t.Fatalf("expected 39 samples, got %d", len(trace.Residuals))
	}

	// Two cells: the difference shrinks by (1-2*gain) each tick.
	d, ok := trace.Fit()
	if !ok {
		t.Fatal("expected a fit")
	}
	want := -math.Log(1 - 2*st.Gain())
	if math.Abs(d.Rate-want) > 1e-6 {
		t.Errorf("expected rate %v, got %v", want, d.Rate)
	}
}
