package analysis

import (
	"math"

	"github.com/san-kum/heatgrid/internal/heat"
)

// Decay is a fitted geometric decay of the residual, r(n) = A*exp(-Rate*n).
type Decay struct {
	Rate      float64
	Intercept float64 // ln A
	Samples   int
}

// HalfLife is the number of ticks over which the residual halves.
func (d Decay) HalfLife() float64 {
	if d.Rate <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / d.Rate
}

// At evaluates the fitted residual at tick n.
func (d Decay) At(n float64) float64 {
	return math.Exp(d.Intercept - d.Rate*n)
}

// TicksTo returns the first tick at which the fitted residual drops to tol,
// or +Inf when the fit does not decay.
func (d Decay) TicksTo(tol float64) float64 {
	if d.Rate <= 0 || tol <= 0 {
		return math.Inf(1)
	}
	return math.Max(0, math.Ceil((d.Intercept-math.Log(tol))/d.Rate))
}

// FitDecay fits ln(residual) against tick by least squares. Non-positive
// and non-finite residuals are skipped; at least two usable samples at
// distinct ticks are needed.
func FitDecay(ticks []int, residuals []float64) (Decay, bool) {
	n := min(len(ticks), len(residuals))
	var sx, sy, sxx, sxy float64
	count := 0
	for i := 0; i < n; i++ {
		r := residuals[i]
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		x, y := float64(ticks[i]), math.Log(r)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
		count++
	}
	if count < 2 {
		return Decay{}, false
	}

	c := float64(count)
	den := c*sxx - sx*sx
	if den == 0 {
		return Decay{}, false
	}
	slope := (c*sxy - sx*sy) / den
	return Decay{
		Rate:      -slope,
		Intercept: (sy - slope*sx) / c,
		Samples:   count,
	}, true
}

// ResidualTrace is a sim.Observer recording the stepper residual once per
// frame. The residual of the first frame is 0 because no tick has run yet.
type ResidualTrace struct {
	stepper   *heat.Stepper
	Ticks     []int
	Residuals []float64
}

func NewResidualTrace(stepper *heat.Stepper) *ResidualTrace {
	return &ResidualTrace{stepper: stepper}
}

func (t *ResidualTrace) OnFrame(f *heat.Field, tick int) {
	if tick == 0 {
		return
	}
	t.Ticks = append(t.Ticks, tick)
	t.Residuals = append(t.Residuals, t.stepper.Residual())
}

// Fit is FitDecay over the recorded trace.
func (t *ResidualTrace) Fit() (Decay, bool) {
	return FitDecay(t.Ticks, t.Residuals)
}
