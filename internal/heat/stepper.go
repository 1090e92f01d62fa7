package heat

import (
	"fmt"
	"math"
)

const (
	DefaultConductivity = 1.0
	DefaultDt           = 0.1

	// notApplicable is written to the scratch buffer for non-conductor cells.
	notApplicable = -1.0
)

// von Neumann neighbourhood: up, down, left, right.
var neighbours = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Stepper advances a field by explicit Euler ticks of
//
//	T += conductivity * (mean(valid neighbours) - T) * dt
//
// where a valid neighbour is an in-bounds conductor. All deltas of a tick are
// computed from the pre-tick state before any temperature is written.
type Stepper struct {
	Conductivity float64
	Dt           float64

	residual float64
}

func NewStepper(conductivity, dt float64) *Stepper {
	return &Stepper{Conductivity: conductivity, Dt: dt}
}

// Validate rejects constants that cannot produce a finite integration.
func (s *Stepper) Validate() error {
	if math.IsNaN(s.Dt) || math.IsInf(s.Dt, 0) || s.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidParameter, s.Dt)
	}
	if math.IsNaN(s.Conductivity) || math.IsInf(s.Conductivity, 0) || s.Conductivity < 0 {
		return fmt.Errorf("%w: conductivity must be non-negative, got %v", ErrInvalidParameter, s.Conductivity)
	}
	return nil
}

// Gain is conductivity*dt, the fraction of the neighbour difference applied per tick.
func (s *Stepper) Gain() float64 { return s.Conductivity * s.Dt }

// Stable reports whether Gain() <= 1. Above that the mean-neighbour update
// overshoots and temperatures may leave their initial range; Step still runs.
func (s *Stepper) Stable() bool { return s.Gain() <= 1 }

// Residual is the largest |delta| computed by the most recent Step.
func (s *Stepper) Residual() float64 { return s.residual }

// Step performs one tick over the whole field.
func (s *Stepper) Step(f *Field) {
	s.residual = computeLaplacian(f, false)
	s.integrate(f)
}

// Advance runs n ticks.
func (s *Stepper) Advance(f *Field, n int) {
	for i := 0; i < n; i++ {
		s.Step(f)
	}
}

// computeLaplacian fills the scratch buffer from the current temperatures,
// visiting tiles back to front when reverse is set, and returns the largest
// conductor |delta|.
func computeLaplacian(f *Field, reverse bool) float64 {
	residual := 0.0
	n := len(f.tiles)
	for k := 0; k < n; k++ {
		i := k
		if reverse {
			i = n - 1 - k
		}
		d := f.laplacianAt(i%f.width, i/f.width)
		f.laplacian[i] = d
		if f.tiles[i].Kind == Conductor {
			residual = math.Max(residual, math.Abs(d))
		}
	}
	return residual
}

func (s *Stepper) integrate(f *Field) {
	for i := range f.tiles {
		if f.tiles[i].Kind != Conductor {
			continue
		}
		f.tiles[i].Temperature += s.Conductivity * f.laplacian[i] * s.Dt
	}
}

// WeightedTotal is the sum over conductors of temperature times the number of
// conductor neighbours. Every tick leaves it unchanged, whatever the gain.
// The plain total is only kept when all conductors have the same number of
// conductor neighbours.
func (f *Field) WeightedTotal() float64 {
	total := 0.0
	for i, t := range f.tiles {
		if t.Kind != Conductor {
			continue
		}
		count, _ := f.conductorNeighbours(i%f.width, i/f.width)
		total += float64(count) * t.Temperature
	}
	return total
}

// conductorNeighbours counts the in-bounds conductor neighbours of a tile and
// sums their temperatures.
func (f *Field) conductorNeighbours(col, row int) (count int, sum float64) {
	for _, d := range neighbours {
		c, r := col+d[0], row+d[1]
		if !f.InBounds(c, r) {
			continue
		}
		t := f.tiles[r*f.width+c]
		if t.Kind != Conductor {
			continue
		}
		count++
		sum += t.Temperature
	}
	return count, sum
}

// laplacianAt is the mean of the valid neighbours minus the tile's own
// temperature, 0 for an isolated conductor and notApplicable otherwise.
func (f *Field) laplacianAt(col, row int) float64 {
	self := f.tiles[row*f.width+col]
	if self.Kind != Conductor {
		return notApplicable
	}
	count, sum := f.conductorNeighbours(col, row)
	if count == 0 {
		return 0
	}
	return sum/float64(count) - self.Temperature
}
