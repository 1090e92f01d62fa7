package metrics

import (
	"github.com/san-kum/heatgrid/internal/heat"
)

// Stability is the fraction of frames whose conductor temperatures all stay
// within [Low, High].
type Stability struct {
	name       string
	Low, High  float64
	violations int
	samples    int
}

func NewStability(low, high float64) *Stability {
	return &Stability{
		name: "stability",
		Low:  low,
		High: high,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *heat.Field, tick int) {
	s.samples++
	st := f.Stats()
	if st.Conductors == 0 {
		return
	}
	if st.Min < s.Low || st.Max > s.High || !f.Valid() {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
