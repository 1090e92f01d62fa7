package metrics

import (
	"github.com/san-kum/heatgrid/internal/heat"
)

// Spread reports the max-min conductor temperature of the latest frame,
// the visible contrast left in the scene.
type Spread struct {
	name   string
	latest float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(f *heat.Field, tick int) {
	st := f.Stats()
	s.latest = st.Max - st.Min
}

func (s *Spread) Value() float64 { return s.latest }

func (s *Spread) Reset() { s.latest = 0 }

// Peak is the hottest conductor temperature seen during the run.
type Peak struct {
	name string
	max  float64
	seen bool
}

func NewPeak() *Peak {
	return &Peak{name: "peak"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(f *heat.Field, tick int) {
	st := f.Stats()
	if st.Conductors == 0 {
		return
	}
	if !p.seen || st.Max > p.max {
		p.max = st.Max
		p.seen = true
	}
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.seen = false
}
