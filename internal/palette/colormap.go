package palette

import (
	"math"
)

// ColorMap maps [0,1] onto a piecewise linear ramp through its stops.
type ColorMap struct {
	Name  string
	stops []RGB
}

// NewColorMap panics on an empty stop list.
func NewColorMap(name string, stops ...RGB) *ColorMap {
	if len(stops) == 0 {
		panic("palette: colour map needs at least one stop")
	}
	s := make([]RGB, len(stops))
	copy(s, stops)
	return &ColorMap{Name: name, stops: s}
}

func (m *ColorMap) Stops() []RGB {
	s := make([]RGB, len(m.stops))
	copy(s, m.stops)
	return s
}

// At returns the first stop for x <= 0, the last for x >= 1, and otherwise
// blends the two stops surrounding x*(len-1). A single stop is returned for
// every x.
func (m *ColorMap) At(x float64) RGB {
	if x <= 0 || math.IsNaN(x) {
		return m.stops[0]
	}
	if x >= 1 {
		return m.stops[len(m.stops)-1]
	}

	if len(m.stops) == 1 {
		return m.stops[0]
	}
	fi := x * float64(len(m.stops)-1)
	i := min(int(math.Floor(fi)), len(m.stops)-2)
	return Lerp(m.stops[i], m.stops[i+1], fi-float64(i))
}

// Gradient is a stepped colour map: no blending, each stop owns an equal
// slice of [0,1].
type Gradient struct {
	Name  string
	stops []RGB
}

func NewGradient(name string, stops ...RGB) *Gradient {
	if len(stops) == 0 {
		panic("palette: gradient needs at least one stop")
	}
	s := make([]RGB, len(stops))
	copy(s, stops)
	return &Gradient{Name: name, stops: s}
}

func (g *Gradient) At(x float64) RGB {
	if x <= 0 || math.IsNaN(x) {
		return g.stops[0]
	}
	i := int(x * float64(len(g.stops)))
	if i >= len(g.stops) {
		i = len(g.stops) - 1
	}
	return g.stops[i]
}
