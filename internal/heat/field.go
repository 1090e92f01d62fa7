package heat

import (
	"fmt"
	"math"
)

// Field is a fixed width x height grid of tiles stored row-major, together
// with the per-cell scratch deltas the Stepper writes during a tick. The
// scratch contents are undefined between ticks.
type Field struct {
	width, height int
	tiles         []Tile
	laplacian     []float64
}

// Stats summarises the Conductor tiles of a field.
type Stats struct {
	Conductors int
	Total      float64
	Min, Max   float64
	Mean       float64
}

// NewField returns a width x height field of insulators.
func NewField(width, height int) *Field {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("heat: negative field size %dx%d", width, height))
	}
	n := width * height
	return &Field{
		width:     width,
		height:    height,
		tiles:     make([]Tile, n),
		laplacian: make([]float64, n),
	}
}

func (f *Field) Width() int  { return f.width }
func (f *Field) Height() int { return f.height }

// InBounds reports whether (col, row) addresses a tile of f.
func (f *Field) InBounds(col, row int) bool {
	return col >= 0 && col < f.width && row >= 0 && row < f.height
}

func (f *Field) index(col, row int) int {
	if !f.InBounds(col, row) {
		panic(fmt.Sprintf("heat: tile (%d,%d) out of bounds for %dx%d field", col, row, f.width, f.height))
	}
	return row*f.width + col
}

// At returns the tile at (col, row). It panics when the position is outside
// [0,width) x [0,height).
func (f *Field) At(col, row int) Tile {
	return f.tiles[f.index(col, row)]
}

func (f *Field) Kind(col, row int) Kind {
	return f.tiles[f.index(col, row)].Kind
}

func (f *Field) Temperature(col, row int) float64 {
	return f.tiles[f.index(col, row)].Temperature
}

// SetTemperature overwrites a conductor's temperature. It reports false and
// leaves the tile untouched for insulators.
func (f *Field) SetTemperature(col, row int, t float64) bool {
	i := f.index(col, row)
	if f.tiles[i].Kind != Conductor {
		return false
	}
	f.tiles[i].Temperature = t
	return true
}

func (f *Field) set(col, row int, t Tile) {
	f.tiles[f.index(col, row)] = t
}

// Clone returns a deep copy of f with its own scratch buffer.
func (f *Field) Clone() *Field {
	c := NewField(f.width, f.height)
	copy(c.tiles, f.tiles)
	return c
}

// Conductors counts the conductor tiles.
func (f *Field) Conductors() int {
	n := 0
	for _, t := range f.tiles {
		if t.Kind == Conductor {
			n++
		}
	}
	return n
}

// Stats computes total, extremes and mean over conductor tiles. A field with
// no conductors yields the zero Stats.
func (f *Field) Stats() Stats {
	var s Stats
	for _, t := range f.tiles {
		if t.Kind != Conductor {
			continue
		}
		if s.Conductors == 0 {
			s.Min, s.Max = t.Temperature, t.Temperature
		}
		s.Conductors++
		s.Total += t.Temperature
		s.Min = math.Min(s.Min, t.Temperature)
		s.Max = math.Max(s.Max, t.Temperature)
	}
	if s.Conductors > 0 {
		s.Mean = s.Total / float64(s.Conductors)
	}
	return s
}

// Valid reports whether every conductor temperature is finite.
func (f *Field) Valid() bool {
	for _, t := range f.tiles {
		if t.Kind == Conductor && (math.IsNaN(t.Temperature) || math.IsInf(t.Temperature, 0)) {
			return false
		}
	}
	return true
}

// Temperatures returns a row-major copy of all tile temperatures.
func (f *Field) Temperatures() []float64 {
	out := make([]float64, len(f.tiles))
	for i, t := range f.tiles {
		out[i] = t.Temperature
	}
	return out
}
