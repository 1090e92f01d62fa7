// Package render draws heat fields through a minimal frame-based renderer.
package render

import (
	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/palette"
)

// DefaultScale is the temperature mapped to the top of the colour map.
const DefaultScale = 255.0

// Renderer is the drawing surface a frame is painted onto.
type Renderer interface {
	BeginFrame()
	DrawRect(x, y, w, h int, c palette.RGB)
	EndFrame()
	// Running reports whether the surface still wants frames.
	Running() bool
}

// ColorMap turns a normalised temperature into a colour.
type ColorMap interface {
	At(t float64) palette.RGB
}

// Painter draws every tile of a field as a CellSize square. It only reads
// the field.
type Painter struct {
	Colors    ColorMap
	CellSize  int
	Insulator palette.RGB
	Scale     float64
}

func NewPainter(colors ColorMap, cellSize int) *Painter {
	return &Painter{
		Colors:    colors,
		CellSize:  cellSize,
		Insulator: palette.DarkGray,
		Scale:     DefaultScale,
	}
}

// ColorOf returns the colour a tile is drawn with.
func (p *Painter) ColorOf(t heat.Tile) palette.RGB {
	if t.Kind != heat.Conductor {
		return p.Insulator
	}
	scale := p.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	return p.Colors.At(t.Temperature / scale)
}

// Paint draws one complete frame.
func (p *Painter) Paint(r Renderer, f *heat.Field) {
	r.BeginFrame()
	p.Draw(r, f)
	r.EndFrame()
}

// Draw issues one DrawRect per tile without frame boundaries, for surfaces
// that compose the field with other content.
func (p *Painter) Draw(r Renderer, f *heat.Field) {
	cs := p.CellSize
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			r.DrawRect(col*cs, row*cs, cs, cs, p.ColorOf(f.At(col, row)))
		}
	}
}

// Size is the pixel size of a painted field.
func (p *Painter) Size(f *heat.Field) (w, h int) {
	return f.Width() * p.CellSize, f.Height() * p.CellSize
}
