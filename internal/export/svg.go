// Package export writes field snapshots to vector and data formats.
package export

import (
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/palette"
	"github.com/san-kum/heatgrid/internal/render"
)

// SVG is a single-frame render.Renderer that emits an SVG document. Each
// DrawRect becomes one <rect>.
type SVG struct {
	canvas *svg.SVG
	width  int
	height int
	title  string
	done   bool
}

func NewSVG(w io.Writer, width, height int) *SVG {
	return &SVG{canvas: svg.New(w), width: width, height: height}
}

// SetTitle sets the document <title> written by the next BeginFrame.
func (s *SVG) SetTitle(title string) { s.title = title }

func (s *SVG) BeginFrame() {
	s.canvas.Start(s.width, s.height)
	if s.title != "" {
		s.canvas.Title(s.title)
	}
	s.canvas.Gid("field")
}

func (s *SVG) DrawRect(x, y, w, h int, c palette.RGB) {
	s.canvas.Rect(x, y, w, h, s.canvas.RGB(int(c.R), int(c.G), int(c.B)))
}

func (s *SVG) EndFrame() {
	s.canvas.Gend()
	s.canvas.End()
	s.done = true
}

// Running is false once a document has been written.
func (s *SVG) Running() bool { return !s.done }

// WriteSVG paints f with p as one SVG document.
func WriteSVG(w io.Writer, f *heat.Field, p *render.Painter, title string) {
	width, height := p.Size(f)
	doc := NewSVG(w, width, height)
	doc.SetTitle(title)
	p.Paint(doc, f)
}
