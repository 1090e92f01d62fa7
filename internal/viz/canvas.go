package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatgrid/internal/palette"
)

// upper half block: foreground paints the top pixel, background the bottom.
const halfBlock = "▀"

// Canvas is a render.Renderer holding one colour per pixel. String packs two
// pixel rows into each text row, so a tile painted with cell size 1 stays
// roughly square.
type Canvas struct {
	Width, Height int
	Background    palette.RGB
	pixels        []palette.RGB
	frames        int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Background: palette.DarkGray}
	c.Resize(w, h)
	return c
}

// Resize reallocates the canvas and clears it.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(w, 0), max(h, 0)
	c.pixels = make([]palette.RGB, c.Width*c.Height)
	c.Clear()
}

// Clear fills the canvas with the background colour.
func (c *Canvas) Clear() {
	for i := range c.pixels {
		c.pixels[i] = c.Background
	}
}

func (c *Canvas) BeginFrame() { c.Clear() }

// DrawRect fills a rectangle, clipped to the canvas.
func (c *Canvas) DrawRect(x, y, w, h int, col palette.RGB) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, c.Width), min(y+h, c.Height)
	for row := y0; row < y1; row++ {
		for px := x0; px < x1; px++ {
			c.pixels[row*c.Width+px] = col
		}
	}
}

func (c *Canvas) EndFrame()     { c.frames++ }
func (c *Canvas) Running() bool { return true }

// Frames is the number of completed frames.
func (c *Canvas) Frames() int { return c.frames }

// At returns the pixel at (x, y), or the background outside the canvas.
func (c *Canvas) At(x, y int) palette.RGB {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return c.Background
	}
	return c.pixels[y*c.Width+x]
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row += 2 {
		for col := 0; col < c.Width; col++ {
			top, bottom := c.At(col, row), c.At(col, row+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Hex())).
				Background(lipgloss.Color(bottom.Hex()))
			b.WriteString(style.Render(halfBlock))
		}
		b.WriteString("\n")
	}
	return b.String()
}
