// Package term renders heat fields on a full-screen terminal with tcell.
package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/heatgrid/internal/palette"
)

// ColumnsPerTile keeps tiles roughly square in a terminal font.
const ColumnsPerTile = 2

// Screen is a render.Renderer drawing onto a tcell screen. Paint it with a
// cell size of 1: one rect unit is one tile, drawn ColumnsPerTile columns
// wide. The bottom row is reserved for the status line.
type Screen struct {
	screen tcell.Screen
	status string
	quit   bool
}

func NewScreen(s tcell.Screen) *Screen {
	return &Screen{screen: s}
}

// SetStatus sets the text drawn on the bottom row at the next EndFrame.
func (s *Screen) SetStatus(status string) { s.status = status }

// Stop makes Running report false.
func (s *Screen) Stop() { s.quit = true }

func (s *Screen) Running() bool { return !s.quit }

func (s *Screen) BeginFrame() {
	s.screen.Clear()
}

func (s *Screen) DrawRect(x, y, w, h int, c palette.RGB) {
	sw, sh := s.screen.Size()
	style := tcell.StyleDefault.Background(toColor(c))
	for row := y; row < y+h && row < sh-1; row++ {
		for col := x * ColumnsPerTile; col < (x+w)*ColumnsPerTile && col < sw; col++ {
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (s *Screen) EndFrame() {
	sw, sh := s.screen.Size()
	if sh > 0 {
		putText(s.screen, 0, sh-1, runewidth.Truncate(s.status, sw, "…"),
			tcell.StyleDefault.Foreground(tcell.ColorSilver))
	}
	s.screen.Show()
}

func toColor(c palette.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// putText writes s from (x, y), advancing by each rune's display width.
func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	for _, r := range s {
		if x >= sw {
			break
		}
		scr.SetContent(x, y, r, nil, st)
		x += runewidth.RuneWidth(r)
	}
}
