// Package gui shows a heat field in a raylib window.
package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/heatgrid/internal/palette"
)

// Window is a render.Renderer backed by a raylib window. Only one window can
// be open per process.
type Window struct {
	background rl.Color
	closed     bool
}

// OpenWindow creates the window and sets the frame rate cap. Escape does not
// close it; callers decide when to stop.
func OpenWindow(width, height int, title string, fps int) *Window {
	rl.InitWindow(int32(width), int32(height), title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
	return &Window{background: toColor(palette.DarkGray)}
}

func (w *Window) BeginFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(w.background)
}

func (w *Window) DrawRect(x, y, width, height int, c palette.RGB) {
	rl.DrawRectangle(int32(x), int32(y), int32(width), int32(height), toColor(c))
}

func (w *Window) EndFrame() {
	rl.EndDrawing()
}

func (w *Window) Running() bool {
	return !w.closed && !rl.WindowShouldClose()
}

// Stop makes Running report false without closing the window.
func (w *Window) Stop() { w.closed = true }

func (w *Window) Close() {
	w.closed = true
	rl.CloseWindow()
}

func toColor(c palette.RGB) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, 255)
}
