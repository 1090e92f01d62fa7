package gui

import (
	"context"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/palette"
	"github.com/san-kum/heatgrid/internal/render"
	"github.com/san-kum/heatgrid/internal/sim"
)

const hudHeight = 28

var (
	ColText    = rl.NewColor(205, 214, 244, 255)
	ColTextDim = rl.NewColor(108, 112, 134, 255)
	ColWarn    = rl.NewColor(243, 139, 168, 255)
	ColHUD     = rl.NewColor(17, 17, 27, 255)
)

type Options struct {
	Scene    string
	Palette  string
	Scale    float64
	CellSize int
	SubSteps int
	FPS      int
}

// App paints the field and then advances it once per window frame. Mouse
// buttons repaint conductors: left sets the full scale temperature, right
// sets zero.
type App struct {
	sim      *sim.Simulator
	painter  *render.Painter
	window   *Window
	scene    string
	subSteps int
	paused   bool
	palettes []string
	current  int
	logger   *slog.Logger
}

func NewApp(s *sim.Simulator, opts Options) *App {
	names := palette.Names()
	current := 0
	for i, n := range names {
		if n == opts.Palette {
			current = i
		}
	}
	p := render.NewPainter(palette.Get(names[current]), max(opts.CellSize, 1))
	if opts.Scale > 0 {
		p.Scale = opts.Scale
	}
	return &App{
		sim:      s,
		painter:  p,
		scene:    opts.Scene,
		subSteps: max(opts.SubSteps, 1),
		palettes: names,
		current:  current,
		logger:   slog.Default(),
	}
}

// Run opens the window and blocks until it is closed or ctx is done.
func (a *App) Run(ctx context.Context, fps int) error {
	w, h := a.painter.Size(a.sim.Field())
	a.window = OpenWindow(max(w, 320), h+hudHeight, "heatgrid: "+a.scene, max(fps, 1))
	defer a.window.Close()

	a.logger.Debug("window opened", "scene", a.scene, "width", w, "height", h)
	for a.window.Running() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		a.update()
		a.draw()
		if !a.paused {
			a.sim.Advance(a.subSteps)
		}
	}
	return nil
}

func (a *App) update() {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.window.Stop()
	case rl.IsKeyPressed(rl.KeySpace):
		a.paused = !a.paused
	case rl.IsKeyPressed(rl.KeyR):
		a.sim.Reset()
	case rl.IsKeyPressed(rl.KeyUp):
		a.sim.AdjustConductivity(sim.ConductivityStep)
	case rl.IsKeyPressed(rl.KeyDown):
		a.sim.AdjustConductivity(-sim.ConductivityStep)
	case rl.IsKeyPressed(rl.KeyT):
		a.current = (a.current + 1) % len(a.palettes)
		a.painter.Colors = palette.Get(a.palettes[a.current])
	}

	switch {
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		a.paint(a.painter.Scale)
	case rl.IsMouseButtonDown(rl.MouseRightButton):
		a.paint(0)
	}
}

// paint sets the temperature of the conductor under the mouse.
func (a *App) paint(t float64) {
	col, row, ok := cellAt(a.sim.Field(), a.painter.CellSize, int(rl.GetMouseX()), int(rl.GetMouseY()))
	if !ok {
		return
	}
	a.sim.Field().SetTemperature(col, row, t)
}

func cellAt(f *heat.Field, cellSize, x, y int) (col, row int, ok bool) {
	if x < 0 || y < 0 || cellSize <= 0 {
		return 0, 0, false
	}
	col, row = x/cellSize, y/cellSize
	return col, row, f.InBounds(col, row)
}

func (a *App) draw() {
	f := a.sim.Field()
	_, h := a.painter.Size(f)

	a.window.BeginFrame()
	a.painter.Draw(a.window, f)
	a.drawHUD(int32(h))
	a.window.EndFrame()
}

func (a *App) drawHUD(y int32) {
	width := int32(rl.GetScreenWidth())
	rl.DrawRectangle(0, y, width, hudHeight, ColHUD)

	st := a.sim.Field().Stats()
	stepper := a.sim.Stepper()
	text := fmt.Sprintf("tick %d  k=%.2f  total %.1f  max %.1f  %s",
		a.sim.Tick(), stepper.Conductivity, st.Total, st.Max, a.palettes[a.current])
	rl.DrawText(text, 8, y+7, 14, ColText)

	status, col := "RUNNING", ColTextDim
	if a.paused {
		status = "PAUSED"
	}
	if !stepper.Stable() {
		status, col = status+" UNSTABLE", ColWarn
	}
	rl.DrawText(status, width-rl.MeasureText(status, 14)-8, y+7, 14, col)
}
