package term

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/heatgrid/internal/palette"
	"github.com/san-kum/heatgrid/internal/render"
	"github.com/san-kum/heatgrid/internal/sim"
)

// App runs a simulator interactively on a terminal: each frame is painted
// before its ticks run.
type App struct {
	sim      *sim.Simulator
	painter  *render.Painter
	screen   *Screen
	scene    string
	subSteps int
	fps      int
	paused   bool
	palettes []string
	current  int
	logger   *slog.Logger
}

type Options struct {
	Scene    string
	Palette  string
	Scale    float64
	SubSteps int
	FPS      int
}

func NewApp(s *sim.Simulator, screen tcell.Screen, opts Options) *App {
	names := palette.Names()
	current := 0
	for i, n := range names {
		if n == opts.Palette {
			current = i
		}
	}
	p := render.NewPainter(palette.Get(names[current]), 1)
	if opts.Scale > 0 {
		p.Scale = opts.Scale
	}
	return &App{
		sim:      s,
		painter:  p,
		screen:   NewScreen(screen),
		scene:    opts.Scene,
		subSteps: max(opts.SubSteps, 1),
		fps:      max(opts.FPS, 1),
		palettes: names,
		current:  current,
		logger:   slog.Default(),
	}
}

// Run blocks until the user quits, the screen closes or ctx is done.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := a.screen.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()

	for a.screen.Running() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.handle(ev)
		case <-ticker.C:
			a.frame()
		}
	}
	return nil
}

func (a *App) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			a.screen.Stop()
			return
		case tcell.KeyRune:
		default:
			return
		}
		switch ev.Rune() {
		case 'q':
			a.screen.Stop()
		case ' ':
			a.paused = !a.paused
		case 'r':
			a.sim.Reset()
		case '+', '=':
			a.sim.AdjustConductivity(sim.ConductivityStep)
		case '-':
			a.sim.AdjustConductivity(-sim.ConductivityStep)
		case 't':
			a.current = (a.current + 1) % len(a.palettes)
			a.painter.Colors = palette.Get(a.palettes[a.current])
			a.logger.Debug("palette changed", "palette", a.palettes[a.current])
		}
	}
}

// frame paints the current field, then advances unless paused.
func (a *App) frame() {
	a.screen.SetStatus(a.status())
	a.painter.Paint(a.screen, a.sim.Field())
	if !a.paused {
		a.sim.Advance(a.subSteps)
	}
}

func (a *App) status() string {
	st := a.sim.Field().Stats()
	state := "running"
	if a.paused {
		state = "paused"
	}
	// Narrow terminals truncate from the right, so state and tick lead.
	return fmt.Sprintf("%s | tick %d | %s | k=%.2f | total %.1f max %.1f | %s | space r +/- t q",
		state, a.sim.Tick(), a.scene, a.sim.Stepper().Conductivity, st.Total, st.Max,
		a.palettes[a.current])
}
