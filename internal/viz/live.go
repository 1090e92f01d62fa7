package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatgrid/internal/palette"
	"github.com/san-kum/heatgrid/internal/render"
	"github.com/san-kum/heatgrid/internal/sim"
)

const (
	historyCapacity = 600
	recordCellSize  = 8
	recordingPath   = "heatgrid.gif"
)

type TickMsg time.Time

// Options configures a live Model.
type Options struct {
	Scene    string
	Palette  string
	Scale    float64
	SubSteps int
	FPS      int
}

// Model shows one simulator. Every tick message paints the current field
// and then advances it by SubSteps ticks.
type Model struct {
	sim       *sim.Simulator
	painter   *render.Painter
	canvas    *Canvas
	theme     Theme
	scene     string
	subSteps  int
	fps       int
	running   bool
	showHelp  bool
	totals    []float64
	maxes     []float64
	residuals []float64
	recorder  *render.Image
	lastSaved string
	saveErr   error
	logger    *slog.Logger
}

func NewModel(s *sim.Simulator, opts Options) Model {
	theme := ThemeForPalette(opts.Palette)
	if !palette.Has(opts.Palette) {
		theme = Themes[0]
	}
	p := render.NewPainter(palette.Get(theme.Palette), 1)
	if opts.Scale > 0 {
		p.Scale = opts.Scale
	}
	f := s.Field()
	return Model{
		sim:       s,
		painter:   p,
		canvas:    NewCanvas(f.Width(), f.Height()),
		theme:     theme,
		scene:     opts.Scene,
		subSteps:  max(opts.SubSteps, 1),
		fps:       max(opts.FPS, 1),
		running:   true,
		totals:    make([]float64, 0, historyCapacity),
		maxes:     make([]float64, 0, historyCapacity),
		residuals: make([]float64, 0, historyCapacity),
		logger:    slog.Default(),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.sim.AdjustConductivity(sim.ConductivityStep)
		case "-", "_":
			m.sim.AdjustConductivity(-sim.ConductivityStep)
		case "t":
			m.theme = NextTheme(m.theme)
			m.painter.Colors = palette.Get(m.theme.Palette)
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else {
				m.startRecording()
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.frame()
		return m, m.tick()
	}
	return m, nil
}

// frame paints the field, then advances it unless paused.
func (m *Model) frame() {
	f := m.sim.Field()
	m.painter.Paint(m.canvas, f)
	if m.recorder != nil {
		rec := *m.painter
		rec.CellSize = recordCellSize
		rec.Paint(m.recorder, f)
	}
	if !m.running {
		return
	}

	m.sim.Advance(m.subSteps)
	st := m.sim.Field().Stats()
	m.totals = appendCapped(m.totals, st.Total)
	m.maxes = appendCapped(m.maxes, st.Max)
	m.residuals = appendCapped(m.residuals, m.sim.Stepper().Residual())
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// reset restores the initial field and clears the trend history.
func (m *Model) reset() {
	m.sim.Reset()
	m.totals = m.totals[:0]
	m.maxes = m.maxes[:0]
	m.residuals = m.residuals[:0]
}

func (m *Model) startRecording() {
	f := m.sim.Field()
	m.recorder = render.NewImage(f.Width()*recordCellSize, f.Height()*recordCellSize, true)
	m.lastSaved, m.saveErr = "", nil
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	rec := m.recorder
	m.recorder = nil
	if rec.Frames() == 0 {
		return
	}
	if err := rec.Save(recordingPath, m.painter.Colors); err != nil {
		m.saveErr = err
		m.logger.Warn("saving recording failed", "path", recordingPath, "err", err)
		return
	}
	m.lastSaved = recordingPath
}

// View renders the TUI interface.
func (m Model) View() string {
	f := m.sim.Field()
	st := f.Stats()
	stepper := m.sim.Stepper()

	var s strings.Builder
	s.WriteString(headerStyle(m.theme).Render(strings.ToUpper(m.scene)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.theme, m.running).Render(status))
	if m.recorder != nil {
		s.WriteString("  " + StatusRecording.Render("● REC"))
	}
	s.WriteString("\n\n")

	if len(m.totals) > 1 {
		chart := asciigraph.PlotMany([][]float64{m.totals, m.maxes},
			asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("total / max"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.sim.Tick()))
	row("Size", fmt.Sprintf("%dx%d (%d conductors)", f.Width(), f.Height(), st.Conductors))
	row("Total heat", fmt.Sprintf("%.2f", st.Total))
	row("Range", fmt.Sprintf("%.1f .. %.1f", st.Min, st.Max))
	row("Mean", fmt.Sprintf("%.2f", st.Mean))
	row("Conductivity", fmt.Sprintf("%.2f", stepper.Conductivity))
	row("dt", fmt.Sprintf("%.3f", stepper.Dt))
	gain := fmt.Sprintf("%.3f", stepper.Gain())
	if !stepper.Stable() {
		gain = lipgloss.NewStyle().Foreground(m.theme.Warning).Render(gain + " unstable")
	}
	row("Gain", gain)
	row("Residual", SparklineChart(m.residuals, 24))
	row("Peak", ProgressBar(st.Max/m.painter.Scale, 24, m.painter.Colors))
	row("Theme", fmt.Sprintf("%s (%s)", m.theme.Name, m.theme.Palette))
	if m.lastSaved != "" {
		row("Saved", m.lastSaved)
	}
	if m.saveErr != nil {
		row("Error", m.saveErr.Error())
	}

	s.WriteString(helpStyle.Render("\n" + Separator(30, m.theme) + "\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\n+/-:Conductivity"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset field              ║
║  +/=      - Raise conductivity       ║
║  -/_      - Lower conductivity       ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// RunLive runs a Model full-screen until the user quits.
func RunLive(s *sim.Simulator, opts Options) error {
	_, err := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen()).Run()
	return err
}
