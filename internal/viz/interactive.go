package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatgrid/internal/config"
	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/metrics"
	"github.com/san-kum/heatgrid/internal/sim"
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f98e09")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fcffa4")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuIdleDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#f98e09")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var paramNames = []string{"conductivity", "dt", "substeps", "scale"}

// App is the scene picker: choose a preset, tune its constants, then watch
// it in a live Model.
type App struct {
	state, cursor int
	scenes        []string
	selected      string
	base          *config.Config
	params        map[string]float64
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	liveModel     Model
}

func NewApp(base *config.Config) *App {
	return &App{
		state:  stateMenu,
		scenes: config.ListScenes(),
		base:   base,
		params: make(map[string]float64),
	}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.scenes[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
		m.loadParams()
	}
	return m, nil
}

func (m App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.params[paramNames[m.paramCursor]] = v
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(m.params[paramNames[m.paramCursor]], 'f', -1, 64)
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	}
	return m, nil
}

func (m *App) nudge(dir float64) {
	name := paramNames[m.paramCursor]
	switch name {
	case "substeps":
		m.params[name] = max(1, m.params[name]+dir)
	case "scale":
		m.params[name] = max(1, m.params[name]+16*dir)
	default:
		m.params[name] = max(0, m.params[name]+0.1*dir)
	}
}

func (m *App) loadParams() {
	cfg := *m.base
	_ = cfg.ApplyScene(m.selected)
	m.params["conductivity"] = cfg.Conductivity
	m.params["dt"] = cfg.Dt
	m.params["substeps"] = float64(cfg.SubSteps)
	m.params["scale"] = cfg.Scale
}

// config returns the base configuration with the selected scene and the
// tuned parameters applied.
func (m *App) config() *config.Config {
	cfg := *m.base
	_ = cfg.ApplyScene(m.selected)
	cfg.Conductivity = m.params["conductivity"]
	cfg.Dt = m.params["dt"]
	cfg.SubSteps = int(m.params["substeps"])
	cfg.Scale = m.params["scale"]
	return &cfg
}

func (m *App) start() tea.Cmd {
	cfg := m.config()
	f, st, err := cfg.Build()
	if err != nil {
		m.err = err
		return nil
	}
	m.liveModel = newLiveFromConfig(f, st, cfg)
	m.state = stateSim
	return m.liveModel.Init()
}

func newLiveFromConfig(f *heat.Field, st *heat.Stepper, cfg *config.Config) Model {
	s := sim.New(f, st)
	for _, metric := range metrics.Defaults() {
		s.AddMetric(metric)
	}
	return NewModel(s, Options{
		Scene:    cfg.Scene,
		Palette:  cfg.Palette,
		Scale:    cfg.Scale,
		SubSteps: cfg.SubSteps,
		FPS:      cfg.FPS,
	})
}

func (m App) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func (m App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("HEATGRID") + "\n    " + menuSub.Render("grid heat diffusion") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.scenes {
		desc := config.GetScene(name).Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-12s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-12s", name)), menuIdleDesc.Render(desc)))
		}
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" select  ") + menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

func (m App) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSub.Render(config.GetScene(m.selected).Description) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range paramNames {
		valStr := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-13s", name)), menuDesc.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-13s", name)), menuIdleDesc.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" select  ") + menuKey.Render("h/l") + menuIdle.Render(" adjust  ") + menuKey.Render("s") + menuIdle.Render(" start  ") + menuKey.Render("esc") + menuIdle.Render(" back") + "\n")
	return b.String()
}

// RunInteractive starts the scene picker full-screen.
func RunInteractive(base *config.Config) error {
	_, err := tea.NewProgram(NewApp(base), tea.WithAltScreen()).Run()
	return err
}
