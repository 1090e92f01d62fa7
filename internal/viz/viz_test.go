package viz

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/heatgrid/internal/config"
	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/palette"
	"github.com/san-kum/heatgrid/internal/sim"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	f, err := heat.Build([]string{"####", "#f0#", "####"})
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(sim.New(f, heat.NewStepper(1, 0.1)), Options{Scene: "two_cell", Palette: "heat", SubSteps: 3, FPS: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestCanvasDrawRectClips(t *testing.T) {
	c := NewCanvas(3, 3)
	c.BeginFrame()
	c.DrawRect(-1, -1, 3, 3, palette.Red)
	c.DrawRect(2, 2, 5, 5, palette.Blue)
	c.EndFrame()

	if c.At(0, 0) != palette.Red || c.At(1, 1) != palette.Red {
		t.Error("expected clipped red rect in top-left")
	}
	if c.At(2, 0) != palette.DarkGray {
		t.Error("expected background outside rects")
	}
	if c.At(2, 2) != palette.Blue {
		t.Error("expected blue bottom-right pixel")
	}
	if c.At(5, 5) != c.Background {
		t.Error("out of range reads should return background")
	}
	if c.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", c.Frames())
	}
}

func TestCanvasStringPacksTwoRows(t *testing.T) {
	c := NewCanvas(4, 5)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 text rows for 5 pixel rows, got %d", len(lines))
	}
	for i, line := range lines {
		if n := strings.Count(line, halfBlock); n != 4 {
			t.Errorf("row %d: expected 4 half blocks, got %d", i, n)
		}
	}
}

func TestModelTickPaintsThenSteps(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, TickMsg{})

	if m.sim.Tick() != 3 {
		t.Errorf("expected 3 ticks, got %d", m.sim.Tick())
	}
	if got, want := m.canvas.At(1, 1), m.painter.ColorOf(heat.Tile{Kind: heat.Conductor, Temperature: 240}); got != want {
		t.Errorf("canvas should hold the pre-step field: got %v want %v", got, want)
	}
	if len(m.totals) != 1 || len(m.residuals) != 1 {
		t.Errorf("expected one history sample, got %d/%d", len(m.totals), len(m.residuals))
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyMsg(" "))
	if m.running {
		t.Fatal("space should pause")
	}
	m = update(t, m, TickMsg{})
	if m.sim.Tick() != 0 {
		t.Errorf("paused model stepped to tick %d", m.sim.Tick())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected PAUSED in view")
	}

	m = update(t, m, keyMsg("+"))
	if c := m.sim.Stepper().Conductivity; c < 1.09 || c > 1.11 {
		t.Errorf("expected conductivity 1.1, got %v", c)
	}
	m = update(t, m, keyMsg("-"))
	m = update(t, m, keyMsg("-"))
	if c := m.sim.Stepper().Conductivity; c < 0.89 || c > 0.91 {
		t.Errorf("expected conductivity 0.9, got %v", c)
	}

	theme := m.theme
	m = update(t, m, keyMsg("t"))
	if m.theme.Name == theme.Name {
		t.Error("t should cycle the theme")
	}

	m = update(t, m, keyMsg(" "))
	m = update(t, m, TickMsg{})
	m = update(t, m, keyMsg("r"))
	if m.sim.Tick() != 0 || len(m.totals) != 0 {
		t.Errorf("reset should clear tick and history, got tick %d", m.sim.Tick())
	}

	m = update(t, m, keyMsg("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}

func TestModelRecording(t *testing.T) {
	t.Chdir(t.TempDir())
	m := newTestModel(t)

	m = update(t, m, keyMsg("g"))
	if m.recorder == nil {
		t.Fatal("g should start recording")
	}
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	if m.recorder.Frames() != 2 {
		t.Errorf("expected 2 recorded frames, got %d", m.recorder.Frames())
	}

	m = update(t, m, keyMsg("g"))
	if m.recorder != nil {
		t.Error("g should stop recording")
	}
	if m.saveErr != nil {
		t.Fatalf("save failed: %v", m.saveErr)
	}
	if _, err := os.Stat(recordingPath); err != nil {
		t.Errorf("expected %s to exist: %v", recordingPath, err)
	}
}

func TestAppFlow(t *testing.T) {
	var m tea.Model = NewApp(config.DefaultConfig())

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app := m.(App)
	if app.state != stateConfig {
		t.Fatalf("expected config state, got %d", app.state)
	}
	if app.selected != config.ListScenes()[1] {
		t.Errorf("expected %s selected, got %s", config.ListScenes()[1], app.selected)
	}
	sc := config.GetScene(app.selected)
	if app.params["conductivity"] != sc.Conductivity {
		t.Errorf("expected scene conductivity %v, got %v", sc.Conductivity, app.params["conductivity"])
	}

	m, _ = m.Update(keyMsg("l"))
	app = m.(App)
	if app.params["conductivity"] <= sc.Conductivity {
		t.Error("l should raise the selected parameter")
	}

	m, cmd := m.Update(keyMsg("s"))
	app = m.(App)
	if app.state != stateSim {
		t.Fatalf("expected sim state, got %d (err %v)", app.state, app.err)
	}
	if cmd == nil {
		t.Error("expected tick command from live model")
	}
	if !strings.Contains(app.View(), strings.ToUpper(app.selected)) {
		t.Error("live view should show the scene name")
	}
}

func TestAppRejectsInvalidParams(t *testing.T) {
	var m tea.Model = NewApp(config.DefaultConfig())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app := m.(App)
	app.params["dt"] = 0
	m, _ = app.Update(keyMsg("s"))
	app = m.(App)
	if app.state != stateConfig || app.err == nil {
		t.Error("expected to stay in config with an error")
	}
}

func TestThemes(t *testing.T) {
	for _, th := range Themes {
		if !palette.Has(th.Palette) {
			t.Errorf("theme %s uses unknown palette %s", th.Name, th.Palette)
		}
	}
	if ThemeForPalette("viridis").Name != "ocean" {
		t.Error("expected ocean theme for viridis")
	}
	if NextTheme(Themes[len(Themes)-1]).Name != Themes[0].Name {
		t.Error("NextTheme should wrap")
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("GetTheme should fall back to the first theme")
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 3); got != "───" {
		t.Errorf("expected flat line, got %q", got)
	}
	got := SparklineChart([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 8)
	if n := len([]rune(got)); n != 8 {
		t.Errorf("expected 8 runes, got %d", n)
	}
	if []rune(got)[7] != '█' {
		t.Errorf("expected last value at full height, got %q", got)
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", palette.Get("heat")) != "" {
		t.Error("expected empty output for empty text")
	}
	if !strings.Contains(GradientText("heat", palette.Get("heat")), "h") {
		t.Error("expected text to survive styling")
	}
}
