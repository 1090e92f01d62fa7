package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/heatgrid/internal/config"
	"github.com/san-kum/heatgrid/internal/heat"
)

const twoStep = `name: warmup
description: heat one end, then keep going
steps:
  - layout: ["#f0#"]
    ticks: 10
    substeps: 1
  - carry: true
    ticks: 5
    set:
      - {col: 2, row: 0, temperature: 100}
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, twoStep))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "warmup" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if !sc.Steps[1].Carry || len(sc.Steps[1].Set) != 1 || sc.Steps[1].Set[0].Temperature != 100 {
		t.Errorf("unexpected second step %+v", sc.Steps[1])
	}
}

func TestLoadScenarioWithoutSteps(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunScenarioCarry(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, twoStep))
	if err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Result.Ticks != 10 || results[1].Result.Ticks != 5 {
		t.Errorf("unexpected ticks %d, %d", results[0].Result.Ticks, results[1].Result.Ticks)
	}

	// The second step starts from the first one's field with one cell
	// overwritten, and heat is conserved from there.
	first := results[0].Field
	want := first.Temperature(1, 0) + 100
	got := results[1].Result.Initial().Total
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected carried total %v, got %v", want, got)
	}
	if math.Abs(results[1].Result.Final().Total-want) > 1e-9 {
		t.Errorf("heat not conserved in carried step")
	}
}

func TestRunScenarioErrors(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
	}{
		{"carry first", []Step{{Carry: true}}},
		{"unknown scene", []Step{{Scene: "nope"}}},
		{"malformed layout", []Step{{Layout: []string{"#0#", "#"}}}},
		{"edit insulator", []Step{{Layout: []string{"#0#"}, Set: []CellEdit{{Col: 0, Row: 0, Temperature: 1}}}}},
		{"edit out of bounds", []Step{{Layout: []string{"#0#"}, Set: []CellEdit{{Col: 5, Row: 0, Temperature: 1}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Ticks = 4
			if _, err := RunScenario(context.Background(), &Scenario{Steps: tt.steps}, cfg, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunScenarioSaveAs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "step.json")
	cfg := config.DefaultConfig()
	sc := &Scenario{Steps: []Step{{Scene: "two_cell", Ticks: 3, SaveAs: out}}}

	if _, err := RunScenario(context.Background(), sc, cfg, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestMonteCarloStableRunsStayBounded(t *testing.T) {
	f, err := heat.Build([]string{"#0f0#", "#f0f#"})
	if err != nil {
		t.Fatal(err)
	}

	trials, err := RunMonteCarlo(context.Background(), f, heat.NewStepper(1, 0.1), MonteCarloConfig{
		Trials: 8, Perturbation: 5, Ticks: 50, SubSteps: 5, Seed: 42,
	})
	if err != nil {
		t.Fatal(err)
	}
	bounded, unbounded := MonteCarloStats(trials)
	if bounded != 8 || unbounded != 0 {
		t.Errorf("expected all trials bounded, got %d/%d", bounded, unbounded)
	}
	for _, tr := range trials {
		if tr.Drift > 1e-9 {
			t.Errorf("trial %d drifted by %v", tr.ID, tr.Drift)
		}
	}
	if f.Temperature(1, 0) != 0 {
		t.Error("base field was modified")
	}
}

func TestMonteCarloUnstableGain(t *testing.T) {
	f, err := heat.Build([]string{"#f0#"})
	if err != nil {
		t.Fatal(err)
	}

	trials, err := RunMonteCarlo(context.Background(), f, heat.NewStepper(15, 0.1), MonteCarloConfig{
		Trials: 3, Perturbation: 1, Ticks: 10, SubSteps: 1, Seed: 7,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, unbounded := MonteCarloStats(trials); unbounded != 3 {
		t.Errorf("expected every overshooting trial unbounded, got %d", unbounded)
	}
}

func TestMonteCarloRejectsZeroTrials(t *testing.T) {
	f, _ := heat.Build([]string{"0"})
	if _, err := RunMonteCarlo(context.Background(), f, heat.NewStepper(1, 0.1), MonteCarloConfig{Ticks: 1, SubSteps: 1}); err == nil {
		t.Error("expected error")
	}
}
