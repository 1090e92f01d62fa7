// Package automation runs scripted scenarios and randomized robustness
// trials on top of the simulator.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatgrid/internal/config"
	"github.com/san-kum/heatgrid/internal/export"
	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/sim"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single run in a scenario. Zero values fall back to the base
// config. With Carry set the step continues from the previous step's field
// and Scene and Layout are ignored.
type Step struct {
	Scene        string     `yaml:"scene"`
	Layout       []string   `yaml:"layout"`
	Carry        bool       `yaml:"carry"`
	Conductivity float64    `yaml:"conductivity"`
	Dt           float64    `yaml:"dt"`
	Ticks        int        `yaml:"ticks"`
	SubSteps     int        `yaml:"substeps"`
	Set          []CellEdit `yaml:"set"`
	SaveAs       string     `yaml:"save_as"`
}

// CellEdit overwrites one conductor temperature before a step runs.
type CellEdit struct {
	Col         int     `yaml:"col"`
	Row         int     `yaml:"row"`
	Temperature float64 `yaml:"temperature"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Index  int
	Scene  string
	Result *sim.Result
	Field  *heat.Field
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// RunScenario executes all steps in order. Results of the steps that
// completed are returned alongside any error.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	var prev *heat.Field
	for i, step := range scenario.Steps {
		cfg, err := stepConfig(base, step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		var f *heat.Field
		if step.Carry {
			if prev == nil {
				return results, fmt.Errorf("step %d: carry without a previous step", i+1)
			}
			f = prev.Clone()
		} else {
			rows, err := cfg.Rows()
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			if f, err = heat.Build(rows); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		for _, e := range step.Set {
			if !f.InBounds(e.Col, e.Row) {
				return results, fmt.Errorf("step %d: cell (%d,%d) outside %dx%d field", i+1, e.Col, e.Row, f.Width(), f.Height())
			}
			if !f.SetTemperature(e.Col, e.Row, e.Temperature) {
				return results, fmt.Errorf("step %d: cell (%d,%d) is not a conductor", i+1, e.Col, e.Row)
			}
		}

		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "scene", cfg.Scene, "ticks", cfg.Ticks)

		s := sim.New(f, heat.NewStepper(cfg.Conductivity, cfg.Dt))
		s.SetLogger(logger)
		result, err := s.Run(ctx, sim.Config{Ticks: cfg.Ticks, SubSteps: cfg.SubSteps, ValidateState: true})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		if step.SaveAs != "" {
			if err := export.ExportJSON(step.SaveAs, export.NewSnapshot(cfg.Scene, s.Tick(), s.Field())); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		prev = s.Field()
		results = append(results, StepResult{Index: i, Scene: cfg.Scene, Result: result, Field: prev})
	}

	return results, nil
}

func stepConfig(base *config.Config, step Step) (*config.Config, error) {
	cfg := *base
	if step.Scene != "" && !step.Carry {
		if err := cfg.ApplyScene(step.Scene); err != nil {
			return nil, err
		}
	}
	if len(step.Layout) > 0 && !step.Carry {
		cfg.Layout = step.Layout
		cfg.LayoutFile = ""
	}
	if step.Conductivity > 0 {
		cfg.Conductivity = step.Conductivity
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.Ticks > 0 {
		cfg.Ticks = step.Ticks
	}
	if step.SubSteps > 0 {
		cfg.SubSteps = step.SubSteps
	}
	return &cfg, nil
}

// MonteCarloConfig defines a batch of perturbed runs.
type MonteCarloConfig struct {
	Trials       int
	Perturbation float64
	Ticks        int
	SubSteps     int
	Seed         int64
}

// Trial is the outcome of one perturbed run. Bounded reports whether the
// final temperatures stayed inside the initial range. Drift is the relative
// change of the neighbour-weighted total, which a tick conserves; the plain
// total in Initial and Final may differ on uneven shapes.
type Trial struct {
	ID      int
	Initial heat.Stats
	Final   heat.Stats
	Bounded bool
	Drift   float64
}

// RunMonteCarlo adds uniform noise in [-Perturbation, Perturbation] to every
// conductor of base and runs each trial on its own copy.
func RunMonteCarlo(ctx context.Context, base *heat.Field, stepper *heat.Stepper, cfg MonteCarloConfig) ([]Trial, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	trials := make([]Trial, 0, cfg.Trials)
	for id := 0; id < cfg.Trials; id++ {
		f := base.Clone()
		for row := 0; row < f.Height(); row++ {
			for col := 0; col < f.Width(); col++ {
				if f.Kind(col, row) != heat.Conductor {
					continue
				}
				noise := (rng.Float64() - 0.5) * 2 * cfg.Perturbation
				f.SetTemperature(col, row, f.Temperature(col, row)+noise)
			}
		}

		weighted := f.WeightedTotal()
		st := *stepper
		s := sim.New(f, &st)
		result, err := s.Run(ctx, sim.Config{Ticks: cfg.Ticks, SubSteps: cfg.SubSteps, ValidateState: true})
		if err != nil {
			return trials, fmt.Errorf("trial %d: %w", id, err)
		}

		initial, final := result.Initial(), result.Final()
		tol := 1e-9 * math.Max(1, initial.Max-initial.Min)
		trials = append(trials, Trial{
			ID:      id,
			Initial: initial,
			Final:   final,
			Bounded: len(result.Errors) == 0 && final.Min >= initial.Min-tol && final.Max <= initial.Max+tol,
			Drift:   math.Abs(s.Field().WeightedTotal()-weighted) / math.Max(1, math.Abs(weighted)),
		})
	}

	return trials, nil
}

// MonteCarloStats counts bounded and unbounded trials.
func MonteCarloStats(trials []Trial) (bounded int, unbounded int) {
	for _, t := range trials {
		if t.Bounded {
			bounded++
		} else {
			unbounded++
		}
	}
	return
}
