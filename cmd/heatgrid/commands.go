package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatgrid/internal/analysis"
	"github.com/san-kum/heatgrid/internal/automation"
	"github.com/san-kum/heatgrid/internal/config"
	"github.com/san-kum/heatgrid/internal/export"
	"github.com/san-kum/heatgrid/internal/gui"
	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/metrics"
	"github.com/san-kum/heatgrid/internal/palette"
	"github.com/san-kum/heatgrid/internal/render"
	"github.com/san-kum/heatgrid/internal/sim"
	"github.com/san-kum/heatgrid/internal/storage"
	"github.com/san-kum/heatgrid/internal/term"
	"github.com/san-kum/heatgrid/internal/viz"
)

func newSimulator(cfg *config.Config) (*sim.Simulator, error) {
	f, st, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	s := sim.New(f, st)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	return s, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{Ticks: cfg.Ticks, SubSteps: cfg.SubSteps, ValidateState: true}
}

func newPainter(cfg *config.Config) *render.Painter {
	p := render.NewPainter(palette.Get(cfg.Palette), cfg.CellSize)
	p.Scale = cfg.Scale
	return p
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	app := gui.NewApp(s, gui.Options{
		Scene:    cfg.Scene,
		Palette:  cfg.Palette,
		Scale:    cfg.Scale,
		CellSize: cfg.CellSize,
		SubSteps: cfg.SubSteps,
	})
	return app.Run(cmd.Context(), cfg.FPS)
}

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [scene]",
		Short: "run the simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
}

func newRunCmd() *cobra.Command {
	var snapshot string
	var noSave bool
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headlessly and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			s, err := newSimulator(cfg)
			if err != nil {
				return err
			}

			trace := analysis.NewResidualTrace(s.Stepper())
			s.AddObserver(trace)

			start := time.Now()
			result, err := s.Run(cmd.Context(), simConfig(cfg))
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}
			elapsed := time.Since(start)

			printResult(cfg, s, result, elapsed)
			printDecay(trace, tolerance)

			if snapshot != "" {
				if err := export.ExportJSON(snapshot, export.NewSnapshot(cfg.Scene, s.Tick(), s.Field())); err != nil {
					return fmt.Errorf("snapshot: %w", err)
				}
				fmt.Printf("snapshot: %s\n", snapshot)
			}

			if noSave {
				return nil
			}
			st := storage.New(v.GetString("data"))
			if err := st.Init(); err != nil {
				return err
			}
			runID, err := st.Save(storage.Run{Scene: cfg.Scene, Field: s.Field(), Stepper: s.Stepper(), Result: result})
			if err != nil {
				return fmt.Errorf("save run: %w", err)
			}
			fmt.Printf("saved: %s\n", runID)
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "write the final field as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-6, "residual used for the convergence estimate")
	return cmd
}

func printResult(cfg *config.Config, s *sim.Simulator, result *sim.Result, elapsed time.Duration) {
	f := s.Field()
	initial, final := result.Initial(), result.Final()
	fmt.Printf("scene: %s (%dx%d, %d conductors)\n", cfg.Scene, f.Width(), f.Height(), final.Conductors)
	fmt.Printf("ticks: %d in %d frames (%s)\n", result.Ticks, result.Frames, elapsed.Round(time.Microsecond))
	fmt.Printf("gain: %.3f", s.Stepper().Gain())
	if !s.Stepper().Stable() {
		fmt.Print(" (unstable)")
	}
	fmt.Println()
	fmt.Printf("total heat: %.4f -> %.4f\n", initial.Total, final.Total)
	fmt.Printf("range: %.3f .. %.3f (mean %.3f)\n", final.Min, final.Max, final.Mean)
	fmt.Printf("residual: %.6f\n", result.Residual)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %-12s %.6f\n", name, result.Metrics[name])
	}
	for _, err := range result.Errors {
		fmt.Printf("error: %v\n", err)
	}
}

func printDecay(trace *analysis.ResidualTrace, tolerance float64) {
	d, ok := trace.Fit()
	if !ok {
		fmt.Println("decay: not enough frames")
		return
	}
	fmt.Printf("decay: rate %.5f/tick, half-life %.1f ticks, ~%.0f ticks to %g\n",
		d.Rate, d.HalfLife(), d.TicksTo(tolerance), tolerance)
}

func newLiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live [scene]",
		Short: "watch a scene in the terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			s, err := newSimulator(cfg)
			if err != nil {
				return err
			}
			return viz.RunLive(s, viz.Options{
				Scene:    cfg.Scene,
				Palette:  cfg.Palette,
				Scale:    cfg.Scale,
				SubSteps: cfg.SubSteps,
				FPS:      cfg.FPS,
			})
		},
	}
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "pick and tune a scene in the terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}
			return viz.RunInteractive(cfg)
		},
	}
}

func newTermCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "term [scene]",
		Short: "run a scene full-screen with tcell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			s, err := newSimulator(cfg)
			if err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			app := term.NewApp(s, screen, term.Options{
				Scene:    cfg.Scene,
				Palette:  cfg.Palette,
				Scale:    cfg.Scale,
				SubSteps: cfg.SubSteps,
				FPS:      cfg.FPS,
			})
			return app.Run(cmd.Context())
		},
	}
}

func newRenderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "render a scene to png, gif, svg or json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			s, err := newSimulator(cfg)
			if err != nil {
				return err
			}
			p := newPainter(cfg)

			switch ext := strings.ToLower(filepath.Ext(out)); ext {
			case ".gif":
				w, h := p.Size(s.Field())
				img := render.NewImage(w, h, true)
				img.StopAfter((cfg.Ticks + cfg.SubSteps - 1) / cfg.SubSteps)
				frames, err := s.Animate(cmd.Context(), img, p, cfg.SubSteps)
				if err != nil {
					return err
				}
				if err := img.Save(out, p.Colors); err != nil {
					return err
				}
				fmt.Printf("wrote %s (%d frames)\n", out, frames)
				return nil
			case ".png":
				s.Advance(cfg.Ticks)
				w, h := p.Size(s.Field())
				img := render.NewImage(w, h, false)
				p.Paint(img, s.Field())
				if err := img.Save(out, p.Colors); err != nil {
					return err
				}
			case ".svg":
				s.Advance(cfg.Ticks)
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				export.WriteSVG(file, s.Field(), p, fmt.Sprintf("%s at tick %d", cfg.Scene, s.Tick()))
			case ".json":
				s.Advance(cfg.Ticks)
				if err := export.ExportJSON(out, export.NewSnapshot(cfg.Scene, s.Tick(), s.Field())); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported output format %q (want .png, .gif, .svg or .json)", ext)
			}
			fmt.Printf("wrote %s (tick %d)\n", out, s.Tick())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "heatgrid.png", "output file")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var from, to float64
	var steps int
	cmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene over a range of conductivities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			f, _, err := cfg.Build()
			if err != nil {
				return err
			}
			points, err := sim.Sweep(cmd.Context(), f, cfg.Dt, from, to, steps, simConfig(cfg))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "K\tGAIN\tSTABLE\tTOTAL\tMIN\tMAX\tRESIDUAL")
			for _, pt := range points {
				final := pt.Result.Final()
				fmt.Fprintf(w, "%.3f\t%.3f\t%v\t%.3f\t%.3f\t%.3f\t%.6f\n",
					pt.Conductivity,
					pt.Conductivity*cfg.Dt,
					pt.Stable,
					final.Total,
					final.Min,
					final.Max,
					pt.Result.Residual,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0.5, "first conductivity")
	cmd.Flags().Float64Var(&to, "to", 12, "last conductivity")
	cmd.Flags().IntVar(&steps, "steps", 8, "number of conductivities")
	return cmd
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run a scripted sequence of steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			base, err := loadConfig(nil)
			if err != nil {
				return err
			}

			results, err := automation.RunScenario(cmd.Context(), sc, base, slog.Default())
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tSCENE\tTICKS\tTOTAL\tMIN\tMAX\tRESIDUAL")
			for _, r := range results {
				final := r.Result.Final()
				fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.6f\n",
					r.Index+1, r.Scene, r.Result.Ticks, final.Total, final.Min, final.Max, r.Result.Residual)
			}
			if ferr := w.Flush(); ferr != nil && err == nil {
				err = ferr
			}
			return err
		},
	}
}

func newMonteCarloCmd() *cobra.Command {
	var mc automation.MonteCarloConfig
	cmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "run a scene with randomly perturbed temperatures",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			f, st, err := cfg.Build()
			if err != nil {
				return err
			}
			mc.Ticks, mc.SubSteps = cfg.Ticks, cfg.SubSteps

			trials, err := automation.RunMonteCarlo(cmd.Context(), f, st, mc)
			if err != nil {
				return err
			}
			bounded, unbounded := automation.MonteCarloStats(trials)
			maxDrift := 0.0
			for _, t := range trials {
				maxDrift = max(maxDrift, t.Drift)
			}
			fmt.Printf("trials: %d (gain %.3f)\n", len(trials), st.Gain())
			fmt.Printf("bounded: %d, unbounded: %d\n", bounded, unbounded)
			fmt.Printf("max weighted drift: %.3g\n", maxDrift)
			return nil
		},
	}
	cmd.Flags().IntVar(&mc.Trials, "trials", 20, "number of trials")
	cmd.Flags().Float64Var(&mc.Perturbation, "perturb", 8, "maximum temperature noise per conductor")
	cmd.Flags().Int64Var(&mc.Seed, "seed", 0, "random seed (0 for time based)")
	return cmd
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench [scene]",
		Short: "measure ticks per second",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			f, st, err := cfg.Build()
			if err != nil {
				return err
			}

			start := time.Now()
			st.Advance(f, cfg.Ticks)
			elapsed := time.Since(start)

			cells := f.Width() * f.Height()
			fmt.Printf("scene: %s (%d cells)\n", cfg.Scene, cells)
			fmt.Printf("ticks: %d in %s\n", cfg.Ticks, elapsed)
			if elapsed > 0 {
				rate := float64(cfg.Ticks) / elapsed.Seconds()
				fmt.Printf("rate: %.0f ticks/s, %.0f cells/s\n", rate, rate*float64(cells))
			}
			return nil
		},
	}
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "list scene presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tK\tDT\tDESCRIPTION")
			for _, name := range config.ListScenes() {
				sc := config.GetScene(name)
				width := 0
				if len(sc.Layout) > 0 {
					width = len(sc.Layout[0])
				}
				fmt.Fprintf(w, "%s\t%dx%d\t%.2f\t%.3f\t%s\n", name, width, len(sc.Layout), sc.Conductivity, sc.Dt, sc.Description)
			}
			return w.Flush()
		},
	}
}

func newSceneCmd() *cobra.Command {
	var ticks int
	cmd := &cobra.Command{
		Use:   "scene [name]",
		Short: "print a scene layout, optionally after some ticks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			f, st, err := cfg.Build()
			if err != nil {
				return err
			}
			st.Advance(f, ticks)
			if sc := config.GetScene(cfg.Scene); sc != nil && cfg.LayoutFile == "" && len(cfg.Layout) == 0 {
				fmt.Printf("; %s: %s\n", cfg.Scene, sc.Description)
			}
			if ticks > 0 {
				fmt.Printf("; after %d ticks\n", ticks)
			}
			for _, row := range f.Layout() {
				fmt.Println(row)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "after", 0, "ticks to run before printing")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(v.GetString("data"))
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENE\tTIME\tSIZE\tTICKS\tK\tDT")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%.2f\t%.3f\n",
					run.ID,
					run.Scene,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Width, run.Height,
					run.Ticks,
					run.Conductivity,
					run.Dt,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the per-frame stats of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(v.GetString("data"))
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			stats, err := st.LoadStats(args[0])
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("scene: %s\n", meta.Scene)
			fmt.Printf("samples: %d\n\n", len(stats))

			series := []struct {
				caption string
				value   func(heat.Stats) float64
			}{
				{"total heat", func(s heat.Stats) float64 { return s.Total }},
				{"max temperature", func(s heat.Stats) float64 { return s.Max }},
				{"min temperature", func(s heat.Stats) float64 { return s.Min }},
			}
			for _, sr := range series {
				data := make([]float64, len(stats))
				for i, s := range stats {
					data[i] = sr.value(s)
				}
				fmt.Println(asciigraph.Plot(data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(sr.caption),
				))
				fmt.Println()
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [run_id]",
		Short: "print stored run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(v.GetString("data"))
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			return export.EncodeJSON(os.Stdout, meta)
		},
	}
}

func newPalettesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palettes",
		Short: "list colour maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range palette.Names() {
				m := palette.Get(name)
				marker := " "
				if name == palette.DefaultName {
					marker = "*"
				}
				fmt.Printf("%s %-11s %s %s %s\n", marker, name, m.At(0).Hex(), m.At(0.5).Hex(), m.At(1).Hex())
			}
			return nil
		},
	}
}
