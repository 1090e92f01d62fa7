package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/heatgrid/internal/config"
	"github.com/san-kum/heatgrid/internal/telemetry"
)

var (
	v        = viper.New()
	shutdown func(context.Context) error
)

// main registers the commands, opens the raylib window when no subcommand
// is given and exits with status 1 on error.
func main() {
	// .env is optional; variables may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "heatgrid [scene]",
		Short: "grid heat diffusion simulator",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			var err error
			shutdown, err = telemetry.Setup(cmd.Context())
			if err != nil {
				slog.Warn("telemetry setup failed, continuing without tracing", "err", err)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(context.Background())
		},
		RunE: runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data", ".heatgrid", "data directory for stored runs")
	pf.String("config", "", "config file path (yaml)")
	pf.String("layout", "", "scene file with one layout row per line")
	pf.String("palette", config.DefaultConfig().Palette, "colour map")
	pf.Float64("scale", config.DefaultScale, "temperature mapped to the top of the colour map")
	pf.Int("cell-size", config.DefaultCellSize, "pixels per tile")
	pf.Int("fps", config.DefaultFPS, "frame rate")
	pf.Float64("conductivity", config.DefaultConductivity, "conductivity")
	pf.Float64("dt", config.DefaultDt, "timestep")
	pf.Int("substeps", config.DefaultSubSteps, "ticks per frame")
	pf.Int("ticks", config.DefaultTicks, "total ticks for headless runs")
	pf.BoolP("verbose", "v", false, "debug logging")

	v.SetEnvPrefix("heatgrid")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(pf)

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newTUICmd(),
		newTermCmd(),
		newGUICmd(),
		newRenderCmd(),
		newScenarioCmd(),
		newMonteCarloCmd(),
		newSweepCmd(),
		newBenchCmd(),
		newScenesCmd(),
		newSceneCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCmd(),
		newPalettesCmd(),
	)
	return rootCmd
}

func setupLogging() {
	level := slog.LevelInfo
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig layers the scene preset, the config file and then any flag or
// HEATGRID_* variable that was set explicitly.
func loadConfig(args []string) (*config.Config, error) {
	path := v.GetString("config")
	scene := config.DefaultScene
	if path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		scene = fileCfg.Scene
	}
	if len(args) > 0 {
		scene = args[0]
	}

	cfg := config.DefaultConfig()
	if config.GetScene(scene) != nil {
		if err := cfg.ApplyScene(scene); err != nil {
			return nil, err
		}
	} else if len(args) > 0 {
		return nil, fmt.Errorf("unknown scene: %s (available: %v)", scene, config.ListScenes())
	}

	if path != "" {
		if err := cfg.Merge(path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			cfg.Scene, cfg.Layout, cfg.LayoutFile = scene, nil, ""
		}
	}

	if v.IsSet("layout") && v.GetString("layout") != "" {
		cfg.LayoutFile = v.GetString("layout")
	}
	if v.IsSet("palette") {
		cfg.Palette = v.GetString("palette")
	}
	if v.IsSet("scale") {
		cfg.Scale = v.GetFloat64("scale")
	}
	if v.IsSet("cell-size") {
		cfg.CellSize = v.GetInt("cell-size")
	}
	if v.IsSet("fps") {
		cfg.FPS = v.GetInt("fps")
	}
	if v.IsSet("conductivity") {
		cfg.Conductivity = v.GetFloat64("conductivity")
	}
	if v.IsSet("dt") {
		cfg.Dt = v.GetFloat64("dt")
	}
	if v.IsSet("substeps") {
		cfg.SubSteps = v.GetInt("substeps")
	}
	if v.IsSet("ticks") {
		cfg.Ticks = v.GetInt("ticks")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
