package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/palette"
)

const (
	DefaultScene        = "funnel"
	DefaultConductivity = heat.DefaultConductivity
	DefaultDt           = heat.DefaultDt
	DefaultSubSteps     = 4
	DefaultTicks        = 1000
	DefaultCellSize     = 16
	DefaultFPS          = 60
	DefaultScale        = 255.0
)

// Config describes one simulation run and how it is displayed.
type Config struct {
	Scene        string   `yaml:"scene"`
	Layout       []string `yaml:"layout,omitempty"`
	LayoutFile   string   `yaml:"layout_file,omitempty"`
	Conductivity float64  `yaml:"conductivity"`
	Dt           float64  `yaml:"dt"`
	SubSteps     int      `yaml:"substeps"`
	Ticks        int      `yaml:"ticks"`

	CellSize int     `yaml:"cell_size"`
	FPS      int     `yaml:"fps"`
	Palette  string  `yaml:"palette"`
	Scale    float64 `yaml:"scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:        DefaultScene,
		Conductivity: DefaultConductivity,
		Dt:           DefaultDt,
		SubSteps:     DefaultSubSteps,
		Ticks:        DefaultTicks,
		CellSize:     DefaultCellSize,
		FPS:          DefaultFPS,
		Palette:      palette.DefaultName,
		Scale:        DefaultScale,
	}
}

// Load reads a config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays the keys present in a config file onto c.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field without building the scene.
func (c *Config) Validate() error {
	var errs []error
	if err := heat.NewStepper(c.Conductivity, c.Dt).Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.SubSteps <= 0 {
		errs = append(errs, fmt.Errorf("substeps must be positive, got %d", c.SubSteps))
	}
	if c.Ticks <= 0 {
		errs = append(errs, fmt.Errorf("ticks must be positive, got %d", c.Ticks))
	}
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell_size must be positive, got %d", c.CellSize))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %v", c.Scale))
	}
	if c.Palette != "" && !palette.Has(c.Palette) {
		errs = append(errs, fmt.Errorf("unknown palette %q (available: %v)", c.Palette, palette.Names()))
	}
	if c.LayoutFile == "" && len(c.Layout) == 0 && GetScene(c.Scene) == nil {
		errs = append(errs, fmt.Errorf("unknown scene %q (available: %v)", c.Scene, ListScenes()))
	}
	return errors.Join(errs...)
}

// Rows resolves the layout: layout_file, then inline layout, then the
// named scene.
func (c *Config) Rows() ([]string, error) {
	if c.LayoutFile != "" {
		return heat.LoadLayout(c.LayoutFile)
	}
	if len(c.Layout) > 0 {
		return c.Layout, nil
	}
	sc := GetScene(c.Scene)
	if sc == nil {
		return nil, fmt.Errorf("unknown scene: %s (available: %v)", c.Scene, ListScenes())
	}
	return sc.Layout, nil
}

// Build constructs the field and stepper the config describes.
func (c *Config) Build() (*heat.Field, *heat.Stepper, error) {
	rows, err := c.Rows()
	if err != nil {
		return nil, nil, err
	}
	f, err := heat.Build(rows)
	if err != nil {
		return nil, nil, err
	}
	st := heat.NewStepper(c.Conductivity, c.Dt)
	if err := st.Validate(); err != nil {
		return nil, nil, err
	}
	return f, st, nil
}

// ApplyScene copies a preset's stepper constants into c.
func (c *Config) ApplyScene(name string) error {
	sc := GetScene(name)
	if sc == nil {
		return fmt.Errorf("unknown scene: %s (available: %v)", name, ListScenes())
	}
	c.Scene = name
	c.Layout = nil
	c.LayoutFile = ""
	if sc.Conductivity > 0 {
		c.Conductivity = sc.Conductivity
	}
	if sc.Dt > 0 {
		c.Dt = sc.Dt
	}
	if sc.SubSteps > 0 {
		c.SubSteps = sc.SubSteps
	}
	return nil
}
