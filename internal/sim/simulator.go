package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/attribute"

	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/render"
	"github.com/san-kum/heatgrid/internal/telemetry"
)

// Simulator drives a single field: observe, then step SubSteps ticks, per
// frame. It is not safe for concurrent use.
type Simulator struct {
	field     *heat.Field
	initial   *heat.Field
	stepper   *heat.Stepper
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
	tick      int
}

func New(field *heat.Field, stepper *heat.Stepper) *Simulator {
	return &Simulator{
		field:     field,
		initial:   field.Clone(),
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)       { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)   { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *slog.Logger) { s.logger = l }
func (s *Simulator) Field() *heat.Field       { return s.field }
func (s *Simulator) Stepper() *heat.Stepper   { return s.stepper }
func (s *Simulator) Tick() int                { return s.tick }

// Reset restores the field to the state it had when the simulator was built.
func (s *Simulator) Reset() {
	s.field = s.initial.Clone()
	s.tick = 0
}

// ConductivityStep is the increment interactive front-ends apply per key press.
const ConductivityStep = 0.1

// AdjustConductivity adds delta to the stepper conductivity, never going
// below zero, and returns the new value.
func (s *Simulator) AdjustConductivity(delta float64) float64 {
	s.stepper.Conductivity = math.Max(0, s.stepper.Conductivity+delta)
	if !s.stepper.Stable() {
		s.logger.Warn("conductivity above stability limit", "conductivity", s.stepper.Conductivity, "gain", s.stepper.Gain())
	}
	return s.stepper.Conductivity
}

// Advance steps n ticks without observers or metrics.
func (s *Simulator) Advance(n int) {
	s.stepper.Advance(s.field, n)
	s.tick += n
}

// Run executes cfg.Ticks ticks headlessly.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer("sim").Start(ctx, "sim.Run")
	defer span.End()

	frames := (cfg.Ticks + cfg.SubSteps - 1) / cfg.SubSteps
	result := &Result{
		Stats:   make([]heat.Stats, 0, frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Debug("run started",
		"width", s.field.Width(), "height", s.field.Height(),
		"ticks", cfg.Ticks, "substeps", cfg.SubSteps, "gain", s.stepper.Gain())
	if !s.stepper.Stable() {
		s.logger.Warn("conductivity*dt above 1, temperatures may oscillate", "gain", s.stepper.Gain())
	}

	remaining := cfg.Ticks
loop:
	for remaining > 0 {
		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			return result, ctx.Err()
		default:
		}

		s.observe(result)

		n := min(cfg.SubSteps, remaining)
		for i := 0; i < n; i++ {
			s.stepper.Step(s.field)
			s.tick++
			result.Ticks++
			if cfg.ValidateState && !s.field.Valid() {
				err := &TickError{Tick: s.tick, Wrapped: ErrDiverged}
				result.Errors = append(result.Errors, err)
				s.logger.Warn("field diverged", "tick", s.tick)
				break loop
			}
		}
		remaining -= n
		result.Frames++
	}

	result.Stats = append(result.Stats, s.field.Stats())
	result.Residual = s.stepper.Residual()
	for _, m := range s.metrics {
		m.Observe(s.field, s.tick)
		result.Metrics[m.Name()] = m.Value()
	}

	span.SetAttributes(
		attribute.Int("heat.ticks", result.Ticks),
		attribute.Int("heat.frames", result.Frames),
		attribute.Float64("heat.residual", result.Residual),
	)
	s.logger.Debug("run finished", "ticks", result.Ticks, "frames", result.Frames, "residual", result.Residual)

	return result, nil
}

func (s *Simulator) observe(result *Result) {
	result.Stats = append(result.Stats, s.field.Stats())
	for _, m := range s.metrics {
		m.Observe(s.field, s.tick)
	}
	for _, o := range s.observers {
		o.OnFrame(s.field, s.tick)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.SubSteps <= 0 {
		return fmt.Errorf("substeps must be positive, got %d", cfg.SubSteps)
	}
	return s.stepper.Validate()
}

// Animate paints a frame and then steps subSteps ticks, for as long as the
// renderer keeps running and ctx is live. It returns the number of frames
// painted.
func (s *Simulator) Animate(ctx context.Context, r render.Renderer, p *render.Painter, subSteps int) (int, error) {
	if subSteps <= 0 {
		return 0, fmt.Errorf("substeps must be positive, got %d", subSteps)
	}
	if err := s.stepper.Validate(); err != nil {
		return 0, err
	}

	frames := 0
	for r.Running() {
		select {
		case <-ctx.Done():
			return frames, ctx.Err()
		default:
		}

		p.Paint(r, s.field)
		for _, o := range s.observers {
			o.OnFrame(s.field, s.tick)
		}
		frames++
		s.Advance(subSteps)
	}
	return frames, nil
}

// RunWithCallback steps frame by frame until the callback returns false or
// cfg.Ticks ticks have run.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(f *heat.Field, tick int) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	for done := 0; done < cfg.Ticks; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.field, s.tick) {
			return nil
		}

		n := min(cfg.SubSteps, cfg.Ticks-done)
		s.Advance(n)
		done += n

		if cfg.ValidateState && !s.field.Valid() {
			return &TickError{Tick: s.tick, Wrapped: ErrDiverged}
		}
	}
	return nil
}
