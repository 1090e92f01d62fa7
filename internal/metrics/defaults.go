package metrics

import (
	"github.com/san-kum/heatgrid/internal/sim"
)

// Defaults is the metric set attached to every stored run. Stability uses
// the display range 0..255.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewTotalHeat(),
		NewHeatDrift(),
		NewStability(0, 255),
		NewSpread(),
		NewPeak(),
	}
}
