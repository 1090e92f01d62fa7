package metrics

import (
	"math"

	"github.com/san-kum/heatgrid/internal/heat"
)

// TotalHeat is the mean total conductor temperature over observed frames.
type TotalHeat struct {
	name    string
	samples int
	sum     float64
}

func NewTotalHeat() *TotalHeat {
	return &TotalHeat{name: "total_heat"}
}

func (h *TotalHeat) Name() string { return h.name }

func (h *TotalHeat) Observe(f *heat.Field, tick int) {
	h.sum += f.Stats().Total
	h.samples++
}

func (h *TotalHeat) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return h.sum / float64(h.samples)
}

func (h *TotalHeat) Reset() {
	h.sum = 0
	h.samples = 0
}

// HeatDrift is the largest relative change of the neighbour-weighted total
// (heat.Field.WeightedTotal) from the first observed frame. A tick keeps that
// quantity fixed up to rounding, so drift well above ~1e-12 means temperatures
// were edited between frames. The plain total is not tracked here: it moves
// whenever conductors have differing neighbour counts.
type HeatDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewHeatDrift() *HeatDrift {
	return &HeatDrift{name: "heat_drift"}
}

func (d *HeatDrift) Name() string { return d.name }

func (d *HeatDrift) Observe(f *heat.Field, tick int) {
	total := f.WeightedTotal()
	if d.samples == 0 {
		d.initial = total
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(total-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *HeatDrift) Value() float64 { return d.maxDrift }

func (d *HeatDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}
