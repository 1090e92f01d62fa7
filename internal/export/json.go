package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/heatgrid/internal/heat"
)

// Snapshot is the JSON form of a field at one tick. Temperatures is
// row-major and includes insulators.
type Snapshot struct {
	Scene        string     `json:"scene"`
	Tick         int        `json:"tick"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	Layout       []string   `json:"layout"`
	Temperatures []float64  `json:"temperatures"`
	Stats        heat.Stats `json:"stats"`
}

func NewSnapshot(scene string, tick int, f *heat.Field) Snapshot {
	return Snapshot{
		Scene:        scene,
		Tick:         tick,
		Width:        f.Width(),
		Height:       f.Height(),
		Layout:       f.Layout(),
		Temperatures: f.Temperatures(),
		Stats:        f.Stats(),
	}
}

// EncodeJSON writes v as indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func ExportJSON(path string, snap Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeJSON(file, snap)
}
