package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/heatgrid/internal/heat"
	"github.com/san-kum/heatgrid/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statsFile    = "stats.csv"
)

var statsHeader = []string{"frame", "conductors", "total", "min", "max", "mean"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a stored run.
type RunMetadata struct {
	ID           string             `json:"id"`
	Scene        string             `json:"scene"`
	Timestamp    time.Time          `json:"timestamp"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	Conductivity float64            `json:"conductivity"`
	Dt           float64            `json:"dt"`
	Ticks        int                `json:"ticks"`
	Frames       int                `json:"frames"`
	Residual     float64            `json:"residual"`
	Metrics      map[string]float64 `json:"metrics"`
	Errors       []string           `json:"errors,omitempty"`
}

// Run bundles what Save needs to know about a finished run.
type Run struct {
	Scene   string
	Field   *heat.Field
	Stepper *heat.Stepper
	Result  *sim.Result
}

// Save writes metadata.json and stats.csv into a fresh run directory and
// returns the run id.
func (s *Store) Save(run Run) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", run.Scene, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	result := run.Result
	meta := RunMetadata{
		ID:           runID,
		Scene:        run.Scene,
		Timestamp:    ts,
		Width:        run.Field.Width(),
		Height:       run.Field.Height(),
		Conductivity: run.Stepper.Conductivity,
		Dt:           run.Stepper.Dt,
		Ticks:        result.Ticks,
		Frames:       result.Frames,
		Residual:     result.Residual,
		Metrics:      result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStats(filepath.Join(runDir, statsFile), result.Stats); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStats(path string, stats []heat.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statsHeader); err != nil {
		return err
	}
	for i, st := range stats {
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(st.Conductors),
			formatFloat(st.Total),
			formatFloat(st.Min),
			formatFloat(st.Max),
			formatFloat(st.Mean),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStats reads back the per-frame stats of a run. Malformed rows are
// skipped.
func (s *Store) LoadStats(runID string) ([]heat.Stats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []heat.Stats{}, nil
	}

	stats := make([]heat.Stats, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(statsHeader) {
			continue
		}
		st, err := parseStats(record)
		if err != nil {
			continue
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func parseStats(record []string) (heat.Stats, error) {
	var st heat.Stats
	n, err := strconv.Atoi(record[1])
	if err != nil {
		return st, err
	}
	st.Conductors = n

	fields := []*float64{&st.Total, &st.Min, &st.Max, &st.Mean}
	for i, dst := range fields {
		v, err := strconv.ParseFloat(record[i+2], 64)
		if err != nil {
			return st, err
		}
		*dst = v
	}
	return st, nil
}
