package heat

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

const (
	// InsulatorCode marks an insulator tile in a layout row.
	InsulatorCode = '#'

	// LevelStep is the temperature of one hex level: digit d starts at d*LevelStep.
	LevelStep = 16
)

const hexDigits = "0123456789abcdef"

// hexValue maps '0'..'9' and 'a'..'f' to 0..15.
func hexValue(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	}
	return 0, false
}

// parseRow turns one layout row into tiles. Characters that are neither the
// insulator code nor a lowercase hex digit are dropped.
func parseRow(row string) []Tile {
	tiles := make([]Tile, 0, len(row))
	for _, c := range row {
		if c == InsulatorCode {
			tiles = append(tiles, Tile{Kind: Insulator})
			continue
		}
		if v, ok := hexValue(c); ok {
			tiles = append(tiles, Tile{Kind: Conductor, Temperature: float64(v * LevelStep)})
		}
	}
	return tiles
}

// Build constructs a field from layout rows. The width is the filtered length
// of the first row; every other row must match it. No field is returned on
// error.
func Build(rows []string) (*Field, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedLayout)
	}

	parsed := make([][]Tile, len(rows))
	for i, row := range rows {
		parsed[i] = parseRow(row)
	}

	width := len(parsed[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: first row has no cells", ErrMalformedLayout)
	}
	for i, tiles := range parsed {
		if len(tiles) != width {
			return nil, &LayoutError{Row: i, Want: width, Got: len(tiles)}
		}
	}

	f := NewField(width, len(rows))
	for row, tiles := range parsed {
		for col, t := range tiles {
			f.set(col, row, t)
		}
	}
	return f, nil
}

// ReadLayout reads newline separated layout rows. Blank lines and lines
// starting with ';' are skipped.
func ReadLayout(r io.Reader) ([]string, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadLayout reads layout rows from a scene file.
func LoadLayout(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadLayout(file)
}

// Layout renders f back into layout rows. Conductor temperatures are rounded
// down to their hex level and clamped to 0..f.
func (f *Field) Layout() []string {
	rows := make([]string, f.height)
	var b strings.Builder
	for row := 0; row < f.height; row++ {
		b.Reset()
		for col := 0; col < f.width; col++ {
			t := f.At(col, row)
			if t.Kind != Conductor {
				b.WriteByte(InsulatorCode)
				continue
			}
			v := t.Temperature / LevelStep
			level := 0
			switch {
			case math.IsNaN(v) || v < 0:
			case v >= 15:
				level = 15
			default:
				level = int(v)
			}
			b.WriteByte(hexDigits[level])
		}
		rows[row] = b.String()
	}
	return rows
}
