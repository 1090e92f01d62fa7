package palette

import (
	"testing"
)

func TestFromHex(t *testing.T) {
	c := FromHex(0x89b4fa)
	if c != (RGB{137, 180, 250}) {
		t.Errorf("FromHex = %+v", c)
	}
	if c.Hex() != "#89b4fa" {
		t.Errorf("Hex() = %q", c.Hex())
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#f38ba8")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c != Red {
		t.Errorf("expected %+v, got %+v", Red, c)
	}
	if _, err := ParseHex("not-a-colour"); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestColorMapEndpoints(t *testing.T) {
	m := NewColorMap("test", RGB{0, 0, 0}, RGB{200, 100, 50}, RGB{255, 255, 255})

	tests := []struct {
		name string
		x    float64
		want RGB
	}{
		{"below range", -0.5, RGB{0, 0, 0}},
		{"zero", 0, RGB{0, 0, 0}},
		{"middle stop", 0.5, RGB{200, 100, 50}},
		{"one", 1, RGB{255, 255, 255}},
		{"above range", 3, RGB{255, 255, 255}},
		{"quarter", 0.25, RGB{100, 50, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.At(tt.x); got != tt.want {
				t.Errorf("At(%v) = %+v, want %+v", tt.x, got, tt.want)
			}
		})
	}
}

func TestColorMapFloorsChannels(t *testing.T) {
	m := NewColorMap("test", RGB{0, 0, 0}, RGB{3, 3, 3})
	if got := m.At(0.5); got != (RGB{1, 1, 1}) {
		t.Errorf("expected floor(1.5)=1, got %+v", got)
	}
}

func TestSingleStopColorMap(t *testing.T) {
	m := NewColorMap("flat", Teal)
	for _, x := range []float64{-1, 0, 0.3, 1, 2} {
		if m.At(x) != Teal {
			t.Errorf("At(%v) = %+v", x, m.At(x))
		}
	}
}

func TestGradientSteps(t *testing.T) {
	g := NewGradient("bars", Red, Green, Blue)
	tests := []struct {
		x    float64
		want RGB
	}{
		{0, Red},
		{0.2, Red},
		{0.34, Green},
		{0.9, Blue},
		{1, Blue},
		{1.5, Blue},
		{-1, Red},
	}

	for _, tt := range tests {
		if got := g.At(tt.x); got != tt.want {
			t.Errorf("At(%v) = %+v, want %+v", tt.x, got, tt.want)
		}
	}
}

func TestNamedMaps(t *testing.T) {
	names := Names()
	if len(names) != len(registry) {
		t.Fatalf("expected %d names, got %d", len(registry), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}

	for _, name := range names {
		if !Has(name) {
			t.Errorf("Has(%q) = false", name)
		}
		m := Get(name)
		if m == nil {
			t.Fatalf("Get(%q) returned nil", name)
		}
		lo, hi := m.At(0), m.At(1)
		if lo == hi {
			t.Errorf("%s: endpoints are identical %+v", name, lo)
		}
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	got := Get("no-such-map").At(1)
	want := Get(DefaultName).At(1)
	if got != want {
		t.Errorf("fallback At(1) = %+v, want %+v", got, want)
	}
}

func TestHeatRamp(t *testing.T) {
	h := Heat()
	if h.At(0) != (RGB{0, 0, 0}) {
		t.Errorf("expected black at 0, got %+v", h.At(0))
	}
	if h.At(1) != (RGB{255, 255, 255}) {
		t.Errorf("expected white at 1, got %+v", h.At(1))
	}
}

func TestSampledMapsRunDarkToBright(t *testing.T) {
	sum := func(c RGB) int { return int(c.R) + int(c.G) + int(c.B) }
	for _, name := range []string{"viridis", "inferno"} {
		m := Get(name)
		if lo, hi := m.At(0), m.At(1); sum(lo) >= sum(hi) {
			t.Errorf("%s: expected At(0) %v darker than At(1) %v", name, lo.Hex(), hi.Hex())
		}
	}
}
