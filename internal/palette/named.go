package palette

import (
	"sort"

	"github.com/mazznoer/colorgrad"
)

// Map is anything that turns a normalised value into a colour.
type Map interface {
	At(x float64) RGB
}

// Catppuccin Mocha colours.
var (
	Red      = FromHex(0xf38ba8)
	Maroon   = FromHex(0xeba0ac)
	Peach    = FromHex(0xfab387)
	Yellow   = FromHex(0xf9e2af)
	Green    = FromHex(0xa6e3a1)
	Teal     = FromHex(0x94e2d5)
	Sky      = FromHex(0x89dceb)
	Sapphire = FromHex(0x74c7ec)
	Blue     = FromHex(0x89b4fa)
	Lavender = FromHex(0xb4befe)
	Pink     = FromHex(0xf5c2e7)
	DarkGray = RGB{24, 24, 37}
)

var catppuccinStops = []RGB{Red, Maroon, Peach, Yellow, Green, Teal, Sky, Sapphire, Blue}

// DefaultName is the colour map used when none is configured.
const DefaultName = "inferno"

const sampledStops = 50

// viridis and inferno run dark to bright as colorgrad defines them, so low
// temperatures are dark. Callers wanting the reversed ramp can sample
// colorgrad's gradient in the other direction.
var registry = map[string]func() Map{
	"catppuccin": func() Map { return NewColorMap("catppuccin", catppuccinStops...) },
	"bars":       func() Map { return NewGradient("bars", catppuccinStops...) },
	"viridis":    func() Map { return sample("viridis", colorgrad.Viridis()) },
	"inferno":    func() Map { return sample("inferno", colorgrad.Inferno()) },
	"heat":       func() Map { return Heat() },
}

// Get returns the named colour map, falling back to DefaultName.
func Get(name string) Map {
	if fn, ok := registry[name]; ok {
		return fn()
	}
	return registry[DefaultName]()
}

// Has reports whether name is a registered colour map.
func Has(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names lists registered colour maps in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sample(name string, g colorgrad.Gradient) *ColorMap {
	stops := make([]RGB, 0, sampledStops)
	for _, c := range g.Colors(sampledStops) {
		stops = append(stops, fromColor(c))
	}
	return NewColorMap(name, stops...)
}

// Heat is a black-body style ramp, black through red and yellow to white,
// blended in Lab space between anchors.
func Heat() *ColorMap {
	anchors := []RGB{{0, 0, 0}, {178, 34, 34}, {255, 140, 0}, {255, 230, 80}, {255, 255, 255}}
	const perSegment = 8
	stops := make([]RGB, 0, (len(anchors)-1)*perSegment+1)
	for i := 0; i < len(anchors)-1; i++ {
		stops = append(stops, anchors[i])
		a, b := anchors[i].colorful(), anchors[i+1].colorful()
		for k := 1; k < perSegment; k++ {
			stops = append(stops, fromColorful(a.BlendLab(b, float64(k)/perSegment)))
		}
	}
	stops = append(stops, anchors[len(anchors)-1])
	return NewColorMap("heat", stops...)
}
