package config

import "sort"

// Scene is a preset layout with the stepper constants it looks best with.
// Zero constants mean "use the configured value".
type Scene struct {
	Description  string
	Layout       []string
	Conductivity float64
	Dt           float64
	SubSteps     int
}

var Scenes = map[string]*Scene{
	"funnel": {
		Description: "hot rim draining through a narrowing channel",
		Layout: []string{
			"ffffffffffffffffffff",
			"#ffffffffffffffffff#",
			"##0000000000000000##",
			"###00000000000000###",
			"####000000000000####",
			"#####0000000000#####",
			"######00000000######",
			"#######000000#######",
			"########0000########",
			"########0000########",
			"########0000########",
			"####################",
		},
		Conductivity: 1.0, Dt: 0.1, SubSteps: 4,
	},
	"bars": {
		Description: "sixteen vertical bars, one per level",
		Layout: []string{
			"0123456789abcdef",
			"0123456789abcdef",
			"0123456789abcdef",
			"0123456789abcdef",
			"0123456789abcdef",
			"0123456789abcdef",
		},
		Conductivity: 1.0, Dt: 0.1, SubSteps: 2,
	},
	"checker": {
		Description: "alternating hot and cold conductors",
		Layout: []string{
			"f0f0f0f0f0f0",
			"0f0f0f0f0f0f",
			"f0f0f0f0f0f0",
			"0f0f0f0f0f0f",
			"f0f0f0f0f0f0",
			"0f0f0f0f0f0f",
			"f0f0f0f0f0f0",
			"0f0f0f0f0f0f",
		},
		Conductivity: 1.0, Dt: 0.1, SubSteps: 1,
	},
	"two_cell": {
		Description: "two conductors exchanging heat inside an insulating wall",
		Layout: []string{
			"####",
			"#f0#",
			"####",
		},
		Conductivity: 1.0, Dt: 0.1, SubSteps: 1,
	},
	"ring": {
		Description: "a single hot cell chasing itself around an insulated ring",
		Layout: []string{
			"################",
			"#f0000000000000#",
			"#0############0#",
			"#0############0#",
			"#0############0#",
			"#0############0#",
			"#0############0#",
			"#0############0#",
			"#00000000000000#",
			"################",
		},
		Conductivity: 5.0, Dt: 0.1, SubSteps: 8,
	},
	"gradient": {
		Description: "a smooth ramp that barely moves",
		Layout: []string{
			"0123456789abcdef",
			"123456789abcdefe",
			"23456789abcdefed",
			"3456789abcdefedc",
		},
		Conductivity: 1.0, Dt: 0.1, SubSteps: 4,
	},
}

func GetScene(name string) *Scene {
	sc, ok := Scenes[name]
	if !ok {
		return nil
	}
	return sc
}

// ListScenes returns scene names in sorted order.
func ListScenes() []string {
	names := make([]string, 0, len(Scenes))
	for name := range Scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
