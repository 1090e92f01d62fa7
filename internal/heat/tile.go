package heat

// Kind is the immutable material of a tile.
type Kind uint8

const (
	Insulator Kind = iota
	Conductor
)

func (k Kind) String() string {
	switch k {
	case Insulator:
		return "insulator"
	case Conductor:
		return "conductor"
	default:
		return "unknown"
	}
}

// Tile is one cell of a Field. Temperature is meaningful only for conductors.
type Tile struct {
	Kind        Kind
	Temperature float64
}

func (t Tile) IsConductor() bool { return t.Kind == Conductor }
