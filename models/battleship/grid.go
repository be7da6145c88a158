package battleship

// PositionState is the outcome of shots at a single cell as seen
// by the attacker. A cell moves from unfired to miss, or to hit
// and then sunk; it never goes back.
type PositionState uint8

const (
	PositionStateUnfired PositionState = iota
	PositionStateHit
	PositionStateMiss
	PositionStateSunk
)

func (ps PositionState) String() string {
	switch ps {
	case PositionStateUnfired:
		return "unfired"
	case PositionStateHit:
		return "hit"
	case PositionStateMiss:
		return "miss"
	case PositionStateSunk:
		return "sunk"
	default:
		return "unknown"
	}
}

// Defence grid cell value for water. Any other value is a ShipCode.
const PositionStateDefenceGridEmpty = 0

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

// Grid is the defence grid a client sends: indexed [y][x] and
// holding ship codes.
type Grid [][]int

// Creates a new default grid
// All indexes are zero/PositionStateDefenceGridEmpty
func NewGrid(rows, columns int) Grid {
	grid := make(Grid, rows)

	for i := 0; i < rows; i++ {
		grid[i] = make([]int, columns)
	}
	return grid
}
