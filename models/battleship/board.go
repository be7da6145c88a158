package battleship

import (
	"math/rand/v2"
	"slices"

	cerr "github.com/saeidalz13/battleship-computer/internal/error"
)

const maxPlacementAttempts = 1000

// Board is a defence grid together with the shots fired at it.
// Cells are indexed [y][x] with x the column and y the row.
type Board struct {
	rows      int
	columns   int
	positions [][]PositionState
	occupancy [][]*Ship
	ships     []*Ship
}

func NewBoard(rows, columns int) *Board {
	positions := make([][]PositionState, rows)
	occupancy := make([][]*Ship, rows)
	for i := 0; i < rows; i++ {
		positions[i] = make([]PositionState, columns)
		occupancy[i] = make([]*Ship, columns)
	}

	return &Board{
		rows:      rows,
		columns:   columns,
		positions: positions,
		occupancy: occupancy,
	}
}

// Builds a board out of the defence grid sent by a client. Every
// ship of the mode fleet must appear exactly once as a straight
// contiguous line of its length.
func NewBoardFromDefenceGrid(grid Grid, mode int) (*Board, error) {
	size, fleet := ModeSettings(mode)
	if len(grid) != size {
		return nil, cerr.ErrDefenceGridInvalidSize(size, size)
	}

	cells := make(map[ShipCode][]Coordinates, len(fleet))
	for y, row := range grid {
		if len(row) != size {
			return nil, cerr.ErrDefenceGridInvalidSize(size, size)
		}
		for x, code := range row {
			if code == PositionStateDefenceGridEmpty {
				continue
			}
			if !fleet.Has(code) {
				return nil, cerr.ErrDefenceGridUnknownCode(code)
			}
			cells[ShipCode(code)] = append(cells[ShipCode(code)], NewCoordinates(x, y))
		}
	}

	board := NewBoard(size, size)
	for _, code := range fleet {
		start, horizontal, ok := shipLine(cells[code], ShipLength(code))
		if !ok {
			return nil, cerr.ErrDefenceGridInvalidShip(int(code))
		}
		if err := board.PlaceShip(code, start, horizontal); err != nil {
			return nil, err
		}
	}

	return board, nil
}

// Places the fleet of the mode at random positions.
func PlaceFleetRandomly(mode int, rng *rand.Rand) (*Board, error) {
	size, fleet := ModeSettings(mode)
	board := NewBoard(size, size)

	// largest ships first, they are the hardest to fit
	codes := slices.Clone(fleet)
	slices.SortFunc(codes, func(a, b ShipCode) int { return ShipLength(b) - ShipLength(a) })

	for _, code := range codes {
		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			start := NewCoordinates(rng.IntN(size), rng.IntN(size))
			if err := board.PlaceShip(code, start, rng.IntN(2) == 0); err == nil {
				placed = true
				break
			}
		}
		if !placed {
			return nil, cerr.ErrFleetPlacementFailed(maxPlacementAttempts)
		}
	}

	return board, nil
}

// shipLine reports the first cell and the orientation of cells
// if they form a straight contiguous run of exactly length cells.
// The cells come in row-major order.
func shipLine(cells []Coordinates, length int) (Coordinates, bool, bool) {
	if len(cells) != length || length == 0 {
		return Coordinates{}, false, false
	}

	start := cells[0]
	horizontal := length == 1 || cells[1].Y == start.Y
	for i, c := range cells {
		if horizontal && (c.Y != start.Y || c.X != start.X+i) {
			return Coordinates{}, false, false
		}
		if !horizontal && (c.X != start.X || c.Y != start.Y+i) {
			return Coordinates{}, false, false
		}
	}
	return start, horizontal, true
}

func (b *Board) PlaceShip(code ShipCode, start Coordinates, horizontal bool) error {
	if !IsShipCodeValid(code) {
		return cerr.ErrDefenceGridUnknownCode(int(code))
	}

	ship := NewShip(code)
	for i := 0; i < ship.length; i++ {
		c := start
		if horizontal {
			c.X += i
		} else {
			c.Y += i
		}

		if !b.IsValid(c) {
			return cerr.ErrXorYOutOfGridBound(c.X, c.Y)
		}
		if b.occupancy[c.Y][c.X] != nil {
			return cerr.ErrShipOverlap(c.X, c.Y)
		}
		ship.coordinates = append(ship.coordinates, c)
	}

	for _, c := range ship.coordinates {
		b.occupancy[c.Y][c.X] = ship
	}
	b.ships = append(b.ships, ship)
	return nil
}

func (b *Board) IsValid(c Coordinates) bool {
	return c.X >= 0 && c.X < b.columns && c.Y >= 0 && c.Y < b.rows
}

func (b *Board) PositionState(x, y int) PositionState {
	return b.positions[y][x]
}

// Fire records a shot at c. A ship that takes its last hit turns
// all of its cells to PositionStateSunk.
func (b *Board) Fire(c Coordinates) (PositionState, error) {
	if !b.IsValid(c) {
		return PositionStateUnfired, cerr.ErrXorYOutOfGridBound(c.X, c.Y)
	}
	if b.positions[c.Y][c.X] != PositionStateUnfired {
		return b.positions[c.Y][c.X], cerr.ErrAttackPositionAlreadyFilled(c.X, c.Y)
	}

	ship := b.occupancy[c.Y][c.X]
	if ship == nil {
		b.positions[c.Y][c.X] = PositionStateMiss
		return PositionStateMiss, nil
	}

	ship.GotHit()
	if !ship.IsSunk() {
		b.positions[c.Y][c.X] = PositionStateHit
		return PositionStateHit, nil
	}

	for _, sc := range ship.coordinates {
		b.positions[sc.Y][sc.X] = PositionStateSunk
	}
	return PositionStateSunk, nil
}

func (b *Board) ShipAt(c Coordinates) *Ship {
	if !b.IsValid(c) {
		return nil
	}
	return b.occupancy[c.Y][c.X]
}

func (b *Board) Ships() []*Ship {
	return b.ships
}

func (b *Board) RemainingShips() []*Ship {
	remaining := make([]*Ship, 0, len(b.ships))
	for _, ship := range b.ships {
		if !ship.IsSunk() {
			remaining = append(remaining, ship)
		}
	}
	return remaining
}

func (b *Board) IsFleetSunk() bool {
	return len(b.RemainingShips()) == 0
}

func (b *Board) Rows() int {
	return b.rows
}

func (b *Board) Columns() int {
	return b.columns
}
