package computer

import (
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
)

// Grid is what the computer needs from the board it is firing at.
// *battleship.Board satisfies it.
type Grid interface {
	IsValid(c mb.Coordinates) bool
	PositionState(x, y int) mb.PositionState
	Fire(c mb.Coordinates) (mb.PositionState, error)
	RemainingShips() []*mb.Ship
	Rows() int
	Columns() int
}

var _ Grid = (*mb.Board)(nil)

func isUnfired(g Grid, c mb.Coordinates) bool {
	return g.IsValid(c) && g.PositionState(c.X, c.Y) == mb.PositionStateUnfired
}
