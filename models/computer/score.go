package computer

import (
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
)

// PointScore counts the placements of a ship of the given length
// that could still cover c, horizontally and vertically.
// The higher the score, the better the point is for firing.
// A fired point scores 0.
func PointScore(g Grid, c mb.Coordinates, length int) int {
	if !isUnfired(g, c) {
		return 0
	}
	return HorizontalScore(g, c, length) + VerticalScore(g, c, length)
}

// HorizontalScore is the number of horizontal placements of a ship
// of the given length that contain c without covering a fired cell.
func HorizontalScore(g Grid, c mb.Coordinates, length int) int {
	right, left := c.X, c.X

	for isUnfired(g, mb.NewCoordinates(right+1, c.Y)) && (right+1)-c.X < length {
		right++
	}
	for isUnfired(g, mb.NewCoordinates(left-1, c.Y)) && c.X-(left-1) < length {
		left--
	}

	return windows(left, right, length)
}

// VerticalScore is HorizontalScore along the y axis.
func VerticalScore(g Grid, c mb.Coordinates, length int) int {
	down, up := c.Y, c.Y

	for isUnfired(g, mb.NewCoordinates(c.X, down+1)) && (down+1)-c.Y < length {
		down++
	}
	for isUnfired(g, mb.NewCoordinates(c.X, up-1)) && c.Y-(up-1) < length {
		up--
	}

	return windows(up, down, length)
}

// windows is the number of length-long windows inside [low, high].
func windows(low, high, length int) int {
	return max(0, high-(low+length-1)+1)
}
