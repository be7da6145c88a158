package computer

import (
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
)

// proposeNeighbors returns the cells worth firing at next for the
// ship that hits belong to. It may return nothing when the hits
// actually belong to more than one ship.
func proposeNeighbors(g Grid, hits []mb.Coordinates, length int) []mb.Coordinates {
	if len(hits) == 1 {
		return proposeSingleHitNeighbors(g, hits[0], length)
	}

	first, second := hits[0], hits[1]
	low, high := first, first

	// up-down ship
	if first.X == second.X {
		for _, h := range hits {
			if h.Y < low.Y {
				low = h
			}
			if h.Y > high.Y {
				high = h
			}
		}
		return filterUnfired(g, []mb.Coordinates{
			mb.NewCoordinates(low.X, low.Y-1),
			mb.NewCoordinates(high.X, high.Y+1),
		})
	}

	// left-right ship
	for _, h := range hits {
		if h.X < low.X {
			low = h
		}
		if h.X > high.X {
			high = h
		}
	}
	return filterUnfired(g, []mb.Coordinates{
		mb.NewCoordinates(low.X-1, low.Y),
		mb.NewCoordinates(high.X+1, high.Y),
	})
}

// The orientation with more possible placements is tried first;
// ties go up-down. If that orientation is fully blocked all four
// sides are proposed.
func proposeSingleHitNeighbors(g Grid, hit mb.Coordinates, length int) []mb.Coordinates {
	leftRight := []mb.Coordinates{
		mb.NewCoordinates(hit.X+1, hit.Y),
		mb.NewCoordinates(hit.X-1, hit.Y),
	}
	upDown := []mb.Coordinates{
		mb.NewCoordinates(hit.X, hit.Y+1),
		mb.NewCoordinates(hit.X, hit.Y-1),
	}

	var proposals []mb.Coordinates
	if HorizontalScore(g, hit, length) > VerticalScore(g, hit, length) {
		proposals = filterUnfired(g, leftRight)
	} else {
		proposals = filterUnfired(g, upDown)
	}

	if len(proposals) == 0 {
		proposals = filterUnfired(g, append(leftRight, upDown...))
	}
	return proposals
}

func filterUnfired(g Grid, cells []mb.Coordinates) []mb.Coordinates {
	result := make([]mb.Coordinates, 0, len(cells))
	for _, c := range cells {
		if isUnfired(g, c) {
			result = append(result, c)
		}
	}
	return result
}
