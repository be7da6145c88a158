package computer

import (
	"math/rand/v2"

	cerr "github.com/saeidalz13/battleship-computer/internal/error"
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
)

// Optimal picks the point of points most likely to hold a ship of
// the given length. It does not always return the best scored point:
// a point in tier i is i times as likely to be chosen as a point in
// tier 1, so fleets hidden on low scored border cells still get shot at.
func Optimal(g Grid, points []mb.Coordinates, length int, rng *rand.Rand) (mb.Coordinates, error) {
	return weightOptimal(scoreTiers(g, points, length), rng)
}

// scoreTiers buckets points by PointScore. The index of a tier is
// its score, from 0 up to 2*length.
func scoreTiers(g Grid, points []mb.Coordinates, length int) [][]mb.Coordinates {
	tiers := make([][]mb.Coordinates, 2*length+1)
	for _, p := range points {
		score := PointScore(g, p, length)
		tiers[score] = append(tiers[score], p)
	}
	return tiers
}

// weightOptimal draws a point where every point of tier i weighs i.
// Tier 0 weighs nothing and is never drawn.
func weightOptimal(tiers [][]mb.Coordinates, rng *rand.Rand) (mb.Coordinates, error) {
	total := 0
	for score, tier := range tiers {
		total += score * len(tier)
	}
	if total == 0 {
		return mb.Coordinates{}, cerr.ErrNoWeightedCandidates
	}

	draw := rng.IntN(total)
	for score, tier := range tiers {
		for _, p := range tier {
			if draw < score {
				return p, nil
			}
			draw -= score
		}
	}

	panic("weighted draw out of range; this will never happen")
}
