package computer

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	cerr "github.com/saeidalz13/battleship-computer/internal/error"
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
)

// State is derived from the tracked hits; it is never stored.
type State uint8

const (
	// No ship is wounded
	StateHunting State = iota

	// A wound set aside earlier is picked up again
	StateResuming

	// A wounded ship is being finished off
	StateTargeting
)

func (s State) String() string {
	switch s {
	case StateHunting:
		return "hunting"
	case StateResuming:
		return "resuming"
	case StateTargeting:
		return "targeting"
	default:
		return "unknown"
	}
}

// Shot is one cell the computer fired at and what it turned out to
// be. The api sends it back to the human as a RespAttack.
type Shot struct {
	Coordinates   mb.Coordinates   `json:"coordinates"`
	PositionState mb.PositionState `json:"position_state"`
}

// Computer is the non-human player. It hunts with score weighted
// shots over half of the board until something is hit, then
// targets the neighbours of the hits until the ship sinks.
//
// A Computer belongs to one match and must not be shared between
// goroutines.
type Computer struct {
	rng  *rand.Rand
	pool *checkerboardPool

	// hits of the ship currently pursued
	hits []mb.Coordinates

	// hit groups set aside when a run of hits turned out to span
	// several ships; consumed oldest first
	backup [][]mb.Coordinates
}

type Option func(*Computer) error

func WithRand(rng *rand.Rand) Option {
	return func(c *Computer) error {
		if rng == nil {
			return fmt.Errorf("random source cannot be nil")
		}
		c.rng = rng
		return nil
	}
}

// WithHits seeds the hits the computer starts pursuing.
func WithHits(hits []mb.Coordinates) Option {
	return func(c *Computer) error {
		c.hits = slices.Clone(hits)
		return nil
	}
}

// NewComputer starts hunting on a rows by columns board. Without
// WithRand it draws from a randomly seeded source.
func NewComputer(rows, columns int, opts ...Option) (*Computer, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: %d rows by %d columns", rows, columns)
	}

	var c Computer
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, err
		}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c.pool = newCheckerboardPool(rows, columns, c.rng.IntN(2))
	for _, h := range c.hits {
		c.pool.Remove(h)
	}

	return &c, nil
}

func (c *Computer) State() State {
	if len(c.hits) != 0 {
		return StateTargeting
	}
	if len(c.backup) != 0 {
		return StateResuming
	}
	return StateHunting
}

// TakeTurn fires exactly one shot at g and returns it.
// Errors mean g and the computer disagree about the match and
// the match cannot go on.
func (c *Computer) TakeTurn(g Grid) (Shot, error) {
	minLen, err := minRemainingLength(g)
	if err != nil {
		return Shot{}, err
	}

	for {
		switch c.State() {
		case StateHunting:
			return c.hunt(g, minLen)

		case StateResuming:
			// no shot is spent here; the loop targets right away
			c.resume(g)

		case StateTargeting:
			return c.target(g, minLen)
		}
	}
}

func (c *Computer) hunt(g Grid, minLen int) (Shot, error) {
	if c.pool.Len() == 0 {
		return Shot{}, cerr.ErrCandidatePoolEmpty
	}

	p, err := Optimal(g, c.pool.Cells(), minLen, c.rng)
	if err != nil {
		return Shot{}, fmt.Errorf("hunting for a ship of length %d: %w", minLen, err)
	}
	return c.fire(g, p)
}

func (c *Computer) target(g Grid, minLen int) (Shot, error) {
	spaces, err := c.neighbors(g, minLen)
	if err != nil {
		return Shot{}, err
	}

	// the state may be back to hunting if every tracked hit was dropped
	if len(spaces) == 0 {
		return c.hunt(g, minLen)
	}
	return c.fire(g, spaces[c.rng.IntN(len(spaces))])
}

func (c *Computer) fire(g Grid, p mb.Coordinates) (Shot, error) {
	state, err := g.Fire(p)
	if err != nil {
		return Shot{}, err
	}
	c.pool.Remove(p)

	switch state {
	case mb.PositionStateHit:
		c.hits = append(c.hits, p)

	case mb.PositionStateSunk:
		c.hits = slices.DeleteFunc(c.hits, func(h mb.Coordinates) bool {
			return g.PositionState(h.X, h.Y) == mb.PositionStateSunk
		})
	}

	return Shot{Coordinates: p, PositionState: state}, nil
}

// resume pops backup groups until one still has a wounded cell.
// Cells sunk since the group was set aside are dropped.
func (c *Computer) resume(g Grid) bool {
	for len(c.hits) == 0 && len(c.backup) != 0 {
		group := c.backup[0]
		c.backup = c.backup[1:]

		c.hits = slices.DeleteFunc(slices.Clone(group), func(h mb.Coordinates) bool {
			return g.PositionState(h.X, h.Y) != mb.PositionStateHit
		})
	}
	return len(c.hits) != 0
}

// neighbors proposes the next cells for the pursued ship. When the
// hits turn out to straddle two ships side by side, all but the last
// hit are moved to backup and the last one is tried alone. A lone
// hit with no open side is dropped while backup groups remain: its
// ship goes on through a wounded neighbour tracked in one of them.
//
// Every round either returns, splits hits down to one cell, or drops
// a tracked cell, so twice the tracked cells bounds the rounds.
func (c *Computer) neighbors(g Grid, length int) ([]mb.Coordinates, error) {
	for rounds := 2*c.trackedCells() + 1; rounds > 0; rounds-- {
		if len(c.hits) == 0 && !c.resume(g) {
			return nil, nil
		}

		spaces := proposeNeighbors(g, c.hits, length)
		if len(spaces) != 0 {
			return spaces, nil
		}

		if len(c.hits) == 1 {
			if len(c.backup) == 0 {
				return nil, fmt.Errorf("hit at %+v: %w", c.hits[0], cerr.ErrTargetBoxedIn)
			}
			log.Debug("computer dropped boxed in hit", "hit", c.hits[0])
			c.hits = c.hits[:0]
			continue
		}

		last := c.hits[len(c.hits)-1]
		for _, h := range c.hits[:len(c.hits)-1] {
			c.backup = append(c.backup, []mb.Coordinates{h})
		}
		c.hits = []mb.Coordinates{last}
		log.Debug("computer split hit group", "kept", last, "backup", len(c.backup))
	}

	return nil, cerr.ErrTargetBoxedIn
}

func (c *Computer) trackedCells() int {
	n := len(c.hits)
	for _, group := range c.backup {
		n += len(group)
	}
	return n
}

func (c *Computer) Hits() []mb.Coordinates {
	return slices.Clone(c.hits)
}

func (c *Computer) Backup() [][]mb.Coordinates {
	backup := make([][]mb.Coordinates, len(c.backup))
	for i, group := range c.backup {
		backup[i] = slices.Clone(group)
	}
	return backup
}

func (c *Computer) PoolSize() int {
	return c.pool.Len()
}

func minRemainingLength(g Grid) (int, error) {
	ships := g.RemainingShips()
	if len(ships) == 0 {
		return 0, cerr.ErrNoShipsRemaining
	}

	minLen := ships[0].Length()
	for _, ship := range ships[1:] {
		minLen = min(minLen, ship.Length())
	}
	return minLen, nil
}
