package computer

import (
	"github.com/dolthub/swiss"
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
)

// checkerboardPool holds the cells still open to a hunting shot.
// Every ship of length 2 or more covers both colours of a
// checkerboard, so hunting one colour is enough to find them all.
//
// The slice keeps the order deterministic for a seeded source;
// the map finds a cell's slot in it.
type checkerboardPool struct {
	cells []mb.Coordinates
	index *swiss.Map[mb.Coordinates, int]
}

func newCheckerboardPool(rows, columns, colour int) *checkerboardPool {
	pool := &checkerboardPool{
		cells: make([]mb.Coordinates, 0, (rows*columns+1)/2),
		index: swiss.NewMap[mb.Coordinates, int](uint32((rows*columns + 1) / 2)),
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			if (x+y)%2 == colour {
				pool.add(mb.NewCoordinates(x, y))
			}
		}
	}
	return pool
}

func (p *checkerboardPool) add(c mb.Coordinates) {
	if p.index.Has(c) {
		return
	}
	p.index.Put(c, len(p.cells))
	p.cells = append(p.cells, c)
}

func (p *checkerboardPool) Has(c mb.Coordinates) bool {
	return p.index.Has(c)
}

// Remove swaps c with the last cell and shrinks the slice.
// Removing a cell that is not in the pool is a no-op.
func (p *checkerboardPool) Remove(c mb.Coordinates) bool {
	i, ok := p.index.Get(c)
	if !ok {
		return false
	}

	last := len(p.cells) - 1
	if i != last {
		moved := p.cells[last]
		p.cells[i] = moved
		p.index.Put(moved, i)
	}
	p.cells = p.cells[:last]
	p.index.Delete(c)
	return true
}

func (p *checkerboardPool) Cells() []mb.Coordinates {
	return p.cells
}

func (p *checkerboardPool) Len() int {
	return len(p.cells)
}
