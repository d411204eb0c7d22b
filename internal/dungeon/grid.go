package dungeon

import "fmt"

// DefaultGridOffset fits any tree the arena capacity allows.
const DefaultGridOffset = 50

// Grid maps signed coordinates to rooms. Coordinates must stay inside
// [-offset, offset); anything outside is a configuration error and panics.
type Grid struct {
	offset int
	size   int
	cells  []*Room
}

// NewGrid returns an empty grid spanning [-offset, offset) on both axes.
func NewGrid(offset int) *Grid {
	if offset <= 0 {
		panic(fmt.Sprintf("dungeon: grid offset must be positive, got %d", offset))
	}
	size := 2 * offset
	return &Grid{offset: offset, size: size, cells: make([]*Room, size*size)}
}

// Offset returns the half-width of the grid.
func (g *Grid) Offset() int { return g.offset }

// InBounds reports whether (x, y) is addressable.
func (g *Grid) InBounds(x, y int) bool {
	return x >= -g.offset && x < g.offset && y >= -g.offset && y < g.offset
}

func (g *Grid) index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("dungeon: grid coordinate (%d,%d) outside offset %d", x, y, g.offset))
	}
	return (x+g.offset)*g.size + (y + g.offset)
}

// Get returns the room at (x, y) or nil.
func (g *Grid) Get(x, y int) *Room {
	return g.cells[g.index(x, y)]
}

// Set stores r at (x, y); a nil r clears the cell.
func (g *Grid) Set(x, y int, r *Room) {
	g.cells[g.index(x, y)] = r
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, r := range g.cells {
		if r != nil {
			n++
		}
	}
	return n
}
