package population

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// ErrNotEnoughElites is returned when a tournament needs more competitors
// than the archive holds.
var ErrNotEnoughElites = errors.New("population: not enough elites for tournament")

// Elite is an occupied archive cell.
type Elite struct {
	X, Y       int
	Individual *Individual
}

// Archive is a 2-D grid keeping at most one individual per cell.
type Archive struct {
	desc   Descriptor
	width  int
	height int
	cells  []*Individual
	count  int
}

// NewArchive creates an empty archive shaped by desc.
func NewArchive(desc Descriptor) *Archive {
	w, h := desc.Dimensions()
	return &Archive{desc: desc, width: w, height: h, cells: make([]*Individual, w*h)}
}

func (a *Archive) Descriptor() Descriptor { return a.desc }

// Count is the number of occupied cells.
func (a *Archive) Count() int { return a.count }

// At returns the elite at (x, y) or nil.
func (a *Archive) At(x, y int) *Individual {
	if x < 0 || y < 0 || x >= a.width || y >= a.height {
		return nil
	}
	return a.cells[x*a.height+y]
}

// Place files ind into its cell when the cell is empty or ind has strictly
// lower fitness than the incumbent. Invalid individuals and those outside
// the grid are discarded.
func (a *Archive) Place(ind *Individual) bool {
	if !ind.Valid() {
		return false
	}
	x, y := a.desc.Cell(ind)
	if x < 0 || y < 0 || x >= a.width || y >= a.height {
		return false
	}
	slot := &a.cells[x*a.height+y]
	if !ind.Beats(*slot) {
		return false
	}
	if *slot == nil {
		a.count++
	}
	*slot = ind
	return true
}

// Elites lists occupied cells in row-major order.
func (a *Archive) Elites() []Elite {
	out := make([]Elite, 0, a.count)
	for x := 0; x < a.width; x++ {
		for y := 0; y < a.height; y++ {
			if ind := a.cells[x*a.height+y]; ind != nil {
				out = append(out, Elite{X: x, Y: y, Individual: ind})
			}
		}
	}
	return out
}

// TournamentSelect runs amount tournaments. Each draws k distinct elites
// uniformly and keeps the fittest; on ties the first drawn wins.
func (a *Archive) TournamentSelect(k, amount int, rng *rand.Rand) ([]*Individual, error) {
	elites := a.Elites()
	if k < 1 || len(elites) < k {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughElites, k, len(elites))
	}

	winners := make([]*Individual, 0, amount)
	for n := 0; n < amount; n++ {
		drawn := mapset.New[int]()
		var best *Individual
		for drawn.Size() < k {
			i := rng.Intn(len(elites))
			if drawn.Has(i) {
				continue
			}
			drawn.Put(i)
			if c := elites[i].Individual; c.Beats(best) {
				best = c
			}
		}
		winners = append(winners, best)
	}
	return winners, nil
}
