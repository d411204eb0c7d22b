// Package crossover exchanges branches between two dungeons while keeping
// each offspring's key/lock pairs intact.
package crossover

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
)

// DefaultAttempts bounds how many cut points are tried before giving up.
const DefaultAttempts = 20

// Result holds the two offspring. Applied is false when no compatible cut
// points were found; the offspring are then plain copies of the parents.
type Result struct {
	First    *dungeon.Dungeon
	Second   *dungeon.Dungeon
	Applied  bool
	Attempts int
}

// cut is a candidate branch: its root slot, size and mission codes.
type cut struct {
	index    int
	rooms    int
	missions []int
}

// Apply crosses a and b. Neither parent is modified.
//
// Each attempt draws a random non-root cut in a, then samples cuts in b
// without repetition until one can host a's missions and vice versa. The
// branches are swapped and re-placed on the grids; collisions truncate the
// incoming branch. If truncation lost mission rooms or left a branch too
// small for the missions it must carry, the attempt is discarded.
// Otherwise each branch is rewritten to carry the missions of the branch it
// replaced; an attempt that leaves a lock unopenable is discarded too.
func Apply(a, b *dungeon.Dungeon, rng *rand.Rand, attempts int) Result {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	roomsA, roomsB := a.Rooms()[1:], b.Rooms()[1:]
	if len(roomsA) == 0 || len(roomsB) == 0 {
		return Result{First: a.Clone(), Second: b.Clone()}
	}

	for n := 1; n <= attempts; n++ {
		cutA := branchAt(a, roomsA[rng.Intn(len(roomsA))].Index)
		cutB, ok := findPartner(b, roomsB, cutA, rng)
		if !ok {
			continue
		}

		first, second := a.Clone(), b.Clone()
		first.RemoveSubtree(cutA.index)
		second.RemoveSubtree(cutB.index)
		first.Graft(cutA.index, b, cutB.index)
		second.Graft(cutB.index, a, cutA.index)

		if !fits(first, cutA, cutB) || !fits(second, cutB, cutA) {
			continue
		}

		first.FixBranch(cutA.index, cutA.missions, rng)
		second.FixBranch(cutB.index, cutB.missions, rng)
		if !first.Solvable() || !second.Solvable() {
			continue
		}
		return Result{First: first, Second: second, Applied: true, Attempts: n}
	}

	return Result{First: a.Clone(), Second: b.Clone(), Attempts: attempts}
}

func branchAt(d *dungeon.Dungeon, index int) cut {
	rooms, missions := d.BranchMissions(index)
	return cut{index: index, rooms: rooms, missions: missions}
}

// findPartner samples cut points of b, never repeating one, until a branch
// is found whose missions fit in want and which can host want's missions.
func findPartner(b *dungeon.Dungeon, candidates []*dungeon.Room, want cut, rng *rand.Rand) (cut, bool) {
	tabu := mapset.New[int]()
	for tabu.Size() < len(candidates) {
		r := candidates[rng.Intn(len(candidates))]
		if tabu.Has(r.Index) {
			continue
		}
		tabu.Put(r.Index)

		c := branchAt(b, r.Index)
		if len(c.missions) <= want.rooms && len(want.missions) <= c.rooms {
			return c, true
		}
	}
	return cut{}, false
}

// fits checks the branch now sitting at own.index of d: it must still carry
// every mission room of incoming and be large enough to take own's
// missions.
func fits(d *dungeon.Dungeon, own, incoming cut) bool {
	rooms, missions := d.BranchMissions(own.index)
	return len(missions) == len(incoming.missions) && rooms >= len(own.missions)
}
