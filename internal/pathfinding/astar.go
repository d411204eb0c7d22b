package pathfinding

import (
	"github.com/zyedidia/generic/heap"
)

type node struct {
	at  Location
	g   int
	f   int
	seq int
}

// AStar searches from the entrance to the goal with a Manhattan heuristic.
// Collecting a key opens the matching locked corridor for the rest of the
// search, reopening the room in front of it if it was already expanded.
// NeededLocks is the number of locked corridors on the way. A dungeon
// without a goal yields an empty Result.
func AStar(m *Map) Result {
	if !m.hasGoal {
		return Result{}
	}
	s := newSearch(m)

	seq := 0
	open := heap.New[node](func(a, b node) bool {
		if a.f != b.f {
			return a.f < b.f
		}
		return a.seq < b.seq
	})
	best := make(map[Location]int)
	settled := make(map[Location]int)
	push := func(at Location, g int) {
		seq++
		best[at] = g
		open.Push(node{at: at, g: g, f: g + manhattan(at, m.goal), seq: seq})
	}

	push(m.start, 0)
	for open.Size() > 0 {
		n, _ := open.Pop()
		if s.closed.Has(n.at) || best[n.at] != n.g {
			continue
		}
		delete(best, n.at)

		if room, reopened := s.collectKey(n.at); reopened {
			push(room, settled[room])
		}
		s.close(n.at)
		settled[n.at] = n.g
		if s.isGoal(n.at) {
			return s.finish(true)
		}

		for _, adj := range s.neighbours(n.at) {
			if s.closed.Has(adj) {
				continue
			}
			g := n.g + 1
			if old, ok := best[adj]; ok && old <= g {
				continue
			}
			s.parents[adj] = n.at
			push(adj, g)
		}
	}
	return s.finish(false)
}

func manhattan(a, b Location) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
