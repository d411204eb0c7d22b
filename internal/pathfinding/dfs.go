package pathfinding

import "math/rand"

// DFS explores depth first from the entrance in random neighbour order,
// leaving the way back towards the parent for last, until the goal room is
// expanded. Keys open locks as in AStar. VisitedRooms estimates how much of
// the dungeon a player wanders through.
func DFS(m *Map, rng *rand.Rand) Result {
	if !m.hasGoal {
		return Result{}
	}
	s := newSearch(m)

	// stack top is the last element
	stack := []Location{m.start}
	queued := map[Location]bool{m.start: true}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(queued, cur)
		if s.closed.Has(cur) {
			continue
		}

		if room, reopened := s.collectKey(cur); reopened && !queued[room] {
			stack = append([]Location{room}, stack...)
			queued[room] = true
		}
		s.close(cur)
		if s.isGoal(cur) {
			return s.finish(true)
		}

		adj := s.neighbours(cur)
		rng.Shuffle(len(adj), func(i, j int) { adj[i], adj[j] = adj[j], adj[i] })
		if parent, ok := s.parents[cur]; ok {
			for i, a := range adj {
				if a == parent {
					adj = append(append(adj[:i:i], adj[i+1:]...), parent)
					break
				}
			}
		}

		// push in reverse so adj[0] is expanded first
		for i := len(adj) - 1; i >= 0; i-- {
			a := adj[i]
			if s.closed.Has(a) || queued[a] {
				continue
			}
			s.parents[a] = cur
			stack = append(stack, a)
			queued[a] = true
		}
	}
	return s.finish(false)
}

// AverageDFS runs DFS runs times and averages the visited room counts.
func AverageDFS(m *Map, rng *rand.Rand, runs int) float64 {
	if runs <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < runs; i++ {
		total += DFS(m, rng).VisitedRooms
	}
	return float64(total) / float64(runs)
}
