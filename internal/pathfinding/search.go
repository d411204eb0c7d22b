package pathfinding

import (
	"github.com/zyedidia/generic/mapset"
)

// Result summarises one search.
type Result struct {
	// NeededLocks counts locked corridors the search walked through.
	NeededLocks int
	// VisitedRooms counts distinct room cells closed by the search.
	VisitedRooms int
	// Reached is true when the goal room was closed.
	Reached bool
	// Path runs from the entrance to the goal when Reached.
	Path []Location
}

// search is the state shared by A* and DFS: a private copy of the cells
// (locks open as keys are collected), the closed set and the counters.
type search struct {
	m       *Map
	cells   [][]int
	closed  mapset.Set[Location]
	sites   mapset.Set[Location]
	pending []lockSite
	parents map[Location]Location
	result  Result
}

func newSearch(m *Map) *search {
	s := &search{
		m:       m,
		cells:   make([][]int, len(m.cells)),
		closed:  mapset.New[Location](),
		sites:   mapset.New[Location](),
		pending: append([]lockSite(nil), m.locks...),
		parents: make(map[Location]Location),
	}
	for x, col := range m.cells {
		s.cells[x] = append([]int(nil), col...)
	}
	for _, l := range m.locks {
		s.sites.Put(l.at)
	}
	return s
}

func (s *search) at(l Location) int {
	return s.cells[l.X][l.Y]
}

// collectKey opens the corridor matching the key at l, if any. When the
// room in front of that corridor was already closed it is reopened and
// returned so the caller can queue it again.
func (s *search) collectKey(l Location) (Location, bool) {
	code := s.at(l)
	if !IsKey(code) {
		return Location{}, false
	}
	for i, lock := range s.pending {
		if s.at(lock.at) != -code {
			continue
		}
		s.cells[lock.at.X][lock.at.Y] = CellCorridor
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		if !s.closed.Has(lock.parent) {
			return Location{}, false
		}
		s.closed.Remove(lock.parent)
		if IsRoom(s.at(lock.parent)) {
			s.result.VisitedRooms--
		}
		if s.sites.Has(lock.parent) {
			s.result.NeededLocks--
		}
		return lock.parent, true
	}
	return Location{}, false
}

// close marks l as expanded and updates the counters.
func (s *search) close(l Location) {
	s.closed.Put(l)
	if s.sites.Has(l) {
		s.result.NeededLocks++
	}
	if IsRoom(s.at(l)) {
		s.result.VisitedRooms++
	}
}

// neighbours lists walkable cells next to l in up, down, left, right order.
func (s *search) neighbours(l Location) []Location {
	candidates := [4]Location{
		{X: l.X, Y: l.Y - 1},
		{X: l.X, Y: l.Y + 1},
		{X: l.X - 1, Y: l.Y},
		{X: l.X + 1, Y: l.Y},
	}
	out := make([]Location, 0, 4)
	for _, c := range candidates {
		if c.X < 0 || c.Y < 0 || c.X >= s.m.width || c.Y >= s.m.height {
			continue
		}
		if walkable(s.at(c)) {
			out = append(out, c)
		}
	}
	return out
}

func (s *search) isGoal(l Location) bool {
	return s.m.hasGoal && l == s.m.goal
}

func (s *search) finish(reached bool) Result {
	s.result.Reached = reached
	if reached {
		var path []Location
		limit := s.m.width * s.m.height
		for cur := s.m.goal; len(path) <= limit; {
			path = append(path, cur)
			if cur == s.m.start {
				break
			}
			cur = s.parents[cur]
		}
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		s.result.Path = path
	}
	return s.result
}
