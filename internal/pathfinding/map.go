// Package pathfinding measures how a dungeon plays: it lays the tree out on
// a grid with corridors between rooms and runs lock-aware searches from the
// entrance to the goal room.
package pathfinding

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
)

// Cell codes. Key rooms hold their key index plus one (1..99) and locked
// corridors hold the negated code of the key opening them.
const (
	CellNormal   = 0
	CellCorridor = 100
	CellEmpty    = 101
	CellGoal     = 102
)

var (
	ErrMissingKey  = errors.New("pathfinding: locked room has no matching key")
	ErrTooManyKeys = errors.New("pathfinding: key codes exhausted")
)

// Location is a cell of the expanded map.
type Location struct {
	X, Y int
}

// lockSite is a locked corridor and the parent-side room it hangs off.
type lockSite struct {
	at     Location
	parent Location
	code   int
}

// Map is the expanded grid: room (x, y) sits at (2(x-minX), 2(y-minY)) and
// the corridor to its parent sits halfway between the two rooms.
type Map struct {
	cells   [][]int
	width   int
	height  int
	minX    int
	minY    int
	start   Location
	goal    Location
	hasGoal bool
	locks   []lockSite
}

// NewMap lays out d. The goal is the locked room whose key was created
// last; a dungeon without locks has no goal.
func NewMap(d *dungeon.Dungeon) (*Map, error) {
	rooms := d.Rooms()
	minX, minY, maxX, maxY := 0, 0, 0, 0
	for _, r := range rooms {
		minX, maxX = min(minX, r.X), max(maxX, r.X)
		minY, maxY = min(minY, r.Y), max(maxY, r.Y)
	}

	keys := d.Keys()
	if len(keys) >= CellCorridor {
		return nil, fmt.Errorf("%w: %d keys", ErrTooManyKeys, len(keys))
	}
	keyCode := make(map[int]int, len(keys))
	for i, k := range keys {
		keyCode[k.ID] = i + 1
	}

	var goalRoom *dungeon.Room
	for _, l := range d.Locks() {
		if goalRoom == nil || l.KeyToOpen > goalRoom.KeyToOpen {
			goalRoom = l
		}
	}

	m := &Map{
		width:  2 * (maxX - minX + 1),
		height: 2 * (maxY - minY + 1),
		minX:   minX,
		minY:   minY,
	}
	m.cells = make([][]int, m.width)
	for x := range m.cells {
		m.cells[x] = make([]int, m.height)
		for y := range m.cells[x] {
			m.cells[x][y] = CellEmpty
		}
	}
	m.start = m.RoomCell(d.Root())

	for _, r := range rooms {
		at := m.RoomCell(r)
		switch {
		case r.Type == dungeon.RoomKey:
			m.cells[at.X][at.Y] = keyCode[r.ID]
		case r == goalRoom:
			m.cells[at.X][at.Y] = CellGoal
			m.goal = at
			m.hasGoal = true
		default:
			m.cells[at.X][at.Y] = CellNormal
		}

		parent := d.Parent(r.Index)
		if parent == nil {
			continue
		}
		pc := m.RoomCell(parent)
		corridor := Location{X: (at.X + pc.X) / 2, Y: (at.Y + pc.Y) / 2}
		if r.Type != dungeon.RoomLocked {
			m.cells[corridor.X][corridor.Y] = CellCorridor
			continue
		}
		code, ok := keyCode[r.KeyToOpen]
		if !ok {
			return nil, fmt.Errorf("%w: room %d needs key %d", ErrMissingKey, r.ID, r.KeyToOpen)
		}
		m.cells[corridor.X][corridor.Y] = -code
		m.locks = append(m.locks, lockSite{at: corridor, parent: pc, code: code})
	}
	return m, nil
}

// RoomCell maps a room to its cell on the expanded grid.
func (m *Map) RoomCell(r *dungeon.Room) Location {
	return Location{X: 2 * (r.X - m.minX), Y: 2 * (r.Y - m.minY)}
}

func (m *Map) Width() int { return m.width }

func (m *Map) Height() int { return m.height }

// Start is the entrance (root room) cell.
func (m *Map) Start() Location { return m.start }

// Goal returns the goal cell and whether the dungeon has one.
func (m *Map) Goal() (Location, bool) { return m.goal, m.hasGoal }

// At returns the code at (x, y), CellEmpty outside the map.
func (m *Map) At(x, y int) int {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return CellEmpty
	}
	return m.cells[x][y]
}

// LockCount is the number of locked corridors.
func (m *Map) LockCount() int { return len(m.locks) }

// IsRoom reports whether code marks a room cell.
func IsRoom(code int) bool {
	return (code >= CellNormal && code < CellCorridor) || code == CellGoal
}

// IsKey reports whether code marks a key room.
func IsKey(code int) bool {
	return code > CellNormal && code < CellCorridor
}

func walkable(code int) bool {
	return code >= CellNormal && code != CellEmpty
}
