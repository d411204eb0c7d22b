package dungeon

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Capacity is the number of arena slots. A room at index p has its
// children at 3p+1 (Left), 3p+2 (Down) and 3p+3 (Right); children that
// would fall past Capacity are never created.
const Capacity = 15*15*15 + 1

// ErrInconsistent reports a structural invariant violation.
var ErrInconsistent = errors.New("dungeon: inconsistent structure")

// Dungeon is a rooted ternary tree of rooms plus the grid mirroring their
// positions. The root always sits at (0,0) with rotation 0.
type Dungeon struct {
	rooms  []*Room
	grid   *Grid
	nextID int

	roomCount int
	keyCount  int
	lockCount int
}

// New returns a dungeon holding only its root room.
func New(gridOffset int) *Dungeon {
	d := &Dungeon{
		rooms: make([]*Room, Capacity),
		grid:  NewGrid(gridOffset),
	}
	root := &Room{ID: d.NewID(), Type: RoomNormal, ParentDirection: Right}
	d.rooms[0] = root
	d.grid.Set(0, 0, root)
	d.Fix()
	return d
}

// NewID hands out the next room id of this dungeon.
func (d *Dungeon) NewID() int {
	d.nextID++
	return d.nextID
}

// NewRoom allocates an unplaced room with a fresh id.
func (d *Dungeon) NewRoom(t RoomType) *Room {
	return &Room{ID: d.NewID(), Type: t}
}

func (d *Dungeon) Root() *Room { return d.rooms[0] }

func (d *Dungeon) Grid() *Grid { return d.grid }

func (d *Dungeon) RoomCount() int { return d.roomCount }

func (d *Dungeon) KeyCount() int { return d.keyCount }

func (d *Dungeon) LockCount() int { return d.lockCount }

// Room returns the room stored at arena index i, or nil.
func (d *Dungeon) Room(i int) *Room {
	if i < 0 || i >= Capacity {
		return nil
	}
	return d.rooms[i]
}

// ChildIndex returns the arena slot of parent's child in direction dir, or
// -1 when it would exceed Capacity.
func ChildIndex(parent int, dir Direction) int {
	c := 3*parent + dir.slot()
	if c >= Capacity {
		return -1
	}
	return c
}

// ParentIndex returns the arena slot of i's parent, or -1 for the root.
func ParentIndex(i int) int {
	if i <= 0 {
		return -1
	}
	return (i - 1) / 3
}

// DepthOf is the tree depth implied by an arena index.
func DepthOf(i int) int {
	depth := 0
	for i > 0 {
		i = ParentIndex(i)
		depth++
	}
	return depth
}

// Parent returns the parent of the room at index i.
func (d *Dungeon) Parent(i int) *Room {
	return d.Room(ParentIndex(i))
}

// Child returns the child of parent in direction dir, or nil.
func (d *Dungeon) Child(parent *Room, dir Direction) *Room {
	return d.Room(ChildIndex(parent.Index, dir))
}

// Children returns the present children of r in Left, Down, Right order.
func (d *Dungeon) Children(r *Room) []*Room {
	var out []*Room
	for _, dir := range ChildDirections {
		if c := d.Child(r, dir); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ValidateChild reports whether the cell a new child of parent would take
// in direction dir is free.
func (d *Dungeon) ValidateChild(parent *Room, dir Direction) bool {
	x, y := ChildPosition(parent, dir)
	return d.grid.Get(x, y) == nil
}

// InsertChild places room under parent in direction dir. It returns false,
// leaving the dungeon untouched, when the slot is taken, past Capacity or
// the target cell is occupied.
func (d *Dungeon) InsertChild(parent *Room, dir Direction, room *Room) bool {
	idx := ChildIndex(parent.Index, dir)
	if idx < 0 || d.rooms[idx] != nil || !d.ValidateChild(parent, dir) {
		return false
	}
	d.attach(parent, dir, idx, room)
	d.roomCount++
	switch room.Type {
	case RoomKey:
		d.keyCount++
	case RoomLocked:
		d.lockCount++
	}
	return true
}

func (d *Dungeon) attach(parent *Room, dir Direction, idx int, room *Room) {
	room.X, room.Y = ChildPosition(parent, dir)
	room.Index = idx
	room.Rotation = childRotation(parent.Rotation)
	room.ParentDirection = dir
	room.Depth = parent.Depth + 1
	d.rooms[idx] = room
	d.grid.Set(room.X, room.Y, room)
}

// RemoveSubtree deletes the room at index i and all its descendants from
// both the tree and the grid. Counts are refreshed.
func (d *Dungeon) RemoveSubtree(i int) {
	if i <= 0 {
		return
	}
	d.eachInSubtree(i, func(r *Room) {
		if d.grid.Get(r.X, r.Y) == r {
			d.grid.Set(r.X, r.Y, nil)
		}
	})
	d.dropSubtree(i)
	d.Fix()
}

// dropSubtree clears arena slots only.
func (d *Dungeon) dropSubtree(i int) {
	queue := []int{i}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur < 0 || d.rooms[cur] == nil {
			continue
		}
		d.rooms[cur] = nil
		for _, dir := range ChildDirections {
			queue = append(queue, ChildIndex(cur, dir))
		}
	}
}

// eachInSubtree visits the subtree rooted at arena index i breadth first.
func (d *Dungeon) eachInSubtree(i int, fn func(*Room)) {
	queue := []int{i}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		r := d.Room(cur)
		if r == nil {
			continue
		}
		fn(r)
		for _, dir := range ChildDirections {
			if c := ChildIndex(cur, dir); c >= 0 {
				queue = append(queue, c)
			}
		}
	}
}

// SubtreeRooms lists the subtree at index i in breadth-first order.
func (d *Dungeon) SubtreeRooms(i int) []*Room {
	var out []*Room
	d.eachInSubtree(i, func(r *Room) { out = append(out, r) })
	return out
}

// RefreshGrid re-places the room at arena index i next to its parent and
// then its descendants. The rooms must not be on the grid yet. A room whose
// cell is taken is dropped together with its subtree.
func (d *Dungeon) RefreshGrid(i int) {
	r := d.Room(i)
	parent := d.Parent(i)
	if r == nil || parent == nil {
		return
	}
	dir := directionOfSlot(i - 3*parent.Index)
	x, y := ChildPosition(parent, dir)
	if d.grid.Get(x, y) != nil {
		d.dropSubtree(i)
		return
	}
	d.attach(parent, dir, i, r)
	for _, cd := range ChildDirections {
		if c := ChildIndex(i, cd); c >= 0 && d.rooms[c] != nil {
			d.RefreshGrid(c)
		}
	}
}

// Fix drops orphaned slots and recounts rooms, keys and locks.
func (d *Dungeon) Fix() {
	for i := 1; i < Capacity; i++ {
		r := d.rooms[i]
		if r == nil || d.rooms[ParentIndex(i)] != nil {
			continue
		}
		if d.grid.Get(r.X, r.Y) == r {
			d.grid.Set(r.X, r.Y, nil)
		}
		d.rooms[i] = nil
	}
	d.roomCount, d.keyCount, d.lockCount = 0, 0, 0
	for _, r := range d.Rooms() {
		d.roomCount++
		switch r.Type {
		case RoomKey:
			d.keyCount++
		case RoomLocked:
			d.lockCount++
		}
	}
}

// Rooms lists every room breadth first from the root.
func (d *Dungeon) Rooms() []*Room {
	return d.SubtreeRooms(0)
}

// Keys lists the key rooms in breadth-first order.
func (d *Dungeon) Keys() []*Room {
	return d.roomsOfType(RoomKey)
}

// Locks lists the locked rooms in breadth-first order.
func (d *Dungeon) Locks() []*Room {
	return d.roomsOfType(RoomLocked)
}

func (d *Dungeon) roomsOfType(t RoomType) []*Room {
	var out []*Room
	for _, r := range d.Rooms() {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// Clone returns a deep copy sharing no rooms with d.
func (d *Dungeon) Clone() *Dungeon {
	c := &Dungeon{
		rooms:     make([]*Room, Capacity),
		grid:      NewGrid(d.grid.offset),
		nextID:    d.nextID,
		roomCount: d.roomCount,
		keyCount:  d.keyCount,
		lockCount: d.lockCount,
	}
	for i, r := range d.rooms {
		if r == nil {
			continue
		}
		cr := r.clone()
		c.rooms[i] = cr
		if d.grid.Get(r.X, r.Y) == r {
			c.grid.Set(cr.X, cr.Y, cr)
		}
	}
	return c
}

// Validate checks the tree, grid and key/lock invariants.
func (d *Dungeon) Validate() error {
	root := d.Root()
	if root == nil {
		return fmt.Errorf("%w: missing root", ErrInconsistent)
	}
	if root.X != 0 || root.Y != 0 || root.Rotation != 0 {
		return fmt.Errorf("%w: root at (%d,%d) rotation %d", ErrInconsistent, root.X, root.Y, root.Rotation)
	}

	rooms := d.Rooms()
	keyIDs := mapset.New[int]()
	ids := mapset.New[int]()
	keys, locks := 0, 0
	for _, r := range rooms {
		if d.rooms[r.Index] != r {
			return fmt.Errorf("%w: room %d stored at wrong index %d", ErrInconsistent, r.ID, r.Index)
		}
		if ids.Has(r.ID) {
			return fmt.Errorf("%w: duplicate room id %d", ErrInconsistent, r.ID)
		}
		ids.Put(r.ID)
		if d.grid.Get(r.X, r.Y) != r {
			return fmt.Errorf("%w: room %d not on grid at (%d,%d)", ErrInconsistent, r.ID, r.X, r.Y)
		}
		if parent := d.Parent(r.Index); parent != nil {
			x, y := ChildPosition(parent, r.ParentDirection)
			if x != r.X || y != r.Y || r.Rotation != childRotation(parent.Rotation) {
				return fmt.Errorf("%w: room %d misplaced relative to parent %d", ErrInconsistent, r.ID, parent.ID)
			}
		}
		if r.Type == RoomKey {
			if r.KeyToOpen != r.ID {
				return fmt.Errorf("%w: key room %d opens %d", ErrInconsistent, r.ID, r.KeyToOpen)
			}
			keyIDs.Put(r.ID)
			keys++
		}
	}
	for _, r := range rooms {
		if r.Type != RoomLocked {
			continue
		}
		locks++
		if !keyIDs.Has(r.KeyToOpen) {
			return fmt.Errorf("%w: locked room %d needs missing key %d", ErrInconsistent, r.ID, r.KeyToOpen)
		}
	}

	if n := d.grid.Count(); n != len(rooms) {
		return fmt.Errorf("%w: grid holds %d rooms, tree holds %d", ErrInconsistent, n, len(rooms))
	}
	if len(rooms) != d.roomCount || keys != d.keyCount || locks != d.lockCount {
		return fmt.Errorf("%w: stale counts %d/%d/%d, actual %d/%d/%d", ErrInconsistent,
			d.roomCount, d.keyCount, d.lockCount, len(rooms), keys, locks)
	}
	return nil
}
