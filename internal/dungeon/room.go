// Package dungeon holds the level representation evolved by the generator:
// a ternary tree of rooms stored as an index arena, mirrored onto a
// coordinate grid so collisions can be detected in constant time.
package dungeon

// RoomType is the gameplay role of a room.
type RoomType int

const (
	RoomNormal RoomType = iota
	RoomKey
	RoomLocked
)

func (t RoomType) String() string {
	switch t {
	case RoomNormal:
		return "normal"
	case RoomKey:
		return "key"
	case RoomLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Direction names a child slot relative to its parent's facing.
type Direction int

const (
	Right Direction = iota
	Down
	Left
)

// ChildDirections lists the child slots in tree order (Left, Down, Right).
var ChildDirections = [3]Direction{Left, Down, Right}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// slot is the arena offset from 3*parent: Left=1, Down=2, Right=3.
func (d Direction) slot() int {
	switch d {
	case Left:
		return 1
	case Down:
		return 2
	default:
		return 3
	}
}

func directionOfSlot(slot int) Direction {
	switch slot {
	case 1:
		return Left
	case 2:
		return Down
	default:
		return Right
	}
}

// Room is a node of the dungeon tree.
type Room struct {
	ID   int
	Type RoomType
	// KeyToOpen is the room's own id for keys, the id of the opening key
	// for locked rooms, and zero otherwise.
	KeyToOpen int
	X, Y      int
	Index     int
	Rotation  int
	// ParentDirection is the slot this room occupies under its parent.
	ParentDirection Direction
	Depth           int
	Enemies         int
}

// IsMission reports whether the room carries a key or a lock.
func (r *Room) IsMission() bool {
	return r.Type == RoomKey || r.Type == RoomLocked
}

// Mission is the signed mission code used by branch bookkeeping: +id for
// a key, -id for a lock, 0 otherwise.
func (r *Room) Mission() int {
	switch r.Type {
	case RoomKey:
		return r.KeyToOpen
	case RoomLocked:
		return -r.KeyToOpen
	default:
		return 0
	}
}

func (r *Room) clone() *Room {
	c := *r
	return &c
}

// childRotation is the facing of every child of a room with rotation r.
func childRotation(r int) int {
	return (r + 90) % 360
}

// offsets[rotation/90][direction] is the grid step from parent to child.
var offsets = [4][3][2]int{
	// Right, Down, Left
	{{1, 0}, {0, -1}, {-1, 0}},
	{{0, 1}, {1, 0}, {0, -1}},
	{{-1, 0}, {0, 1}, {1, 0}},
	{{0, -1}, {-1, 0}, {0, 1}},
}

// ChildPosition returns the grid cell a child in direction d of parent
// would occupy.
func ChildPosition(parent *Room, d Direction) (int, int) {
	step := offsets[(parent.Rotation/90)%4][d]
	return parent.X + step[0], parent.Y + step[1]
}
