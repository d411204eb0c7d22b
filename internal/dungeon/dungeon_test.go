package dungeon

import (
	"errors"
	"math/rand"
	"testing"
)

// growTree fills rooms breadth first, trying every direction, until the
// dungeon holds n rooms or nothing more fits.
func growTree(t *testing.T, n int) *Dungeon {
	t.Helper()
	d := New(DefaultGridOffset)
	queue := []*Room{d.Root()}
	for len(queue) > 0 && d.RoomCount() < n {
		cur := queue[0]
		queue = queue[1:]
		for _, dir := range ChildDirections {
			if d.RoomCount() >= n {
				break
			}
			r := d.NewRoom(RoomNormal)
			if d.InsertChild(cur, dir, r) {
				queue = append(queue, r)
			}
		}
	}
	if d.RoomCount() != n {
		t.Fatalf("growTree: got %d rooms, want %d", d.RoomCount(), n)
	}
	return d
}

func TestNew(t *testing.T) {
	d := New(DefaultGridOffset)
	root := d.Root()

	if root == nil {
		t.Fatal("Root() = nil")
	}
	if root.X != 0 || root.Y != 0 || root.Rotation != 0 || root.Index != 0 {
		t.Errorf("root = %+v, want origin with rotation 0", root)
	}
	if d.RoomCount() != 1 || d.KeyCount() != 0 || d.LockCount() != 0 {
		t.Errorf("counts = %d/%d/%d, want 1/0/0", d.RoomCount(), d.KeyCount(), d.LockCount())
	}
	if d.Grid().Get(0, 0) != root {
		t.Error("root not registered on grid")
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestIndexArithmetic(t *testing.T) {
	tests := []struct {
		parent int
		dir    Direction
		want   int
	}{
		{0, Left, 1},
		{0, Down, 2},
		{0, Right, 3},
		{3, Left, 10},
		{3, Right, 12},
		{Capacity, Left, -1},
	}

	for _, tt := range tests {
		if got := ChildIndex(tt.parent, tt.dir); got != tt.want {
			t.Errorf("ChildIndex(%d, %v) = %d, want %d", tt.parent, tt.dir, got, tt.want)
		}
		if tt.want > 0 && ParentIndex(tt.want) != tt.parent {
			t.Errorf("ParentIndex(%d) = %d, want %d", tt.want, ParentIndex(tt.want), tt.parent)
		}
	}

	if ParentIndex(0) != -1 {
		t.Errorf("ParentIndex(0) = %d, want -1", ParentIndex(0))
	}
	if DepthOf(12) != 2 {
		t.Errorf("DepthOf(12) = %d, want 2", DepthOf(12))
	}
}

func TestChildPosition(t *testing.T) {
	tests := []struct {
		rotation int
		dir      Direction
		x, y     int
	}{
		{0, Right, 1, 0},
		{0, Down, 0, -1},
		{0, Left, -1, 0},
		{90, Right, 0, 1},
		{90, Down, 1, 0},
		{90, Left, 0, -1},
		{180, Right, -1, 0},
		{180, Down, 0, 1},
		{180, Left, 1, 0},
		{270, Right, 0, -1},
		{270, Down, -1, 0},
		{270, Left, 0, 1},
	}

	for _, tt := range tests {
		parent := &Room{Rotation: tt.rotation}
		x, y := ChildPosition(parent, tt.dir)
		if x != tt.x || y != tt.y {
			t.Errorf("rotation %d %v: got (%d,%d), want (%d,%d)", tt.rotation, tt.dir, x, y, tt.x, tt.y)
		}
	}
}

func TestInsertChild(t *testing.T) {
	d := New(DefaultGridOffset)
	a := d.NewRoom(RoomNormal)

	if !d.InsertChild(d.Root(), Right, a) {
		t.Fatal("InsertChild(root, Right) = false")
	}
	if a.X != 1 || a.Y != 0 || a.Rotation != 90 || a.Index != 3 || a.Depth != 1 {
		t.Errorf("child = %+v, want (1,0) rotation 90 index 3 depth 1", a)
	}

	b := d.NewRoom(RoomNormal)
	if !d.InsertChild(a, Right, b) {
		t.Fatal("InsertChild(a, Right) = false")
	}
	if b.X != 1 || b.Y != 1 || b.Rotation != 180 || b.Index != 12 {
		t.Errorf("grandchild = %+v, want (1,1) rotation 180 index 12", b)
	}

	if d.InsertChild(d.Root(), Right, d.NewRoom(RoomNormal)) {
		t.Error("InsertChild succeeded on an occupied slot")
	}
	if d.RoomCount() != 3 {
		t.Errorf("RoomCount() = %d, want 3", d.RoomCount())
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestInsertChildCollision(t *testing.T) {
	d := New(DefaultGridOffset)
	a := d.NewRoom(RoomNormal)
	b := d.NewRoom(RoomNormal)
	c := d.NewRoom(RoomNormal)
	d.InsertChild(d.Root(), Right, a) // (1,0) rotation 90
	d.InsertChild(d.Root(), Down, b)  // (0,-1)
	d.InsertChild(a, Left, c)         // (1,-1) rotation 180

	if d.ValidateChild(c, Right) {
		t.Error("ValidateChild reported (0,-1) free")
	}
	if d.InsertChild(c, Right, d.NewRoom(RoomNormal)) {
		t.Error("InsertChild placed a room on an occupied cell")
	}
	if d.RoomCount() != 4 {
		t.Errorf("RoomCount() = %d, want 4", d.RoomCount())
	}
}

func TestRemoveSubtree(t *testing.T) {
	d := growTree(t, 10)
	right := d.Child(d.Root(), Right)
	size := len(d.SubtreeRooms(right.Index))

	d.RemoveSubtree(right.Index)

	if d.RoomCount() != 10-size {
		t.Errorf("RoomCount() = %d, want %d", d.RoomCount(), 10-size)
	}
	if d.Grid().Count() != d.RoomCount() {
		t.Errorf("grid holds %d rooms, tree holds %d", d.Grid().Count(), d.RoomCount())
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	d.RemoveSubtree(0)
	if d.Root() == nil {
		t.Error("RemoveSubtree(0) removed the root")
	}
}

func TestRefreshGridTruncatesCollisions(t *testing.T) {
	d := New(DefaultGridOffset)
	a := d.NewRoom(RoomNormal)
	b := d.NewRoom(RoomNormal)
	d.InsertChild(d.Root(), Right, a)
	d.InsertChild(d.Root(), Down, b)

	// Unplaced rooms below a: Left lands on (1,-1), its Right child on
	// b's cell (0,-1).
	c := &Room{ID: d.NewID()}
	e := &Room{ID: d.NewID()}
	ci := ChildIndex(a.Index, Left)
	d.rooms[ci] = c
	d.rooms[ChildIndex(ci, Right)] = e

	d.RefreshGrid(ci)
	d.Fix()

	if d.Room(ci) != c || c.X != 1 || c.Y != -1 {
		t.Errorf("c = %+v, want placed at (1,-1)", c)
	}
	if d.Room(ChildIndex(ci, Right)) != nil {
		t.Error("colliding room kept in the tree")
	}
	if d.Grid().Get(0, -1) != b {
		t.Error("collision overwrote the occupied cell")
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestClone(t *testing.T) {
	d := growTree(t, 8)
	rng := rand.New(rand.NewSource(3))
	d.AddLockAndKey(rng)
	d.PlaceEnemies(5, rng)
	c := d.Clone()

	orig, copied := d.Rooms(), c.Rooms()
	if len(orig) != len(copied) {
		t.Fatalf("clone has %d rooms, want %d", len(copied), len(orig))
	}
	for i := range orig {
		o, r := orig[i], copied[i]
		if o == r {
			t.Fatalf("room %d is shared between original and clone", o.ID)
		}
		if *o != *r {
			t.Errorf("room %d: clone = %+v, want %+v", o.ID, *r, *o)
		}
		if got := c.Grid().Get(r.X, r.Y); got != r {
			t.Errorf("clone grid at (%d, %d) = %p, want clone room %p", r.X, r.Y, got, r)
		}
		if r.Index != 0 && c.Parent(r.Index).Index != d.Parent(o.Index).Index {
			t.Errorf("room %d: clone parent %d, want %d", o.ID, c.Parent(r.Index).Index, d.Parent(o.Index).Index)
		}
	}
	if c.KeyCount() != d.KeyCount() || c.LockCount() != d.LockCount() {
		t.Errorf("clone keys/locks = %d/%d, want %d/%d", c.KeyCount(), c.LockCount(), d.KeyCount(), d.LockCount())
	}
	if c.TotalEnemies() != d.TotalEnemies() {
		t.Errorf("clone enemies = %d, want %d", c.TotalEnemies(), d.TotalEnemies())
	}

	victim := c.Child(c.Root(), Left)
	c.RemoveSubtree(victim.Index)
	c.Root().Enemies = 3

	if d.RoomCount() != 8 {
		t.Errorf("original RoomCount() = %d after editing the clone", d.RoomCount())
	}
	if d.Root().Enemies != 0 {
		t.Error("clone shares rooms with the original")
	}
	if err := d.Validate(); err != nil {
		t.Errorf("original Validate() = %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("clone Validate() = %v", err)
	}
}

func TestAddAndRemoveLockAndKey(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		d := growTree(t, 25)
		rng := rand.New(rand.NewSource(seed))
		if _, lock := d.AddLockAndKey(rng); !lock {
			continue
		}

		if d.KeyCount() != 1 || d.LockCount() != 1 {
			t.Fatalf("seed %d: keys/locks = %d/%d, want 1/1", seed, d.KeyCount(), d.LockCount())
		}
		key, lock := d.Keys()[0], d.Locks()[0]
		if lock.KeyToOpen != key.ID || key.KeyToOpen != key.ID {
			t.Errorf("lock opens %d, key id %d", lock.KeyToOpen, key.ID)
		}
		if key.Index == 0 || lock.Index == 0 {
			t.Error("mission placed on the root")
		}
		if err := d.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}

		if !d.RemoveLockAndKey(rng) {
			t.Fatal("RemoveLockAndKey() = false with a key present")
		}
		if d.KeyCount() != 0 || d.LockCount() != 0 {
			t.Errorf("after removal keys/locks = %d/%d, want 0/0", d.KeyCount(), d.LockCount())
		}
		if d.RemoveLockAndKey(rng) {
			t.Error("RemoveLockAndKey() = true without keys")
		}
		return
	}
	t.Fatal("no seed produced a key and lock")
}

func TestBranchMissionsAndFixBranch(t *testing.T) {
	d := growTree(t, 13)
	branch := d.Child(d.Root(), Right)
	size := len(d.SubtreeRooms(branch.Index))
	if size < 2 {
		t.Fatalf("branch too small: %d", size)
	}

	d.FixBranch(branch.Index, []int{5, -5}, rand.New(rand.NewSource(3)))

	rooms, missions := d.BranchMissions(branch.Index)
	if rooms != size {
		t.Errorf("BranchMissions rooms = %d, want %d", rooms, size)
	}
	if len(missions) != 2 || missions[0] <= 0 || missions[1] != -missions[0] {
		t.Fatalf("missions = %v, want a key followed by its lock", missions)
	}
	if missions[0] == 5 {
		t.Error("pair inside the branch kept its old id")
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestFixBranchForcesTail(t *testing.T) {
	d := New(DefaultGridOffset)
	a := d.NewRoom(RoomNormal)
	b := d.NewRoom(RoomNormal)
	d.InsertChild(d.Root(), Right, a)
	d.InsertChild(a, Down, b)

	d.FixBranch(a.Index, []int{7, -7}, rand.New(rand.NewSource(1)))

	if a.Type != RoomKey || b.Type != RoomLocked {
		t.Errorf("types = %v/%v, want key/locked", a.Type, b.Type)
	}
	if b.KeyToOpen != a.ID {
		t.Errorf("lock opens %d, want %d", b.KeyToOpen, a.ID)
	}
}

func TestValidateDanglingLock(t *testing.T) {
	d := growTree(t, 4)
	r := d.Child(d.Root(), Down)
	r.Type = RoomLocked
	r.KeyToOpen = 999
	d.Fix()

	if err := d.Validate(); !errors.Is(err, ErrInconsistent) {
		t.Errorf("Validate() = %v, want ErrInconsistent", err)
	}
}

func TestLinearCoefficient(t *testing.T) {
	if got := New(DefaultGridOffset).LinearCoefficient(); got != 0 {
		t.Errorf("single room LinearCoefficient() = %v, want 0", got)
	}

	d := growTree(t, 4)
	if got := d.LinearCoefficient(); got != 3 {
		t.Errorf("star LinearCoefficient() = %v, want 3", got)
	}
	if got := d.Linearity(); got != 0.5 {
		t.Errorf("star Linearity() = %v, want 0.5", got)
	}
}

func TestEnemies(t *testing.T) {
	d := growTree(t, 10)
	rng := rand.New(rand.NewSource(9))

	d.PlaceEnemies(5, rng)
	if d.TotalEnemies() != 5 || d.Root().Enemies != 0 {
		t.Fatalf("after PlaceEnemies total=%d root=%d", d.TotalEnemies(), d.Root().Enemies)
	}

	d.FixEnemies(2, rng)
	if d.TotalEnemies() != 2 {
		t.Errorf("FixEnemies(2) total = %d", d.TotalEnemies())
	}
	d.FixEnemies(7, rng)
	if d.TotalEnemies() != 7 {
		t.Errorf("FixEnemies(7) total = %d", d.TotalEnemies())
	}
}

func TestGridBounds(t *testing.T) {
	g := NewGrid(2)
	if !g.InBounds(-2, 1) || g.InBounds(2, 0) {
		t.Error("InBounds wrong at the edges")
	}

	defer func() {
		if recover() == nil {
			t.Error("Get outside the grid did not panic")
		}
	}()
	g.Get(5, 0)
}

func TestStringers(t *testing.T) {
	if RoomLocked.String() != "locked" || Down.String() != "down" {
		t.Errorf("String() = %q/%q", RoomLocked.String(), Down.String())
	}
}

func TestGraft(t *testing.T) {
	src := growTree(t, 10)
	dst := growTree(t, 4)
	from := src.Child(src.Root(), Right).Index
	size := len(src.SubtreeRooms(from))

	at := dst.Child(dst.Root(), Left).Index
	dst.RemoveSubtree(at)
	if !dst.Graft(at, src, from) {
		t.Fatal("Graft() = false")
	}

	got := len(dst.SubtreeRooms(at))
	if got == 0 || got > size {
		t.Errorf("grafted %d rooms, source branch had %d", got, size)
	}
	if dst.RoomCount() != 3+got {
		t.Errorf("RoomCount() = %d, want %d", dst.RoomCount(), 3+got)
	}
	if err := dst.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if src.RoomCount() != 10 {
		t.Error("Graft modified the source dungeon")
	}

	if dst.Graft(at, src, from) {
		t.Error("Graft() = true on an occupied slot")
	}
}

func place(t *testing.T, d *Dungeon, parent *Room, dir Direction, r *Room) *Room {
	t.Helper()
	if !d.InsertChild(parent, dir, r) {
		t.Fatalf("room %d does not fit %v of room %d", r.ID, dir, parent.ID)
	}
	return r
}

func keyRoom(d *Dungeon) *Room {
	k := d.NewRoom(RoomKey)
	k.KeyToOpen = k.ID
	return k
}

func lockRoom(d *Dungeon, key *Room) *Room {
	l := d.NewRoom(RoomLocked)
	l.KeyToOpen = key.ID
	return l
}

func TestSolvable(t *testing.T) {
	t.Run("key before lock", func(t *testing.T) {
		d := New(DefaultGridOffset)
		k := place(t, d, d.Root(), Right, keyRoom(d))
		place(t, d, k, Down, lockRoom(d, k))
		if !d.Solvable() {
			t.Error("Solvable() = false, want true")
		}
	})

	t.Run("key in another branch", func(t *testing.T) {
		d := New(DefaultGridOffset)
		kA := keyRoom(d)
		lA := place(t, d, d.Root(), Right, lockRoom(d, kA))
		place(t, d, d.Root(), Left, kA)
		kB := place(t, d, lA, Down, keyRoom(d))
		place(t, d, kB, Down, lockRoom(d, kB))
		if !d.Solvable() {
			t.Error("Solvable() = false, want true")
		}
	})

	t.Run("key behind its own lock", func(t *testing.T) {
		d := New(DefaultGridOffset)
		k := keyRoom(d)
		l := place(t, d, d.Root(), Right, lockRoom(d, k))
		place(t, d, l, Down, k)
		if d.Solvable() {
			t.Error("Solvable() = true, want false")
		}
	})

	t.Run("two locks guarding each other's keys", func(t *testing.T) {
		d := New(DefaultGridOffset)
		kA, kB := keyRoom(d), keyRoom(d)
		lA := place(t, d, d.Root(), Right, lockRoom(d, kA))
		lB := place(t, d, d.Root(), Left, lockRoom(d, kB))
		place(t, d, lA, Down, kB)
		place(t, d, lB, Left, kA)
		if d.Solvable() {
			t.Error("Solvable() = true, want false")
		}
	})
}

func TestAddLockAndKeyKeepsSolvable(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		d := growTree(t, 25)
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < 4; i++ {
			d.AddLockAndKey(rng)
		}
		if !d.Solvable() {
			t.Fatalf("seed %d: dungeon with %d keys and %d locks is not solvable", seed, d.KeyCount(), d.LockCount())
		}
	}
}
