package dungeon

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// Room role odds, in percent, used when missions are (re)assigned.
const (
	ProbNormalRoom = 70
	ProbKeyRoom    = 15
	ProbLockRoom   = 15
)

// AddLockAndKey walks the tree breadth first and turns the first eligible
// normal non-root room into a key, then the next one into the lock it
// opens. Each room is eligible with ProbKeyRoom+ProbLockRoom percent. Small
// trees may end up with a key and no lock.
func (d *Dungeon) AddLockAndKey(rng *rand.Rand) (addedKey, addedLock bool) {
	keyID := 0
	for _, r := range d.Rooms() {
		if r.Index == 0 || r.Type != RoomNormal {
			continue
		}
		if rng.Intn(100) > ProbKeyRoom+ProbLockRoom {
			continue
		}
		if !addedKey {
			r.Type = RoomKey
			r.ID = d.NewID()
			r.KeyToOpen = r.ID
			keyID = r.ID
			addedKey = true
			continue
		}
		r.Type = RoomLocked
		r.KeyToOpen = keyID
		addedLock = true
		break
	}
	d.Fix()
	return addedKey, addedLock
}

// RemoveLockAndKey turns a uniformly chosen key, and the lock it opens if
// any, back into normal rooms. It reports false when there is no key.
func (d *Dungeon) RemoveLockAndKey(rng *rand.Rand) bool {
	keys := d.Keys()
	if len(keys) == 0 {
		return false
	}
	key := keys[rng.Intn(len(keys))]
	keyID := key.ID
	key.Type = RoomNormal
	key.KeyToOpen = 0
	for _, r := range d.Locks() {
		if r.KeyToOpen == keyID {
			r.Type = RoomNormal
			r.KeyToOpen = 0
			break
		}
	}
	d.Fix()
	return true
}

// BranchMissions returns the size of the subtree rooted at arena index i
// and its mission codes (+key id, -key id for locks) in breadth-first
// order.
func (d *Dungeon) BranchMissions(i int) (rooms int, missions []int) {
	for _, r := range d.SubtreeRooms(i) {
		rooms++
		if r.IsMission() {
			missions = append(missions, r.Mission())
		}
	}
	return rooms, missions
}

// FixBranch rewrites the roles inside the subtree at index i so that it
// carries exactly the given missions, in order. A key and lock pair found
// together in missions is renumbered with a fresh id. Rooms become normal
// with ProbNormalRoom percent while there are more rooms left than
// missions; the tail is forced to take the remaining missions. The branch
// must hold at least len(missions) rooms.
//
// Missions keep their breadth-first order but not their ancestry, so a lock
// can end up above its own key. Check the result with Solvable.
func (d *Dungeon) FixBranch(i int, missions []int, rng *rand.Rand) {
	pending := make([]int, len(missions))
	copy(pending, missions)
	for a := 0; a < len(pending)-1; a++ {
		for b := a + 1; b < len(pending); b++ {
			if pending[a] != -pending[b] {
				continue
			}
			id := d.NewID()
			if pending[a] < 0 {
				id = -id
			}
			pending[a], pending[b] = id, -id
		}
	}

	branch := d.SubtreeRooms(i)
	next := 0
	for n, r := range branch {
		remainingRooms := len(branch) - n
		remainingMissions := len(pending) - next
		switch {
		case remainingMissions == 0:
			r.Type = RoomNormal
			r.KeyToOpen = 0
		case remainingRooms > remainingMissions && rng.Intn(100) < ProbNormalRoom:
			r.Type = RoomNormal
			r.KeyToOpen = 0
		default:
			d.assignMission(r, pending[next])
			next++
		}
	}
	d.Fix()
}

func (d *Dungeon) assignMission(r *Room, mission int) {
	if mission > 0 {
		r.Type = RoomKey
		r.ID = mission
		r.KeyToOpen = mission
		return
	}
	r.Type = RoomLocked
	r.KeyToOpen = -mission
}

// Solvable reports whether every room can be reached from the root when
// keys are collected on the way and each lock opens once its key is held.
func (d *Dungeon) Solvable() bool {
	held := mapset.New[int]()
	frontier := []*Room{d.Root()}
	var blocked []*Room
	reached := 0
	for len(frontier) > 0 {
		for len(frontier) > 0 {
			r := frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
			reached++
			if r.Type == RoomKey {
				held.Put(r.ID)
			}
			for _, c := range d.Children(r) {
				if c.Type == RoomLocked && !held.Has(c.KeyToOpen) {
					blocked = append(blocked, c)
					continue
				}
				frontier = append(frontier, c)
			}
		}

		waiting := blocked[:0]
		for _, r := range blocked {
			if held.Has(r.KeyToOpen) {
				frontier = append(frontier, r)
			} else {
				waiting = append(waiting, r)
			}
		}
		blocked = waiting
	}
	return reached == d.RoomCount()
}
