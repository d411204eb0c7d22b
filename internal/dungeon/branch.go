package dungeon

// Graft copies the subtree rooted at index from of src into the empty slot
// at of d, then places it on d's grid. Copied rooms get fresh ids from d
// but keep their roles, so BranchMissions still reports what was carried
// over until FixBranch rewrites it. Rooms whose slot would pass Capacity or
// whose cell is taken are dropped. It reports false when the slot is
// occupied or has no parent.
func (d *Dungeon) Graft(at int, src *Dungeon, from int) bool {
	if at <= 0 || d.Room(at) != nil || d.Parent(at) == nil || src.Room(from) == nil {
		return false
	}

	type pair struct{ src, dst int }
	queue := []pair{{from, at}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		r := src.Room(p.src)
		if r == nil {
			continue
		}
		c := r.clone()
		c.ID = d.NewID()
		c.Index = p.dst
		d.rooms[p.dst] = c
		for _, dir := range ChildDirections {
			s, t := ChildIndex(p.src, dir), ChildIndex(p.dst, dir)
			if s < 0 || t < 0 {
				continue
			}
			queue = append(queue, pair{s, t})
		}
	}

	d.RefreshGrid(at)
	d.Fix()
	return true
}
