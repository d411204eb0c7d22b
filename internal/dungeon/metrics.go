package dungeon

import "math/rand"

// LinearCoefficient is the mean number of children over non-leaf rooms.
// A lone root yields 0.
func (d *Dungeon) LinearCoefficient() float64 {
	total, leaves, children := 0, 0, 0
	for _, r := range d.Rooms() {
		total++
		n := len(d.Children(r))
		if n == 0 {
			leaves++
		}
		children += n
	}
	if total == leaves {
		return 0
	}
	return float64(children) / float64(total-leaves)
}

// Linearity weights rooms by their neighbour count (parent plus children):
// two neighbours count 1, three count 0.5, four count 0, dead ends are
// ignored. The weighted sum is averaged over non-dead-end rooms.
func (d *Dungeon) Linearity() float64 {
	weights := [5]float64{0, 0, 1, 0.5, 0}
	sum, nonDeadEnd := 0.0, 0
	for _, r := range d.Rooms() {
		n := len(d.Children(r))
		if r.Index != 0 {
			n++
		}
		sum += weights[n]
		if n > 1 {
			nonDeadEnd++
		}
	}
	if nonDeadEnd == 0 {
		return 0
	}
	return sum / float64(nonDeadEnd)
}

// TotalEnemies sums the enemies of every room.
func (d *Dungeon) TotalEnemies() int {
	total := 0
	for _, r := range d.Rooms() {
		total += r.Enemies
	}
	return total
}

// PlaceEnemies adds n enemies to uniformly chosen non-root rooms.
func (d *Dungeon) PlaceEnemies(n int, rng *rand.Rand) {
	rooms := d.Rooms()[1:]
	if len(rooms) == 0 {
		return
	}
	for ; n > 0; n-- {
		rooms[rng.Intn(len(rooms))].Enemies++
	}
}

// FixEnemies brings the enemy total back to target after structural
// changes, removing from or adding to random non-root rooms. The root never
// keeps enemies.
func (d *Dungeon) FixEnemies(target int, rng *rand.Rand) {
	d.Root().Enemies = 0
	total := d.TotalEnemies()
	for total > target {
		var occupied []*Room
		for _, r := range d.Rooms() {
			if r.Enemies > 0 {
				occupied = append(occupied, r)
			}
		}
		occupied[rng.Intn(len(occupied))].Enemies--
		total--
	}
	if total < target {
		d.PlaceEnemies(target-total, rng)
	}
}
