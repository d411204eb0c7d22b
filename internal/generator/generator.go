// Package generator grows random dungeon trees for the initial population.
package generator

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
)

// Config contains parameters for tree growth.
type Config struct {
	MaxDepth     int     // Rooms deeper than this never get children
	ProbHasChild float64 // Percent chance for the root to branch; decays linearly with depth
	ProbOneChild float64 // Percent of branching rooms with a single child
	ProbTwoChild float64 // Percent of branching rooms with two children
	Enemies      int     // Enemies scattered over non-root rooms
	ExtraPairs   int     // Upper bound of additional key/lock pairs, drawn uniformly
	GridOffset   int     // Half-width of the collision grid
}

// DefaultConfig mirrors the classic generator tuning.
func DefaultConfig() Config {
	return Config{
		MaxDepth:     20,
		ProbHasChild: 100,
		ProbOneChild: 100.0 / 3,
		ProbTwoChild: 100.0 / 3,
		Enemies:      15,
		GridOffset:   dungeon.DefaultGridOffset,
	}
}

// Generator builds random dungeons from a seeded source.
type Generator struct {
	config Config
	rng    *rand.Rand
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(config Config, rng *rand.Rand) *Generator {
	return &Generator{config: config, rng: rng}
}

// Generate grows a tree, places one key/lock pair plus up to ExtraPairs
// more, then scatters enemies. Identical seeds give identical dungeons.
func (g *Generator) Generate() *dungeon.Dungeon {
	d := dungeon.New(g.config.GridOffset)
	g.growRooms(d)
	d.AddLockAndKey(g.rng)
	if g.config.ExtraPairs > 0 {
		for n := g.rng.Intn(g.config.ExtraPairs + 1); n > 0; n-- {
			d.AddLockAndKey(g.rng)
		}
	}
	d.PlaceEnemies(g.config.Enemies, g.rng)
	return d
}

// growRooms visits rooms breadth first; each may branch with a chance
// that decays linearly from ProbHasChild at the root to zero past MaxDepth.
func (g *Generator) growRooms(d *dungeon.Dungeon) {
	queue := []*dungeon.Room{d.Root()}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Depth > g.config.MaxDepth {
			break
		}

		chance := g.config.ProbHasChild * (1 - float64(cur.Depth)/float64(g.config.MaxDepth+1))
		if chance >= float64(g.rng.Intn(100)) {
			for _, dir := range g.pickDirections() {
				d.InsertChild(cur, dir, d.NewRoom(dungeon.RoomNormal))
			}
		}

		queue = append(queue, d.Children(cur)...)
	}
}

func (g *Generator) pickDirections() []dungeon.Direction {
	first := dungeon.Direction(g.rng.Intn(3))
	roll := float64(g.rng.Intn(100))
	switch {
	case roll < g.config.ProbOneChild:
		return []dungeon.Direction{first}
	case roll < g.config.ProbOneChild+g.config.ProbTwoChild:
		second := first
		for second == first {
			second = dungeon.Direction(g.rng.Intn(3))
		}
		return []dungeon.Direction{first, second}
	default:
		return []dungeon.Direction{dungeon.Right, dungeon.Down, dungeon.Left}
	}
}
