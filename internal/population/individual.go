// Package population holds evaluated individuals and the MAP-Elites
// archive that keeps the best one per behaviour cell.
package population

import (
	"math"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
)

// InvalidFitness marks individuals that can never become elites.
var InvalidFitness = math.Inf(1)

// Individual is a dungeon plus everything measured about it. Lower fitness
// is better.
type Individual struct {
	Dungeon    *dungeon.Dungeon
	Generation int
	Fitness    float64

	// Fitness breakdown.
	Goal           float64
	EnemySparsity  float64
	EnemyDeviation float64

	NeededLocks       int
	NeededRooms       float64
	LinearCoefficient float64
	Linearity         float64

	// Behaviour descriptors in [0, 1].
	Exploration float64
	Leniency    float64
}

// NewIndividual wraps d, not yet evaluated.
func NewIndividual(d *dungeon.Dungeon, generation int) *Individual {
	return &Individual{Dungeon: d, Generation: generation, Fitness: InvalidFitness}
}

// Valid reports whether the individual has a usable fitness.
func (i *Individual) Valid() bool {
	return !math.IsInf(i.Fitness, 1) && !math.IsNaN(i.Fitness)
}

// Beats reports whether i should replace incumbent: any individual beats
// an empty slot, otherwise strictly lower fitness wins.
func (i *Individual) Beats(incumbent *Individual) bool {
	if incumbent == nil {
		return true
	}
	return i.Fitness < incumbent.Fitness
}

// Clone deep-copies the dungeon and the measurements.
func (i *Individual) Clone() *Individual {
	c := *i
	c.Dungeon = i.Dungeon.Clone()
	return &c
}
