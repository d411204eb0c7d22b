// Package fitness scores dungeons against a designer's target. Lower is
// better.
package fitness

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
	"github.com/lawnchairsociety/dungeonforge/internal/pathfinding"
	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

var (
	ErrNeededLocksExceeded = errors.New("fitness: needed locks exceed total locks")
	ErrNeededRoomsExceeded = errors.New("fitness: needed rooms exceed total rooms")
)

// DefaultDFSRuns is how many random walks are averaged for needed rooms.
const DefaultDFSRuns = 3

// Target is the level the designer asked for.
type Target struct {
	Rooms             int
	Keys              int
	Locks             int
	Enemies           int
	LinearCoefficient float64
}

// Evaluator computes fitness and behaviour descriptors.
type Evaluator struct {
	target  Target
	dfsRuns int
}

// NewEvaluator returns an evaluator for target.
func NewEvaluator(target Target, dfsRuns int) *Evaluator {
	if dfsRuns <= 0 {
		dfsRuns = DefaultDFSRuns
	}
	return &Evaluator{target: target, dfsRuns: dfsRuns}
}

// Evaluate fills in ind's fitness, its breakdown and its descriptors:
//
//	2*(|Δrooms|+|Δkeys|+|Δlocks|+|ΔlinearCoefficient|)
//	  + (0.8*locks - neededLocks) + (rooms - neededRooms)
//	  - enemySparsity + enemyDeviation
//
// Dungeons without keys or without locks get population.InvalidFitness.
// A search that reports more locks or rooms than exist is an error.
func (e *Evaluator) Evaluate(ind *population.Individual, rng *rand.Rand) error {
	d := ind.Dungeon
	rooms, keys, locks := d.RoomCount(), d.KeyCount(), d.LockCount()
	ind.LinearCoefficient = d.LinearCoefficient()
	ind.Linearity = d.Linearity()
	ind.EnemySparsity = EnemySparsity(d)
	ind.EnemyDeviation = EnemyDeviation(d)
	ind.Leniency = Leniency(d)

	if keys == 0 || locks == 0 {
		ind.Fitness = population.InvalidFitness
		ind.Goal = population.InvalidFitness
		ind.NeededLocks, ind.NeededRooms, ind.Exploration = 0, 0, 0
		return nil
	}

	distance := math.Abs(float64(e.target.Rooms-rooms)) +
		math.Abs(float64(e.target.Keys-keys)) +
		math.Abs(float64(e.target.Locks-locks)) +
		math.Abs(e.target.LinearCoefficient-ind.LinearCoefficient)
	fit := 2 * distance

	m, err := pathfinding.NewMap(d)
	if err != nil {
		return fmt.Errorf("fitness: expand dungeon: %w", err)
	}
	needed := pathfinding.AStar(m).NeededLocks
	neededRooms := pathfinding.AverageDFS(m, rng, e.dfsRuns)
	if err := checkSearch(needed, locks, neededRooms, rooms); err != nil {
		return err
	}

	fit += 0.8*float64(locks) - float64(needed)
	fit += float64(rooms) - neededRooms

	ind.NeededLocks = needed
	ind.NeededRooms = neededRooms
	ind.Exploration = neededRooms / float64(rooms)
	ind.Goal = fit
	ind.Fitness = fit - ind.EnemySparsity + ind.EnemyDeviation
	return nil
}

// checkSearch rejects search results that exceed the dungeon they ran on.
func checkSearch(neededLocks, locks int, neededRooms float64, rooms int) error {
	if neededLocks > locks {
		return fmt.Errorf("%w: %d of %d", ErrNeededLocksExceeded, neededLocks, locks)
	}
	if neededRooms > float64(rooms) {
		return fmt.Errorf("%w: %.2f of %d", ErrNeededRoomsExceeded, neededRooms, rooms)
	}
	return nil
}

// EnemySparsity is the mean Manhattan distance of enemies from their
// centroid, halved. Zero without enemies.
func EnemySparsity(d *dungeon.Dungeon) float64 {
	rooms := d.Rooms()
	total := 0
	var cx, cy float64
	for _, r := range rooms {
		total += r.Enemies
		cx += float64(r.X * r.Enemies)
		cy += float64(r.Y * r.Enemies)
	}
	if total == 0 {
		return 0
	}
	cx /= float64(total)
	cy /= float64(total)

	sparsity := 0.0
	for _, r := range rooms {
		spread := math.Abs(float64(r.X)-cx) + math.Abs(float64(r.Y)-cy)
		sparsity += spread * float64(r.Enemies)
	}
	return sparsity / float64(2*total)
}

// EnemyDeviation is the standard deviation of enemies per non-root room.
func EnemyDeviation(d *dungeon.Dungeon) float64 {
	rooms := d.Rooms()[1:]
	if len(rooms) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range rooms {
		mean += float64(r.Enemies)
	}
	mean /= float64(len(rooms))

	variance := 0.0
	for _, r := range rooms {
		diff := float64(r.Enemies) - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(rooms)))
}

// Leniency is the share of rooms without enemies.
func Leniency(d *dungeon.Dungeon) float64 {
	rooms := d.Rooms()
	safe := 0
	for _, r := range rooms {
		if r.Enemies == 0 {
			safe++
		}
	}
	return float64(safe) / float64(len(rooms))
}
