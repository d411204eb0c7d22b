package fitness

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
	"github.com/lawnchairsociety/dungeonforge/internal/generator"
	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

// chain builds root -> key (1,0) -> locked goal (2,0).
func chain(t *testing.T) (*dungeon.Dungeon, *dungeon.Room, *dungeon.Room) {
	t.Helper()
	d := dungeon.New(dungeon.DefaultGridOffset)
	k := d.NewRoom(dungeon.RoomKey)
	k.KeyToOpen = k.ID
	l := d.NewRoom(dungeon.RoomLocked)
	l.KeyToOpen = k.ID
	if !d.InsertChild(d.Root(), dungeon.Right, k) || !d.InsertChild(k, dungeon.Down, l) {
		t.Fatal("chain layout collided")
	}
	return d, k, l
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluateExactTarget(t *testing.T) {
	d, _, _ := chain(t)
	ind := population.NewIndividual(d, 0)
	e := NewEvaluator(Target{Rooms: 3, Keys: 1, Locks: 1, LinearCoefficient: 1}, 3)

	if err := e.Evaluate(ind, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if ind.NeededLocks != 1 {
		t.Errorf("NeededLocks = %d, want 1", ind.NeededLocks)
	}
	if ind.NeededRooms != 3 {
		t.Errorf("NeededRooms = %v, want 3", ind.NeededRooms)
	}
	if !near(ind.Fitness, 0.8-1) {
		t.Errorf("Fitness = %v, want -0.2", ind.Fitness)
	}
	if !near(ind.Goal, ind.Fitness) {
		t.Errorf("Goal = %v, want %v without enemies", ind.Goal, ind.Fitness)
	}
	if ind.Linearity != 1 {
		t.Errorf("Linearity = %v, want 1", ind.Linearity)
	}
	if ind.Exploration != 1 || ind.Leniency != 1 {
		t.Errorf("descriptors = %v/%v, want 1/1", ind.Exploration, ind.Leniency)
	}
	if !ind.Valid() {
		t.Error("evaluated individual reported invalid")
	}
}

func TestEvaluateDistance(t *testing.T) {
	d, _, _ := chain(t)
	ind := population.NewIndividual(d, 0)
	e := NewEvaluator(Target{Rooms: 5, Keys: 2, Locks: 1, LinearCoefficient: 1.5}, 3)

	if err := e.Evaluate(ind, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// 2*(2+1+0+0.5) + (0.8-1) + (3-3)
	if !near(ind.Fitness, 6.8) {
		t.Errorf("Fitness = %v, want 6.8", ind.Fitness)
	}
}

func TestEvaluateWithoutLocks(t *testing.T) {
	d := dungeon.New(dungeon.DefaultGridOffset)
	d.InsertChild(d.Root(), dungeon.Left, d.NewRoom(dungeon.RoomNormal))
	ind := population.NewIndividual(d, 0)

	if err := NewEvaluator(Target{Rooms: 2}, 0).Evaluate(ind, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ind.Valid() || ind.Fitness != population.InvalidFitness {
		t.Errorf("Fitness = %v, want the invalid sentinel", ind.Fitness)
	}
}

func TestEnemyTerms(t *testing.T) {
	d, k, l := chain(t)

	k.Enemies, l.Enemies = 1, 1
	if got := EnemySparsity(d); !near(got, 0.25) {
		t.Errorf("spread EnemySparsity = %v, want 0.25", got)
	}
	if got := EnemyDeviation(d); got != 0 {
		t.Errorf("even EnemyDeviation = %v, want 0", got)
	}

	k.Enemies, l.Enemies = 2, 0
	if got := EnemySparsity(d); got != 0 {
		t.Errorf("clustered EnemySparsity = %v, want 0", got)
	}
	if got := EnemyDeviation(d); !near(got, 1) {
		t.Errorf("uneven EnemyDeviation = %v, want 1", got)
	}
	if got := Leniency(d); !near(got, 2.0/3) {
		t.Errorf("Leniency = %v, want 2/3", got)
	}

	k.Enemies = 0
	if EnemySparsity(d) != 0 {
		t.Error("EnemySparsity without enemies should be 0")
	}
}

func TestEvaluateGenerated(t *testing.T) {
	e := NewEvaluator(Target{Rooms: 20, Keys: 4, Locks: 4, Enemies: 15, LinearCoefficient: 1.5}, DefaultDFSRuns)
	cfg := generator.DefaultConfig()
	cfg.ExtraPairs = 2

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		ind := population.NewIndividual(generator.NewGenerator(cfg, rng).Generate(), 0)
		if err := e.Evaluate(ind, rng); err != nil {
			t.Fatalf("seed %d: Evaluate: %v", seed, err)
		}
		if ind.Dungeon.LockCount() == 0 {
			if ind.Valid() {
				t.Errorf("seed %d: lockless dungeon got fitness %v", seed, ind.Fitness)
			}
			continue
		}
		if math.IsNaN(ind.Fitness) || ind.Exploration > 1 {
			t.Errorf("seed %d: fitness %v exploration %v", seed, ind.Fitness, ind.Exploration)
		}
	}
}

func TestCheckSearch(t *testing.T) {
	tests := []struct {
		name        string
		neededLocks int
		locks       int
		neededRooms float64
		rooms       int
		want        error
	}{
		{"within bounds", 2, 3, 10, 12, nil},
		{"at bounds", 3, 3, 12, 12, nil},
		{"too many locks", 4, 3, 10, 12, ErrNeededLocksExceeded},
		{"too many rooms", 1, 3, 12.5, 12, ErrNeededRoomsExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSearch(tt.neededLocks, tt.locks, tt.neededRooms, tt.rooms)
			if tt.want == nil {
				if err != nil {
					t.Errorf("checkSearch() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("checkSearch() = %v, want %v", err, tt.want)
			}
		})
	}
}
