// Package evolution runs MAP-Elites over random dungeons: it fills the
// archive with random levels, then breeds tournament winners with
// crossover and mutation for a fixed number of generations.
package evolution

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/lawnchairsociety/dungeonforge/internal/config"
	"github.com/lawnchairsociety/dungeonforge/internal/fitness"
	"github.com/lawnchairsociety/dungeonforge/internal/logger"
	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

// ErrArchiveStarved means initialization could not place enough elites to
// hold a tournament.
var ErrArchiveStarved = errors.New("evolution: too few elites after initialization")

// Result is the outcome of a run.
type Result struct {
	Archive  *population.Archive
	Seed     int64
	Duration time.Duration

	Generations  int // completed
	Evaluations  int
	Crossovers   int // applied
	Mutations    int
	Replacements int // placements that entered the archive
}

// Evolution holds the state of one run.
type Evolution struct {
	cfg       *config.Config
	seed      int64
	rng       *rand.Rand
	evaluator *fitness.Evaluator
	archive   *population.Archive
	result    Result
}

// New validates cfg and prepares a run. A zero seed is replaced by one
// taken from the clock; Result.Seed reports the seed actually used.
func New(cfg *config.Config) (*Evolution, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	desc, err := population.NewDescriptor(cfg.Archive.Descriptor, cfg.Archive.Keys, cfg.Archive.Locks, cfg.Archive.Bins)
	if err != nil {
		return nil, err
	}

	seed := cfg.Evolution.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	t := cfg.Target
	return &Evolution{
		cfg:  cfg,
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
		evaluator: fitness.NewEvaluator(fitness.Target{
			Rooms:             t.Rooms,
			Keys:              t.Keys,
			Locks:             t.Locks,
			Enemies:           t.Enemies,
			LinearCoefficient: t.LinearCoefficient,
		}, cfg.Evolution.DFSRuns),
		archive: population.NewArchive(desc),
	}, nil
}

// Seed returns the seed of the run's random source.
func (e *Evolution) Seed() int64 { return e.seed }

// Run initializes the archive and evolves it. Cancelling ctx stops the
// run between generations; the partial result is returned with ctx's error.
func (e *Evolution) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	e.result = Result{Archive: e.archive, Seed: e.seed}
	defer func() { e.result.Duration = time.Since(start) }()

	logger.Info("Evolution started",
		"seed", e.seed,
		"generations", e.cfg.Evolution.Generations,
		"population", e.cfg.Evolution.Population,
		"descriptor", e.archive.Descriptor().Name())

	if err := e.initialize(ctx); err != nil {
		return &e.result, err
	}

	pairs := max(1, e.cfg.Evolution.Population/2)
	for g := 1; g <= e.cfg.Evolution.Generations; g++ {
		if err := ctx.Err(); err != nil {
			return &e.result, err
		}
		for p := 0; p < pairs; p++ {
			if err := e.breed(g); err != nil {
				logger.Error("Evolution aborted", "generation", g, "error", err)
				return &e.result, err
			}
		}
		e.result.Generations = g
		logger.Debug("Generation complete",
			"generation", g,
			"elites", e.archive.Count(),
			"best", e.bestFitness())
	}

	e.result.Duration = time.Since(start)
	logger.Info("Evolution finished",
		"seed", e.seed,
		"elites", e.archive.Count(),
		"evaluations", e.result.Evaluations,
		"best", e.bestFitness(),
		"duration", e.result.Duration)
	return &e.result, nil
}

// initialize places random individuals until the archive holds the
// configured population or the attempt budget runs out.
func (e *Evolution) initialize(ctx context.Context) error {
	target := e.cfg.Evolution.Population
	attempts := 0
	for e.archive.Count() < target && attempts < e.cfg.Evolution.InitialAttempts {
		if attempts%100 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		attempts++

		ind := Generate(e.cfg, e.rng)
		if err := e.evaluate(ind); err != nil {
			return err
		}
	}

	logger.Debug("Initial population placed", "elites", e.archive.Count(), "attempts", attempts)
	if e.archive.Count() < target {
		logger.Warning("Initial population incomplete", "elites", e.archive.Count(), "want", target)
	}
	if e.archive.Count() < e.cfg.Evolution.Competitors {
		return fmt.Errorf("%w: %d elites, %d competitors", ErrArchiveStarved, e.archive.Count(), e.cfg.Evolution.Competitors)
	}
	return nil
}

// breed selects two parents, produces two offspring and offers them to
// the archive. Mutation always runs when crossover was skipped or failed.
func (e *Evolution) breed(generation int) error {
	ev := e.cfg.Evolution
	parents, err := e.archive.TournamentSelect(ev.Competitors, 2, e.rng)
	if err != nil {
		return err
	}

	a, b := parents[0], parents[1]
	applied := false
	if e.rng.Intn(100) < ev.CrossoverRate {
		a, b, applied = Crossover(a, b, e.rng, ev.CrossoverRetries)
		if applied {
			e.result.Crossovers++
		} else {
			logger.Debug("Crossover found no compatible branches", "generation", generation)
		}
	}
	if !applied || e.rng.Intn(100) < ev.MutationRate {
		a, b = Mutate(a, e.rng), Mutate(b, e.rng)
		e.result.Mutations += 2
	}

	for _, child := range []*population.Individual{a, b} {
		child.Generation = generation
		child.Dungeon.FixEnemies(e.cfg.Target.Enemies, e.rng)
		if err := child.Dungeon.Validate(); err != nil {
			return fmt.Errorf("offspring of generation %d: %w", generation, err)
		}
		if err := e.evaluate(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evolution) evaluate(ind *population.Individual) error {
	if err := e.evaluator.Evaluate(ind, e.rng); err != nil {
		return err
	}
	e.result.Evaluations++
	if e.archive.Place(ind) {
		e.result.Replacements++
	}
	return nil
}

func (e *Evolution) bestFitness() float64 {
	best := population.InvalidFitness
	for _, elite := range e.archive.Elites() {
		best = min(best, elite.Individual.Fitness)
	}
	return best
}
