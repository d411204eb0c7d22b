package evolution

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeonforge/internal/config"
	"github.com/lawnchairsociety/dungeonforge/internal/crossover"
	"github.com/lawnchairsociety/dungeonforge/internal/generator"
	"github.com/lawnchairsociety/dungeonforge/internal/mutation"
	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

// GeneratorConfig maps run settings onto the random tree generator.
func GeneratorConfig(cfg *config.Config) generator.Config {
	g := cfg.Generator
	return generator.Config{
		MaxDepth:     g.MaxDepth,
		ProbHasChild: g.ProbHasChild,
		ProbOneChild: g.ProbOneChild,
		ProbTwoChild: g.ProbTwoChild,
		Enemies:      cfg.Target.Enemies,
		ExtraPairs:   g.MaxExtraPairs,
		GridOffset:   g.GridOffset,
	}
}

// Generate builds one random, unevaluated individual of generation 0.
func Generate(cfg *config.Config, rng *rand.Rand) *population.Individual {
	d := generator.NewGenerator(GeneratorConfig(cfg), rng).Generate()
	d.FixEnemies(cfg.Target.Enemies, rng)
	return population.NewIndividual(d, 0)
}

// Crossover recombines two individuals into two unevaluated offspring.
// When no compatible branches exist the offspring are copies of the
// parents and applied is false.
func Crossover(a, b *population.Individual, rng *rand.Rand, attempts int) (x, y *population.Individual, applied bool) {
	res := crossover.Apply(a.Dungeon, b.Dungeon, rng, attempts)
	return population.NewIndividual(res.First, a.Generation),
		population.NewIndividual(res.Second, b.Generation),
		res.Applied
}

// Mutate returns an unevaluated mutated copy of parent.
func Mutate(parent *population.Individual, rng *rand.Rand) *population.Individual {
	d := parent.Dungeon.Clone()
	mutation.Apply(d, rng, mutation.DefaultAddRate)
	return population.NewIndividual(d, parent.Generation)
}
