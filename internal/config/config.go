package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonforge/internal/database"
	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds every setting of an evolution run.
type Config struct {
	Evolution EvolutionConfig `yaml:"evolution"`
	Target    TargetConfig    `yaml:"target"`
	Generator GeneratorConfig `yaml:"generator"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Output    OutputConfig    `yaml:"output"`
	Database  DatabaseConfig  `yaml:"database"`
}

// EvolutionConfig holds the MAP-Elites loop settings.
type EvolutionConfig struct {
	// Seed for the run's random source. 0 picks one from the clock.
	Seed int64 `yaml:"seed"`

	// Generations is the number of offspring rounds after initialization.
	Generations int `yaml:"generations"`

	// Population is how many elites initialization aims for. Half of it
	// is the number of parent pairs bred per generation.
	Population int `yaml:"population"`

	// MutationRate is the percent chance of mutating each offspring.
	MutationRate int `yaml:"mutation_rate"`

	// CrossoverRate is the percent chance of recombining selected parents.
	CrossoverRate int `yaml:"crossover_rate"`

	// Competitors is the tournament size.
	Competitors int `yaml:"competitors"`

	// CrossoverRetries bounds the cut-point search of one crossover.
	CrossoverRetries int `yaml:"crossover_retries"`

	// InitialAttempts bounds how many random dungeons initialization may generate.
	InitialAttempts int `yaml:"initial_attempts"`

	// DFSRuns is how many random walks are averaged per evaluation.
	DFSRuns int `yaml:"dfs_runs"`
}

// TargetConfig describes the level the designer wants.
type TargetConfig struct {
	Rooms             int     `yaml:"rooms"`
	Keys              int     `yaml:"keys"`
	Locks             int     `yaml:"locks"`
	Enemies           int     `yaml:"enemies"`
	LinearCoefficient float64 `yaml:"linear_coefficient"`
}

// GeneratorConfig holds random tree growth settings.
type GeneratorConfig struct {
	// MaxDepth is the depth past which rooms never branch.
	MaxDepth int `yaml:"max_depth"`

	// ProbHasChild is the percent chance of the root branching; it decays with depth.
	ProbHasChild float64 `yaml:"prob_has_child"`

	// ProbOneChild and ProbTwoChild split branching rooms by child count.
	// The remainder get three children.
	ProbOneChild float64 `yaml:"prob_one_child"`
	ProbTwoChild float64 `yaml:"prob_two_child"`

	// MaxExtraPairs bounds the extra key/lock pairs given to each random dungeon.
	MaxExtraPairs int `yaml:"max_extra_pairs"`

	// GridOffset is the half-width of the placement grid.
	GridOffset int `yaml:"grid_offset"`
}

// ArchiveConfig selects the behaviour descriptor and its dimensions.
type ArchiveConfig struct {
	// Descriptor is "keys_locks" or "exploration_leniency".
	Descriptor string `yaml:"descriptor"`

	// Keys and Locks size a keys_locks archive.
	Keys  int `yaml:"keys"`
	Locks int `yaml:"locks"`

	// Bins sizes both axes of an exploration_leniency archive.
	Bins int `yaml:"bins"`
}

// OutputConfig controls where run data is written.
type OutputConfig struct {
	ResultsDir  string `yaml:"results_dir"`
	WriteLevels bool   `yaml:"write_levels"`
}

// DatabaseConfig enables the run store.
type DatabaseConfig struct {
	Enabled         bool `yaml:"enabled"`
	database.Config `yaml:",inline"`
}

// DefaultConfig returns the classic run parameters.
func DefaultConfig() *Config {
	return &Config{
		Evolution: EvolutionConfig{
			Generations:      50,
			Population:       10,
			MutationRate:     5,
			CrossoverRate:    90,
			Competitors:      3,
			CrossoverRetries: 20,
			InitialAttempts:  1000,
			DFSRuns:          3,
		},
		Target: TargetConfig{
			Rooms:             20,
			Keys:              4,
			Locks:             4,
			Enemies:           15,
			LinearCoefficient: 1.5,
		},
		Generator: GeneratorConfig{
			MaxDepth:      20,
			ProbHasChild:  100,
			ProbOneChild:  100.0 / 3,
			ProbTwoChild:  100.0 / 3,
			MaxExtraPairs: 4,
			GridOffset:    50,
		},
		Archive: ArchiveConfig{
			Descriptor: population.DescriptorKeysLocks,
			Keys:       10,
			Locks:      10,
			Bins:       10,
		},
		Output: OutputConfig{
			ResultsDir:  "results",
			WriteLevels: true,
		},
		Database: DatabaseConfig{
			Config: database.DefaultConfig("data/dungeonforge.db"),
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns default configuration.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// ArchiveCells returns how many cells the configured archive has.
func (c *Config) ArchiveCells() int {
	if c.Archive.Descriptor == population.DescriptorExplorationLeniency {
		return c.Archive.Bins * c.Archive.Bins
	}
	return c.Archive.Keys * c.Archive.Locks
}

// Validate reports the first setting that would make a run misbehave.
func (c *Config) Validate() error {
	e, g, a := c.Evolution, c.Generator, c.Archive
	switch {
	case e.Generations < 0:
		return invalid("evolution.generations must not be negative, got %d", e.Generations)
	case e.Population < 1:
		return invalid("evolution.population must be at least 1, got %d", e.Population)
	case e.Competitors < 2 || e.Competitors >= e.Population:
		return invalid("evolution.competitors must be in [2, population), got %d", e.Competitors)
	case !isPercent(e.MutationRate):
		return invalid("evolution.mutation_rate must be in [0, 100], got %d", e.MutationRate)
	case !isPercent(e.CrossoverRate):
		return invalid("evolution.crossover_rate must be in [0, 100], got %d", e.CrossoverRate)
	case e.CrossoverRetries < 1:
		return invalid("evolution.crossover_retries must be at least 1, got %d", e.CrossoverRetries)
	case e.InitialAttempts < e.Population:
		return invalid("evolution.initial_attempts must be at least population, got %d", e.InitialAttempts)
	case e.DFSRuns < 1:
		return invalid("evolution.dfs_runs must be at least 1, got %d", e.DFSRuns)
	}

	t := c.Target
	switch {
	case t.Rooms < 1:
		return invalid("target.rooms must be at least 1, got %d", t.Rooms)
	case t.Keys < 0 || t.Locks < 0 || t.Enemies < 0:
		return invalid("target keys, locks and enemies must not be negative")
	case t.Keys >= 100:
		return invalid("target.keys must be below 100, got %d", t.Keys)
	case t.LinearCoefficient < 0:
		return invalid("target.linear_coefficient must not be negative, got %g", t.LinearCoefficient)
	}

	switch {
	case g.MaxDepth < 1:
		return invalid("generator.max_depth must be at least 1, got %d", g.MaxDepth)
	case g.GridOffset <= 2*(g.MaxDepth+1):
		return invalid("generator.grid_offset must exceed 2*(max_depth+1) = %d, got %d", 2*(g.MaxDepth+1), g.GridOffset)
	case g.ProbOneChild < 0 || g.ProbTwoChild < 0 || g.ProbOneChild+g.ProbTwoChild > 100:
		return invalid("generator.prob_one_child and prob_two_child must be non-negative and sum to at most 100")
	case g.MaxExtraPairs < 0:
		return invalid("generator.max_extra_pairs must not be negative, got %d", g.MaxExtraPairs)
	}

	if _, err := population.NewDescriptor(a.Descriptor, a.Keys, a.Locks, a.Bins); err != nil {
		return fmt.Errorf("%w: archive: %v", ErrInvalidConfig, err)
	}
	if cells := c.ArchiveCells(); cells < 1 {
		return invalid("archive must have at least one cell")
	} else if e.Population > cells {
		return invalid("evolution.population (%d) exceeds archive cells (%d)", e.Population, cells)
	}

	if c.Output.WriteLevels && c.Output.ResultsDir == "" {
		return invalid("output.results_dir is required when write_levels is set")
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case database.DriverSQLite:
			if c.Database.SQLitePath == "" {
				return invalid("database.sqlite_path is required for the sqlite driver")
			}
		case database.DriverPostgres:
			if c.Database.Postgres.Host == "" || c.Database.Postgres.Database == "" {
				return invalid("database.postgres host and database are required")
			}
		default:
			return invalid("unknown database.driver %q", c.Database.Driver)
		}
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func isPercent(v int) bool {
	return v >= 0 && v <= 100
}
