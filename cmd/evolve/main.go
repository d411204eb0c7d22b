package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/dungeonforge/internal/config"
	"github.com/lawnchairsociety/dungeonforge/internal/database"
	"github.com/lawnchairsociety/dungeonforge/internal/evolution"
	"github.com/lawnchairsociety/dungeonforge/internal/levelfile"
	"github.com/lawnchairsociety/dungeonforge/internal/logger"
	"github.com/lawnchairsociety/dungeonforge/internal/population"
	"github.com/lawnchairsociety/dungeonforge/internal/render"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/evolve.yaml", "Path to run config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seed := flag.Int64("seed", 0, "Run seed (overrides config; default: random based on current time)")
	generations := flag.Int("generations", -1, "Number of generations (overrides config)")
	pop := flag.Int("population", -1, "Initial population size (overrides config)")
	resultsDir := flag.String("results", "", "Results directory (overrides config)")
	noLevels := flag.Bool("no-levels", false, "Only write data.yaml, no level files")
	useDB := flag.Bool("db", false, "Record the run in the database configured in the config file")
	listRuns := flag.Bool("list-runs", false, "List runs stored in the database and exit")
	show := flag.Bool("show", false, "Print the tree and map of the best elite when done")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed != 0 {
		cfg.Evolution.Seed = *seed
	}
	if *generations >= 0 {
		cfg.Evolution.Generations = *generations
	}
	if *pop >= 0 {
		cfg.Evolution.Population = *pop
	}
	if *resultsDir != "" {
		cfg.Output.ResultsDir = *resultsDir
	}
	if *noLevels {
		cfg.Output.WriteLevels = false
	}
	if *useDB || *listRuns {
		cfg.Database.Enabled = true
	}

	if *listRuns {
		handleListRuns(cfg)
		return
	}

	run, err := evolution.New(cfg)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Stop between generations on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Interrupt received, stopping after the current generation")
		cancel()
	}()

	result, err := run.Run(ctx)
	cancel()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Fatalf("Evolution failed: %v", err)
		}
		logger.Warning("Run interrupted, saving partial results", "generations", result.Generations)
	}

	elites := result.Archive.Elites()
	data := &levelfile.RunData{
		Seed: result.Seed,
		Parameters: levelfile.Parameters{
			Generations: cfg.Evolution.Generations,
			Population:  cfg.Evolution.Population,
			Mutation:    cfg.Evolution.MutationRate,
			Crossover:   cfg.Evolution.CrossoverRate,
			Competitors: cfg.Evolution.Competitors,
			Descriptor:  cfg.Archive.Descriptor,
		},
		Duration: result.Duration.Seconds(),
	}
	dir, err := levelfile.WriteRun(cfg.Output.ResultsDir, data, elites, cfg.Output.WriteLevels)
	if err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
	logger.Info("Results written", "dir", dir, "elites", len(elites))

	if cfg.Database.Enabled {
		if err := recordRun(cfg, data, elites, result); err != nil {
			logger.Error("Failed to record run", "error", err)
		}
	}

	if *show {
		showBest(elites)
	}

	logger.Always("Run complete",
		"seed", result.Seed,
		"generations", result.Generations,
		"elites", len(elites),
		"duration", result.Duration)
}

// recordRun stores the run and its elites with their level files.
func recordRun(cfg *config.Config, data *levelfile.RunData, elites []population.Elite, result *evolution.Result) error {
	db, err := database.OpenWithConfig(cfg.Database.Config)
	if err != nil {
		return err
	}
	defer db.Close()

	records := make([]database.Elite, 0, len(elites))
	for i, e := range elites {
		level, err := levelfile.FromIndividual(e.Individual)
		if err != nil {
			return err
		}
		raw, err := levelfile.Marshal(level)
		if err != nil {
			return err
		}
		s := data.Elites[i]
		records = append(records, database.Elite{
			X:                 s.X,
			Y:                 s.Y,
			Fitness:           s.Fitness,
			Generation:        s.Generation,
			Rooms:             s.Rooms,
			Keys:              s.Keys,
			Locks:             s.Locks,
			Enemies:           level.TotalEnemies(),
			NeededLocks:       s.NeededLocks,
			NeededRooms:       s.NeededRooms,
			LinearCoefficient: s.LinearCoefficient,
			Linearity:         s.Linearity,
			Fingerprint:       database.Fingerprint(raw),
			Level:             string(raw),
		})
	}

	p := data.Parameters
	id, err := db.RecordRun(database.Run{
		Name:          p.FolderName(),
		Seed:          result.Seed,
		Generations:   p.Generations,
		Population:    p.Population,
		MutationRate:  p.Mutation,
		CrossoverRate: p.Crossover,
		Competitors:   p.Competitors,
		Descriptor:    p.Descriptor,
		Duration:      result.Duration,
	}, records)
	if err != nil {
		return err
	}

	// Report levels already produced by earlier runs
	for _, r := range records {
		seen, err := db.FindByFingerprint(r.Fingerprint)
		if err != nil {
			return err
		}
		if len(seen) > 1 {
			logger.Debug("Elite level seen before", "x", r.X, "y", r.Y, "runs", len(seen))
		}
	}

	logger.Info("Run recorded", "run_id", id, "driver", cfg.Database.Driver)
	return nil
}

// handleListRuns prints the stored runs and exits
func handleListRuns(cfg *config.Config) {
	db, err := database.OpenWithConfig(cfg.Database.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to list runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	for _, r := range runs {
		fmt.Printf("%4d  %-16s seed=%-20d elites=%-4d %s  %v\n",
			r.ID, r.Name, r.Seed, r.Elites, r.Descriptor, r.Duration)
	}
}

// showBest prints the fittest elite
func showBest(elites []population.Elite) {
	if len(elites) == 0 {
		return
	}
	best := elites[0]
	for _, e := range elites[1:] {
		if e.Individual.Beats(best.Individual) {
			best = e
		}
	}

	r := render.ForStdout()
	fmt.Printf("Best elite at (%d, %d), fitness %.3f, generation %d\n",
		best.X, best.Y, best.Individual.Fitness, best.Individual.Generation)
	fmt.Print(r.Separator())
	fmt.Print(r.Tree(best.Individual.Dungeon))
	fmt.Print(r.Separator())
	m, err := r.Dungeon(best.Individual.Dungeon)
	if err != nil {
		logger.Warning("Failed to lay out best elite", "error", err)
		return
	}
	fmt.Print(m)
	fmt.Print(r.Legend())
}
