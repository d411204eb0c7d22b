package main

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/lawnchairsociety/dungeonforge/internal/config"
	"github.com/lawnchairsociety/dungeonforge/internal/evolution"
	"github.com/lawnchairsociety/dungeonforge/internal/fitness"
	"github.com/lawnchairsociety/dungeonforge/internal/levelfile"
)

// LevelGenerator writes one random, unevolved level per seed
type LevelGenerator struct {
	Config    *config.Config
	OutputDir string
	evaluator *fitness.Evaluator
}

// NewLevelGenerator creates a new level generator
func NewLevelGenerator(cfg *config.Config, outputDir string) *LevelGenerator {
	t := cfg.Target
	return &LevelGenerator{
		Config:    cfg,
		OutputDir: outputDir,
		evaluator: fitness.NewEvaluator(fitness.Target{
			Rooms:             t.Rooms,
			Keys:              t.Keys,
			Locks:             t.Locks,
			Enemies:           t.Enemies,
			LinearCoefficient: t.LinearCoefficient,
		}, cfg.Evolution.DFSRuns),
	}
}

// GenerateLevel generates the level of one seed, scores it and writes it
// to level-seed-<seed>.yaml. It returns a short summary.
func (g *LevelGenerator) GenerateLevel(seed int64) (string, error) {
	rng := rand.New(rand.NewSource(seed))
	ind := evolution.Generate(g.Config, rng)
	if err := g.evaluator.Evaluate(ind, rng); err != nil {
		return "", fmt.Errorf("evaluation failed: %w", err)
	}

	level, err := levelfile.FromIndividual(ind)
	if err != nil {
		return "", fmt.Errorf("layout failed: %w", err)
	}

	path := filepath.Join(g.OutputDir, fmt.Sprintf("level-seed-%d.yaml", seed))
	if err := levelfile.Write(level, path); err != nil {
		return "", fmt.Errorf("failed to write YAML: %w", err)
	}

	d := ind.Dungeon
	return fmt.Sprintf("%d rooms, %d keys, %d locks, fitness %.3f",
		d.RoomCount(), d.KeyCount(), d.LockCount(), ind.Fitness), nil
}
