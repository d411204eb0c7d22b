package levelfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

// DataFileName is the run summary written next to the level files.
const DataFileName = "data.yaml"

// RunData summarizes one evolution run.
type RunData struct {
	Seed       int64          `yaml:"seed"`
	Parameters Parameters     `yaml:"parameters"`
	Duration   float64        `yaml:"duration"` // seconds
	Elites     []EliteSummary `yaml:"elites"`
}

// Parameters are the run settings that name the results folder.
type Parameters struct {
	Generations int    `yaml:"generations"`
	Population  int    `yaml:"population"`
	Mutation    int    `yaml:"mutation"`
	Crossover   int    `yaml:"crossover"`
	Competitors int    `yaml:"competitors"`
	Descriptor  string `yaml:"descriptor"`
}

// FolderName is generations-population-mutation-crossover-competitors.
func (p Parameters) FolderName() string {
	return fmt.Sprintf("%d-%d-%d-%d-%d", p.Generations, p.Population, p.Mutation, p.Crossover, p.Competitors)
}

// EliteSummary is one archive cell of the final map.
type EliteSummary struct {
	X                 int     `yaml:"x"`
	Y                 int     `yaml:"y"`
	Generation        int     `yaml:"generation"`
	Fitness           float64 `yaml:"fitness"`
	Rooms             int     `yaml:"rooms"`
	Keys              int     `yaml:"keys"`
	Locks             int     `yaml:"locks"`
	NeededLocks       int     `yaml:"needed_locks"`
	NeededRooms       float64 `yaml:"needed_rooms"`
	LinearCoefficient float64 `yaml:"linear_coefficient"`
	Linearity         float64 `yaml:"linearity"`
	File              string  `yaml:"file,omitempty"`
}

// Summarize builds the summary of an archive cell.
func Summarize(e population.Elite) EliteSummary {
	ind := e.Individual
	return EliteSummary{
		X:                 e.X,
		Y:                 e.Y,
		Generation:        ind.Generation,
		Fitness:           ind.Fitness,
		Rooms:             ind.Dungeon.RoomCount(),
		Keys:              ind.Dungeon.KeyCount(),
		Locks:             ind.Dungeon.LockCount(),
		NeededLocks:       ind.NeededLocks,
		NeededRooms:       ind.NeededRooms,
		LinearCoefficient: ind.LinearCoefficient,
		Linearity:         ind.Linearity,
	}
}

// LevelFileName names the level file of archive cell (x, y).
func LevelFileName(x, y int) string {
	return fmt.Sprintf("level-%d-%d.yaml", x, y)
}

// NextRunDir creates <resultsDir>/<folder>/<n>, where n counts the runs
// already stored for the same parameters.
func NextRunDir(resultsDir, folder string) (string, error) {
	base := filepath.Join(resultsDir, folder)
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		return "", err
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			count++
		}
	}
	dir := filepath.Join(base, strconv.Itoa(count))
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

// WriteRun fills data.Elites from elites and stores data.yaml in a fresh
// run directory, plus one level file per elite when writeLevels is set.
// It returns that directory.
func WriteRun(resultsDir string, data *RunData, elites []population.Elite, writeLevels bool) (string, error) {
	dir, err := NextRunDir(resultsDir, data.Parameters.FolderName())
	if err != nil {
		return "", err
	}

	data.Elites = make([]EliteSummary, 0, len(elites))
	for _, e := range elites {
		summary := Summarize(e)
		if writeLevels {
			level, err := FromIndividual(e.Individual)
			if err != nil {
				return dir, fmt.Errorf("elite (%d, %d): %w", e.X, e.Y, err)
			}
			summary.File = LevelFileName(e.X, e.Y)
			if err := Write(level, filepath.Join(dir, summary.File)); err != nil {
				return dir, err
			}
		}
		data.Elites = append(data.Elites, summary)
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return dir, fmt.Errorf("failed to encode run data: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DataFileName), out, 0644); err != nil {
		return dir, fmt.Errorf("failed to write run data: %w", err)
	}
	return dir, nil
}

// ReadRun loads the data.yaml of a run directory.
func ReadRun(dir string) (*RunData, error) {
	raw, err := os.ReadFile(filepath.Join(dir, DataFileName))
	if err != nil {
		return nil, err
	}
	var data RunData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse run data: %w", err)
	}
	return &data, nil
}
