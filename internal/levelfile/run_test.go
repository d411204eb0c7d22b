package levelfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

func TestNextRunDir(t *testing.T) {
	results := t.TempDir()

	first, err := NextRunDir(results, "5-10-5-90-3")
	if err != nil {
		t.Fatalf("NextRunDir() error = %v", err)
	}
	second, err := NextRunDir(results, "5-10-5-90-3")
	if err != nil {
		t.Fatalf("NextRunDir() error = %v", err)
	}

	if first != filepath.Join(results, "5-10-5-90-3", "0") {
		t.Errorf("first run dir = %q", first)
	}
	if second != filepath.Join(results, "5-10-5-90-3", "1") {
		t.Errorf("second run dir = %q", second)
	}
}

func TestFolderName(t *testing.T) {
	p := Parameters{Generations: 50, Population: 10, Mutation: 5, Crossover: 90, Competitors: 3}
	if got := p.FolderName(); got != "50-10-5-90-3" {
		t.Errorf("FolderName() = %q, want %q", got, "50-10-5-90-3")
	}
}

func TestWriteRun(t *testing.T) {
	results := t.TempDir()
	ind := chainIndividual(t)
	ind.NeededLocks = 1
	ind.NeededRooms = 3
	elites := []population.Elite{{X: 1, Y: 1, Individual: ind}}

	data := &RunData{
		Seed:       9,
		Parameters: Parameters{Generations: 2, Population: 4, Mutation: 5, Crossover: 90, Competitors: 2},
		Duration:   0.5,
	}
	dir, err := WriteRun(results, data, elites, true)
	if err != nil {
		t.Fatalf("WriteRun() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "level-1-1.yaml")); err != nil {
		t.Errorf("level file missing: %v", err)
	}

	back, err := ReadRun(dir)
	if err != nil {
		t.Fatalf("ReadRun() error = %v", err)
	}
	if back.Seed != 9 || back.Parameters.Population != 4 {
		t.Errorf("ReadRun() = %+v", back)
	}
	if len(back.Elites) != 1 {
		t.Fatalf("got %d elites, want 1", len(back.Elites))
	}
	e := back.Elites[0]
	if e.Keys != 1 || e.Locks != 1 || e.Rooms != 3 || e.NeededLocks != 1 || e.File != "level-1-1.yaml" {
		t.Errorf("elite summary = %+v", e)
	}
}

func TestWriteRunWithoutLevels(t *testing.T) {
	results := t.TempDir()
	elites := []population.Elite{{X: 0, Y: 0, Individual: chainIndividual(t)}}

	dir, err := WriteRun(results, &RunData{}, elites, false)
	if err != nil {
		t.Fatalf("WriteRun() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != DataFileName {
		t.Errorf("run dir holds %v, want only %s", entries, DataFileName)
	}
}
