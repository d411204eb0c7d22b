package levelfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
	"github.com/lawnchairsociety/dungeonforge/internal/pathfinding"
	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

// chainIndividual: root -> key -> locked goal along the x axis.
func chainIndividual(t *testing.T) *population.Individual {
	t.Helper()
	d := dungeon.New(dungeon.DefaultGridOffset)
	k := d.NewRoom(dungeon.RoomKey)
	k.KeyToOpen = k.ID
	k.Enemies = 2
	if !d.InsertChild(d.Root(), dungeon.Right, k) {
		t.Fatal("insert key")
	}
	l := d.NewRoom(dungeon.RoomLocked)
	l.KeyToOpen = k.ID
	l.Enemies = 3
	if !d.InsertChild(k, dungeon.Down, l) {
		t.Fatal("insert lock")
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	ind := population.NewIndividual(d, 4)
	ind.Fitness = 1.25
	return ind
}

func TestFromIndividual(t *testing.T) {
	level, err := FromIndividual(chainIndividual(t))
	if err != nil {
		t.Fatalf("FromIndividual() error = %v", err)
	}

	if level.Dimensions != (Dimensions{Width: 6, Height: 2}) {
		t.Errorf("Dimensions = %+v, want 6x2", level.Dimensions)
	}
	if level.Generation != 4 || level.Fitness != 1.25 {
		t.Errorf("Generation, Fitness = %d, %v, want 4, 1.25", level.Generation, level.Fitness)
	}

	want := []Room{
		{X: 0, Y: 0, Type: TypeStart},
		{X: 1, Y: 0, Type: TypeCorridor},
		{X: 2, Y: 0, Keys: []int{1}, Enemies: 2},
		{X: 3, Y: 0, Locks: []int{-1}},
		{X: 4, Y: 0, Type: TypeGoal, Enemies: 3},
	}
	if len(level.Rooms) != len(want) {
		t.Fatalf("got %d cells, want %d: %+v", len(level.Rooms), len(want), level.Rooms)
	}
	for i, w := range want {
		got := level.Rooms[i]
		if got.X != w.X || got.Y != w.Y || got.Type != w.Type || got.Enemies != w.Enemies ||
			len(got.Keys) != len(w.Keys) || len(got.Locks) != len(w.Locks) {
			t.Errorf("Rooms[%d] = %+v, want %+v", i, got, w)
		}
	}
	if level.TotalEnemies() != 5 {
		t.Errorf("TotalEnemies() = %d, want 5", level.TotalEnemies())
	}
}

func TestGridMatchesMap(t *testing.T) {
	ind := chainIndividual(t)
	level, err := FromIndividual(ind)
	if err != nil {
		t.Fatalf("FromIndividual() error = %v", err)
	}
	m, err := pathfinding.NewMap(ind.Dungeon)
	if err != nil {
		t.Fatalf("NewMap() error = %v", err)
	}

	grid := level.Grid()
	for x := 0; x < m.Width(); x++ {
		for y := 0; y < m.Height(); y++ {
			if grid[x][y] != m.At(x, y) {
				t.Errorf("Grid()[%d][%d] = %d, want %d", x, y, grid[x][y], m.At(x, y))
			}
		}
	}
}

func TestWriteAndRead(t *testing.T) {
	level, err := FromIndividual(chainIndividual(t))
	if err != nil {
		t.Fatalf("FromIndividual() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), LevelFileName(1, 2))

	if err := Write(level, path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(raw), "# Level from generation 4\n") {
		t.Errorf("missing header comment:\n%s", raw)
	}

	back, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if back.Dimensions != level.Dimensions || len(back.Rooms) != len(level.Rooms) {
		t.Errorf("Read() = %+v, want %+v", back, level)
	}
	if back.Rooms[3].Locks[0] != -1 {
		t.Errorf("lock code = %d, want -1", back.Rooms[3].Locks[0])
	}
}

func TestReadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rooms: [x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("Read() of malformed YAML returned no error")
	}
	if _, err := Read(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Read() of missing file returned no error")
	}
}

func TestLevelFileName(t *testing.T) {
	if got := LevelFileName(3, 7); got != "level-3-7.yaml" {
		t.Errorf("LevelFileName(3, 7) = %q", got)
	}
}
