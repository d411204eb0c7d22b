// Package levelfile writes evolved levels and run data as YAML and reads
// level files back for offline tools.
package levelfile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonforge/internal/pathfinding"
	"github.com/lawnchairsociety/dungeonforge/internal/population"
)

// Room type tags. Normal rooms, key rooms and locked corridors have no tag.
const (
	TypeStart    = "s"
	TypeGoal     = "B"
	TypeCorridor = "c"
)

// Level is one elite laid out on the expanded grid.
type Level struct {
	Dimensions Dimensions `yaml:"dimensions"`
	Generation int        `yaml:"generation"`
	Fitness    float64    `yaml:"fitness"`
	Rooms      []Room     `yaml:"rooms"`
}

// Dimensions is the size of the expanded grid.
type Dimensions struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Room is a non-empty cell of the expanded grid: a room or a corridor.
type Room struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Type    string `yaml:"type,omitempty"`
	Keys    []int  `yaml:"keys,omitempty,flow"`
	Locks   []int  `yaml:"locks,omitempty,flow"`
	Enemies int    `yaml:"enemies,omitempty"`
}

// FromIndividual lays out ind's dungeon cell by cell, column-major.
func FromIndividual(ind *population.Individual) (*Level, error) {
	m, err := pathfinding.NewMap(ind.Dungeon)
	if err != nil {
		return nil, err
	}

	enemies := make(map[pathfinding.Location]int)
	for _, r := range ind.Dungeon.Rooms() {
		enemies[m.RoomCell(r)] = r.Enemies
	}

	level := &Level{
		Dimensions: Dimensions{Width: m.Width(), Height: m.Height()},
		Generation: ind.Generation,
		Fitness:    ind.Fitness,
	}
	start := m.Start()
	for x := 0; x < m.Width(); x++ {
		for y := 0; y < m.Height(); y++ {
			code := m.At(x, y)
			if code == pathfinding.CellEmpty {
				continue
			}
			room := Room{X: x, Y: y}
			switch {
			case x == start.X && y == start.Y:
				room.Type = TypeStart
			case code == pathfinding.CellGoal:
				room.Type = TypeGoal
			case code == pathfinding.CellCorridor:
				room.Type = TypeCorridor
			case code < 0:
				room.Locks = []int{code}
			case pathfinding.IsKey(code):
				room.Keys = []int{code}
			}
			if pathfinding.IsRoom(code) {
				room.Enemies = enemies[pathfinding.Location{X: x, Y: y}]
			}
			level.Rooms = append(level.Rooms, room)
		}
	}
	return level, nil
}

// Grid rebuilds the expanded map codes, indexed [x][y].
func (l *Level) Grid() [][]int {
	grid := make([][]int, l.Dimensions.Width)
	for x := range grid {
		grid[x] = make([]int, l.Dimensions.Height)
		for y := range grid[x] {
			grid[x][y] = pathfinding.CellEmpty
		}
	}
	for _, r := range l.Rooms {
		if r.X < 0 || r.Y < 0 || r.X >= l.Dimensions.Width || r.Y >= l.Dimensions.Height {
			continue
		}
		code := pathfinding.CellNormal
		switch {
		case r.Type == TypeGoal:
			code = pathfinding.CellGoal
		case r.Type == TypeCorridor:
			code = pathfinding.CellCorridor
		case len(r.Locks) > 0:
			code = r.Locks[0]
		case len(r.Keys) > 0:
			code = r.Keys[0]
		}
		grid[r.X][r.Y] = code
	}
	return grid
}

// TotalEnemies sums the enemies of every room.
func (l *Level) TotalEnemies() int {
	total := 0
	for _, r := range l.Rooms {
		total += r.Enemies
	}
	return total
}

// Marshal encodes the level with a short header comment.
func Marshal(level *Level) ([]byte, error) {
	var buf bytes.Buffer

	// Write header comment
	fmt.Fprintf(&buf, "# Level from generation %d\n", level.Generation)
	fmt.Fprintf(&buf, "# Fitness: %g\n", level.Fitness)
	fmt.Fprintf(&buf, "# Cells: %d\n\n", len(level.Rooms))

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(level); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Write writes a level to a YAML file.
func Write(level *Level, path string) error {
	data, err := Marshal(level)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write level: %w", err)
	}
	return nil
}

// Read loads a level file.
func Read(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var level Level
	if err := yaml.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &level, nil
}
