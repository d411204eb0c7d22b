// Package render prints dungeons for debugging: the mission tree and the
// expanded map, optionally colored.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
	"github.com/lawnchairsociety/dungeonforge/internal/levelfile"
	"github.com/lawnchairsociety/dungeonforge/internal/pathfinding"
)

const defaultWidth = 80

// Renderer formats dungeons as text.
type Renderer struct {
	colors bool
	width  int

	colorRoom     color.Style
	colorGoal     color.Style
	colorCorridor color.Style
	colorKey      color.Style
	colorLock     color.Style
	colorSubtle   color.Style
}

// New returns a renderer. width bounds the separator lines.
func New(colors bool, width int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	return &Renderer{
		colors:        colors,
		width:         width,
		colorRoom:     color.Style{color.FgCyan},
		colorGoal:     color.Style{color.FgYellow, color.OpBold},
		colorCorridor: color.Style{color.FgMagenta},
		colorKey:      color.Style{color.FgGreen},
		colorLock:     color.Style{color.FgRed},
		colorSubtle:   color.Style{color.FgGray},
	}
}

// ForStdout colors output only when stdout is a terminal and sizes
// separators to its width.
func ForStdout() *Renderer {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return New(false, defaultWidth)
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = defaultWidth
	}
	return New(true, width)
}

// Tree prints the mission tree, one "+- id-T" line per room, children in
// left, down, right order.
func (r *Renderer) Tree(d *dungeon.Dungeon) string {
	var b strings.Builder
	var walk func(room *dungeon.Room, indent string, more bool)
	walk = func(room *dungeon.Room, indent string, more bool) {
		b.WriteString(indent)
		b.WriteString("+- ")
		b.WriteString(r.treeLabel(room))
		b.WriteString("\n")

		next := indent + "   "
		if more {
			next = indent + "|  "
		}
		children := d.Children(room)
		for i, c := range children {
			walk(c, next, i < len(children)-1)
		}
	}
	walk(d.Root(), "", false)
	return b.String()
}

func (r *Renderer) treeLabel(room *dungeon.Room) string {
	switch room.Type {
	case dungeon.RoomKey:
		return r.paint(r.colorKey, fmt.Sprintf("%d-K", room.ID))
	case dungeon.RoomLocked:
		return r.paint(r.colorLock, fmt.Sprintf("%d-L", room.ID))
	default:
		return fmt.Sprintf("%d-N", room.ID)
	}
}

// Dungeon prints the expanded map of d.
func (r *Renderer) Dungeon(d *dungeon.Dungeon) (string, error) {
	m, err := pathfinding.NewMap(d)
	if err != nil {
		return "", err
	}
	grid := make([][]int, m.Width())
	for x := range grid {
		grid[x] = make([]int, m.Height())
		for y := range grid[x] {
			grid[x][y] = m.At(x, y)
		}
	}
	return r.Grid(grid, m.Start()), nil
}

// Level prints a level read from disk.
func (r *Renderer) Level(level *levelfile.Level) string {
	start := pathfinding.Location{X: -1, Y: -1}
	for _, room := range level.Rooms {
		if room.Type == levelfile.TypeStart {
			start = pathfinding.Location{X: room.X, Y: room.Y}
			break
		}
	}
	return r.Grid(level.Grid(), start)
}

// Grid prints codes indexed [x][y], one row per y, two characters per cell.
func (r *Renderer) Grid(grid [][]int, start pathfinding.Location) string {
	if len(grid) == 0 {
		return ""
	}
	width, height := len(grid), len(grid[0])

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.WriteString(r.cell(grid[x][y], x == start.X && y == start.Y))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) cell(code int, isStart bool) string {
	switch {
	case code == pathfinding.CellEmpty:
		return "  "
	case isStart:
		return r.paint(r.colorRoom, " s")
	case code == pathfinding.CellCorridor:
		return r.paint(r.colorCorridor, " c")
	case code == pathfinding.CellGoal:
		return r.paint(r.colorGoal, " B")
	case code > 0:
		return r.paint(r.colorKey, fmt.Sprintf("%2d", code))
	case code < 0:
		return r.paint(r.colorLock, fmt.Sprintf("%2d", code))
	default:
		return r.paint(r.colorRoom, " _")
	}
}

// Separator is a rule as wide as the output allows.
func (r *Renderer) Separator() string {
	return r.paint(r.colorSubtle, strings.Repeat("-", min(r.width, 60))) + "\n"
}

// Legend explains the map symbols.
func (r *Renderer) Legend() string {
	return "Legend:\n" +
		"   " + r.paint(r.colorRoom, " s") + "  Entrance\n" +
		"   " + r.paint(r.colorRoom, " _") + "  Room\n" +
		"   " + r.paint(r.colorCorridor, " c") + "  Corridor\n" +
		"   " + r.paint(r.colorKey, " 1") + "  Room holding key 1\n" +
		"   " + r.paint(r.colorLock, "-1") + "  Corridor locked by key 1\n" +
		"   " + r.paint(r.colorGoal, " B") + "  Goal\n"
}

func (r *Renderer) paint(style color.Style, s string) string {
	if !r.colors {
		return s
	}
	return style.Sprint(s)
}
