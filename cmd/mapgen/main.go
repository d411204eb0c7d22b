package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lawnchairsociety/dungeonforge/internal/levelfile"
	"github.com/lawnchairsociety/dungeonforge/internal/render"
)

func main() {
	inputPath := flag.String("input", "", "Level file, or run directory holding data.yaml and level files")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(1)
	}

	r := render.ForStdout()
	if *noColor || *outputFile != "" {
		r = render.New(false, 0)
	}

	var output strings.Builder

	info, err := os.Stat(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	if info.IsDir() {
		if err := renderRun(&output, r, *inputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		level, err := levelfile.Read(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing level: %v\n", err)
			os.Exit(1)
		}
		renderLevel(&output, r, filepath.Base(*inputPath), level)
	}

	if *showLegend {
		output.WriteString(r.Legend())
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

// renderRun prints the run summary and every level it lists.
func renderRun(output *strings.Builder, r *render.Renderer, dir string) error {
	data, err := levelfile.ReadRun(dir)
	if err != nil {
		return fmt.Errorf("failed to read run data: %w", err)
	}

	p := data.Parameters
	output.WriteString(fmt.Sprintf("Run %s (Seed: %d, Descriptor: %s)\n", p.FolderName(), data.Seed, p.Descriptor))
	output.WriteString(fmt.Sprintf("Duration: %.2fs, Elites: %d\n", data.Duration, len(data.Elites)))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")

	// Best levels first
	elites := data.Elites
	sort.SliceStable(elites, func(i, j int) bool {
		return elites[i].Fitness < elites[j].Fitness
	})

	for _, e := range elites {
		if e.File == "" {
			output.WriteString(fmt.Sprintf("Cell (%d, %d): fitness %.3f, no level file\n\n", e.X, e.Y, e.Fitness))
			continue
		}
		level, err := levelfile.Read(filepath.Join(dir, e.File))
		if err != nil {
			return err
		}
		renderLevel(output, r, fmt.Sprintf("Cell (%d, %d) %s", e.X, e.Y, e.File), level)
	}
	return nil
}

func renderLevel(output *strings.Builder, r *render.Renderer, title string, level *levelfile.Level) {
	output.WriteString(fmt.Sprintf("%s: generation %d, fitness %.3f, %dx%d, %d enemies\n",
		title, level.Generation, level.Fitness, level.Dimensions.Width, level.Dimensions.Height, level.TotalEnemies()))
	output.WriteString(r.Separator())
	output.WriteString(r.Level(level))
	output.WriteString("\n")
}
