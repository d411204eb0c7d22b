package database

import (
	"errors"
	"fmt"
)

// CopyStats counts what CopyRuns moved.
type CopyStats struct {
	Runs    int
	Elites  int
	Skipped int
}

// CopyRuns copies every run of src, oldest first, into dst. Runs that dst
// already holds under the same name and seed are skipped. With dryRun set
// nothing is written and the stats report what would have been copied.
func CopyRuns(src, dst *Database, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	runs, err := src.ListRuns()
	if err != nil {
		return stats, fmt.Errorf("list runs: %w", err)
	}

	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]

		_, err := dst.FindRun(run.Name, run.Seed)
		if err == nil {
			stats.Skipped++
			continue
		}
		if !errors.Is(err, ErrRunNotFound) {
			return stats, fmt.Errorf("look up run %d: %w", run.ID, err)
		}

		elites, err := src.ListElites(run.ID)
		if err != nil {
			return stats, fmt.Errorf("list elites of run %d: %w", run.ID, err)
		}

		if !dryRun {
			if _, err := dst.RecordRun(run, elites); err != nil {
				return stats, fmt.Errorf("record run %d: %w", run.ID, err)
			}
		}
		stats.Runs++
		stats.Elites += len(elites)
	}

	return stats, nil
}
