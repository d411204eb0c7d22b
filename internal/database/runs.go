package database

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// ErrDuplicateElite is returned when two elites of a run share an archive cell.
var ErrDuplicateElite = errors.New("archive cell already holds an elite")

// Run describes one evolution run.
type Run struct {
	ID            int64
	Name          string
	Seed          int64
	Generations   int
	Population    int
	MutationRate  int
	CrossoverRate int
	Competitors   int
	Descriptor    string
	Elites        int
	Duration      time.Duration
	CreatedAt     time.Time
}

// Elite is one archive cell's best level at the end of a run.
type Elite struct {
	ID                int64
	RunID             int64
	X                 int
	Y                 int
	Fitness           float64
	Generation        int
	Rooms             int
	Keys              int
	Locks             int
	Enemies           int
	NeededLocks       int
	NeededRooms       float64
	LinearCoefficient float64
	Linearity         float64
	Fingerprint       string
	Level             string
}

// Fingerprint returns the hex BLAKE2b-256 digest of a serialized level.
func Fingerprint(level []byte) string {
	sum := blake2b.Sum256(level)
	return hex.EncodeToString(sum[:])
}

// RecordRun stores a run and its elites in one transaction and returns the new run id.
// Elites without a fingerprint get one computed from their level text. A zero
// CreatedAt is stamped with the current time.
func (d *Database) RecordRun(run Run, elites []Elite) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	runID, err := d.dialect.InsertID(tx, d.q.insertRun,
		run.Name, run.Seed, run.Generations, run.Population, run.MutationRate, run.CrossoverRate,
		run.Competitors, run.Descriptor, len(elites), run.Duration.Milliseconds(), createdAt.UTC())
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(d.q.insertElite)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, e := range elites {
		fp := e.Fingerprint
		if fp == "" {
			fp = Fingerprint([]byte(e.Level))
		}
		if _, err := stmt.Exec(runID, e.X, e.Y, e.Fitness, e.Generation, e.Rooms, e.Keys, e.Locks,
			e.Enemies, e.NeededLocks, e.NeededRooms, e.LinearCoefficient, e.Linearity, fp, e.Level); err != nil {
			if d.dialect.IsDuplicateKeyError(err) {
				return 0, fmt.Errorf("%w: (%d, %d)", ErrDuplicateElite, e.X, e.Y)
			}
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// GetRun loads a run by id.
func (d *Database) GetRun(id int64) (*Run, error) {
	run, err := scanRun(d.db.QueryRow(d.q.getRun, id))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	return run, err
}

// FindRun returns the newest run with the given name and seed.
func (d *Database) FindRun(name string, seed int64) (*Run, error) {
	run, err := scanRun(d.db.QueryRow(d.q.findRun, name, seed))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	return run, err
}

// ListRuns returns every run, newest first.
func (d *Database) ListRuns() ([]Run, error) {
	rows, err := d.db.Query(d.q.listRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var durationMS int64
	var createdAt sql.NullTime
	if err := row.Scan(&run.ID, &run.Name, &run.Seed, &run.Generations, &run.Population,
		&run.MutationRate, &run.CrossoverRate, &run.Competitors, &run.Descriptor, &run.Elites,
		&durationMS, &createdAt); err != nil {
		return nil, err
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if createdAt.Valid {
		run.CreatedAt = createdAt.Time
	}
	return run, nil
}

// ListElites returns the elites of a run ordered by archive cell.
func (d *Database) ListElites(runID int64) ([]Elite, error) {
	return d.queryElites(d.q.listElites, runID)
}

// FindByFingerprint returns every stored elite with the given level fingerprint.
func (d *Database) FindByFingerprint(fingerprint string) ([]Elite, error) {
	return d.queryElites(d.q.findElites, fingerprint)
}

func (d *Database) queryElites(query string, arg any) ([]Elite, error) {
	rows, err := d.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var elites []Elite
	for rows.Next() {
		var e Elite
		if err := rows.Scan(&e.ID, &e.RunID, &e.X, &e.Y, &e.Fitness, &e.Generation, &e.Rooms,
			&e.Keys, &e.Locks, &e.Enemies, &e.NeededLocks, &e.NeededRooms, &e.LinearCoefficient,
			&e.Linearity, &e.Fingerprint, &e.Level); err != nil {
			return nil, err
		}
		elites = append(elites, e)
	}
	return elites, rows.Err()
}

// DeleteRun removes a run and its elites.
func (d *Database) DeleteRun(id int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(d.q.deleteElites, id); err != nil {
		return err
	}
	result, err := tx.Exec(d.q.deleteRun, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return tx.Commit()
}
