package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// Driver names accepted in Config.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned for a Config.Driver with no dialect.
var ErrUnknownDriver = errors.New("unknown database driver")

// Dialect is everything the run store does differently on SQLite and PostgreSQL.
type Dialect interface {
	// DriverName is the database/sql driver to open.
	DriverName() string

	// Setup returns statements run once on a fresh connection.
	Setup() []string

	// Schema returns the DDL for the runs and elites tables and their indexes.
	Schema() []string

	// Rebind rewrites ? placeholders into the driver's form.
	Rebind(query string) string

	// InsertID runs an INSERT inside tx and returns the generated id.
	InsertID(tx *sql.Tx, query string, args ...any) (int64, error)

	// IsDuplicateKeyError reports a unique constraint violation.
	IsDuplicateKeyError(err error) bool
}

// NewDialect returns the dialect for a driver name. An empty name means SQLite.
func NewDialect(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite, "":
		return &SQLiteDialect{}, nil
	case DriverPostgres:
		return &PostgresDialect{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// schema is the store's DDL; id is the dialect's auto-increment primary key
// column definition.
func schema(id string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id ` + id + `,
			name TEXT NOT NULL,
			seed BIGINT NOT NULL,
			generations INTEGER NOT NULL,
			population INTEGER NOT NULL,
			mutation_rate INTEGER NOT NULL,
			crossover_rate INTEGER NOT NULL,
			competitors INTEGER NOT NULL,
			descriptor TEXT NOT NULL,
			elites INTEGER NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS elites (
			id ` + id + `,
			run_id BIGINT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			fitness DOUBLE PRECISION NOT NULL,
			generation INTEGER NOT NULL,
			rooms INTEGER NOT NULL,
			keys INTEGER NOT NULL,
			locks INTEGER NOT NULL,
			enemies INTEGER NOT NULL,
			needed_locks INTEGER NOT NULL,
			needed_rooms DOUBLE PRECISION NOT NULL,
			linear_coefficient DOUBLE PRECISION NOT NULL,
			linearity DOUBLE PRECISION NOT NULL DEFAULT 0,
			fingerprint TEXT NOT NULL,
			level TEXT NOT NULL,
			UNIQUE(run_id, x, y)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_name_seed ON runs(name, seed)`,
		`CREATE INDEX IF NOT EXISTS idx_elites_run_id ON elites(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_elites_fingerprint ON elites(fingerprint)`,
	}
}
