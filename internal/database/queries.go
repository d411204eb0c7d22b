package database

// Column lists, in the order scanRun and scanElite read them.
const (
	runColumns = `id, name, seed, generations, population, mutation_rate, crossover_rate,
		competitors, descriptor, elites, duration_ms, created_at`
	eliteColumns = `id, run_id, x, y, fitness, generation, rooms, keys, locks, enemies,
		needed_locks, needed_rooms, linear_coefficient, linearity, fingerprint, level`
)

// queries holds every statement of the store, rebound once for the dialect.
type queries struct {
	insertRun   string
	insertElite string
	getRun      string
	findRun     string
	listRuns    string
	listElites  string
	findElites  string
	deleteElites string
	deleteRun    string
}

func newQueries(d Dialect) queries {
	return queries{
		insertRun: d.Rebind(`INSERT INTO runs (name, seed, generations, population, mutation_rate,
			crossover_rate, competitors, descriptor, elites, duration_ms, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		insertElite: d.Rebind(`INSERT INTO elites (run_id, x, y, fitness, generation, rooms, keys,
			locks, enemies, needed_locks, needed_rooms, linear_coefficient, linearity, fingerprint, level)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		getRun:     d.Rebind(`SELECT ` + runColumns + ` FROM runs WHERE id = ?`),
		findRun:    d.Rebind(`SELECT ` + runColumns + ` FROM runs WHERE name = ? AND seed = ? ORDER BY id DESC LIMIT 1`),
		listRuns:   `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`,
		listElites: d.Rebind(`SELECT ` + eliteColumns + ` FROM elites WHERE run_id = ? ORDER BY y, x`),
		findElites: d.Rebind(`SELECT ` + eliteColumns + ` FROM elites WHERE fingerprint = ? ORDER BY run_id, y, x`),
		deleteElites: d.Rebind(`DELETE FROM elites WHERE run_id = ?`),
		deleteRun:    d.Rebind(`DELETE FROM runs WHERE id = ?`),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}
