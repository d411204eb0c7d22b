package database

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresDialect is the shared store on lib/pq.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return DriverPostgres }

// Setup pins the session to UTC so created_at round-trips.
func (d *PostgresDialect) Setup() []string {
	return []string{"SET TIME ZONE 'UTC'"}
}

func (d *PostgresDialect) Schema() []string {
	return schema("BIGSERIAL PRIMARY KEY")
}

// Rebind numbers the ? placeholders as $1, $2, ...
// The store's statements never contain a literal question mark.
func (d *PostgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for {
		i := strings.IndexByte(query, '?')
		if i < 0 {
			b.WriteString(query)
			return b.String()
		}
		n++
		b.WriteString(query[:i])
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
		query = query[i+1:]
	}
}

// InsertID appends RETURNING id, since lib/pq has no LastInsertId.
func (d *PostgresDialect) InsertID(tx *sql.Tx, query string, args ...any) (int64, error) {
	var id int64
	err := tx.QueryRow(query+" RETURNING id", args...).Scan(&id)
	return id, err
}

func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, uniqueViolation)
}
