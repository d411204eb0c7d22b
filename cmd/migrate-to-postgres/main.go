// migrate-to-postgres copies stored runs and elites from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/dungeonforge.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user dungeonforge \
//	    -pg-password dungeonforge \
//	    -pg-database dungeonforge
package main

import (
	"flag"
	"log"

	"github.com/lawnchairsociety/dungeonforge/internal/database"
)

func main() {
	pgDefaults := database.DefaultPostgresConfig()

	sqlitePath := flag.String("sqlite", "data/dungeonforge.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", pgDefaults.Host, "PostgreSQL host")
	pgPort := flag.Int("pg-port", pgDefaults.Port, "PostgreSQL port")
	pgUser := flag.String("pg-user", "dungeonforge", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "dungeonforge", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "dungeonforge", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", pgDefaults.SSLMode, "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be copied without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	pg := pgDefaults
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	// Opening runs the schema migration on PostgreSQL
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", pg.User, pg.Host, pg.Port, pg.Database)
	dst, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	stats, err := database.CopyRuns(src, dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed after %d runs: %v", stats.Runs, err)
	}

	log.Println("====================================")
	log.Printf("Migration complete! Runs: %d, elites: %d, already present: %d",
		stats.Runs, stats.Elites, stats.Skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}
