package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/atshybrid/kaburlu-billing/internal/config"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
)

// Applies the SQL files under migrations/ in lexical order. Each file runs in
// its own transaction; rerunning is safe because the schema files use IF NOT
// EXISTS guards.
func main() {
	dir := flag.String("dir", "migrations", "directory containing *.up.sql files")
	dryRun := flag.Bool("dry-run", false, "print migration SQL without executing it")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.up.sql"))
	if err != nil {
		logg.Fatalw("failed to list migrations", "error", err)
	}
	if len(files) == 0 {
		logg.Fatalw("no migration files found", "dir", *dir)
	}
	sort.Strings(files)

	if *dryRun {
		for _, f := range files {
			sqlBytes, err := os.ReadFile(f)
			if err != nil {
				logg.Fatalw("failed to read migration", "file", f, "error", err)
			}
			fmt.Printf("-- %s\n%s\n", f, strings.TrimSpace(string(sqlBytes)))
		}
		return
	}

	db, err := sqlx.Connect("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		logg.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			logg.Fatalw("failed to read migration", "file", f, "error", err)
		}

		logg.Infow("applying migration", "file", f)
		tx, err := db.Beginx()
		if err != nil {
			logg.Fatalw("failed to begin transaction", "file", f, "error", err)
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			logg.Fatalw("migration failed", "file", f, "error", err)
		}
		if err := tx.Commit(); err != nil {
			logg.Fatalw("failed to commit migration", "file", f, "error", err)
		}
	}

	logg.Info("migrations completed")
}
