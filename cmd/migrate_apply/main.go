package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"crash_webapp/internal/db"
	"crash_webapp/internal/logger"
)

// Lists the migration files in order; with -apply, runs each against the
// database named by DATABASE_URL. Files are plain SQL and idempotent, so
// re-running the full set is safe.
func main() {
	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	flag.Parse()

	logger.Init("info", false)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	migDir := filepath.Join("internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		logger.Fatal("read migrations dir", "dir", migDir, "err", err)
	}

	ctx := context.Background()
	for _, f := range files {
		name := f.Name()
		if !*apply {
			logger.Info("pending", "migration", name)
			continue
		}
		sql, err := os.ReadFile(filepath.Join(migDir, name))
		if err != nil {
			logger.Fatal("read migration", "migration", name, "err", err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logger.Fatal("apply migration", "migration", name, "err", err)
		}
		logger.Info("applied", "migration", name)
	}
}
