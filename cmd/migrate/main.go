package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chatbot/backend/config"
	"github.com/pageza/recipe-chatbot/backend/internal/database"
	"github.com/pageza/recipe-chatbot/backend/internal/logger"
)

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS migrations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last applied migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to DB migrations setting)")
	flag.Parse()

	if err := run(*rollback, *dir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(rollback bool, dir string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Environment.IsProduction())
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	if dir == "" {
		dir = cfg.Database.Migrations
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.Database.URL()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	if rollback {
		return rollbackLast(db, dir, log)
	}
	return applyAll(db, dir, log)
}

func applyAll(db *sql.DB, dir string, log *zap.Logger) error {
	files, err := database.MigrationFiles(dir)
	if err != nil {
		return err
	}

	for _, name := range files {
		var applied bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)", name).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			log.Info("migration already applied", zap.String("name", name))
			continue
		}

		if err := execFile(db, filepath.Join(dir, name), "INSERT INTO migrations (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		log.Info("applied migration", zap.String("name", name))
	}

	log.Info("all migrations applied")
	return nil
}

func rollbackLast(db *sql.DB, dir string, log *zap.Logger) error {
	var name string
	err := db.QueryRow("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to rollback")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	down := filepath.Join(dir, database.RollbackFile(name))
	if _, err := os.Stat(down); err != nil {
		return fmt.Errorf("rollback file not found: %w", err)
	}

	if err := execFile(db, down, "DELETE FROM migrations WHERE name = $1", name); err != nil {
		return fmt.Errorf("failed to roll back %s: %w", name, err)
	}
	log.Info("rolled back migration", zap.String("name", name))
	return nil
}

// execFile runs the SQL in path and the bookkeeping statement in one transaction
func execFile(db *sql.DB, path, record, name string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(record, name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
