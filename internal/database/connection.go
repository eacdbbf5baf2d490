package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Config selects the database driver and location.
type Config struct {
	// Type is "sqlite" or "postgres".
	Type string
	// Path is the SQLite file; ":memory:" opens a private in-memory database.
	Path string
	// URL is the PostgreSQL connection string.
	URL string
}

// Connect opens the database and makes sure the schema exists.
func Connect(cfg Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch strings.ToLower(cfg.Type) {
	case "", "sqlite", "sqlite3":
		if cfg.Path != ":memory:" {
			// Create data directory if it doesn't exist
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers, and every connection to
		// ":memory:" would be a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "postgres", "postgresql":
		db, err = sqlx.Connect("postgres", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}

	if err := initializeSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist. The DDL is
// shared by SQLite and PostgreSQL.
func initializeSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := []struct {
		name string
		ddl  string
	}{
		{"tasks", `
			CREATE TABLE IF NOT EXISTS tasks (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				task_date TEXT NOT NULL,
				is_completed BOOLEAN NOT NULL DEFAULT false,
				order_index INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"tasks index", `CREATE INDEX IF NOT EXISTS idx_tasks_task_date ON tasks(task_date)`},
		{"daily_moods", `
			CREATE TABLE IF NOT EXISTS daily_moods (
				mood_date TEXT PRIMARY KEY,
				mood TEXT NOT NULL,
				note TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"game_progress", `
			CREATE TABLE IF NOT EXISTS game_progress (
				user_key TEXT PRIMARY KEY,
				xp INTEGER NOT NULL DEFAULT 0,
				total_completed INTEGER NOT NULL DEFAULT 0,
				streak INTEGER NOT NULL DEFAULT 0,
				last_active_date TEXT,
				achievements TEXT NOT NULL DEFAULT '{}',
				daily_completed TEXT NOT NULL DEFAULT '{}',
				credited_task_ids TEXT NOT NULL DEFAULT '{}',
				version BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.name, err)
		}
	}
	return nil
}

// WithTx runs fn inside a transaction, committing only when fn succeeds.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
