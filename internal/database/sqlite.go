package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Config holds database configuration
type Config struct {
	Path string
}

// Open opens (creating if necessary) the sqlite database at cfg.Path and
// applies the connection pragmas.
func Open(cfg Config) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitSchema creates the master table schema when absent.
func InitSchema(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS track_points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unique_point_id TEXT NOT NULL,
			track_name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			altitude REAL NOT NULL,
			time TEXT NOT NULL,
			route_timestamp TEXT,
			source_file TEXT NOT NULL,
			file_hash TEXT NOT NULL,
			file_type TEXT NOT NULL,
			track_description TEXT,
			processed_timestamp TEXT NOT NULL,
			point_clock TEXT,
			point_seconds TEXT,
			route_date TEXT,
			route_distance_km REAL,
			route_time TEXT,
			route_min_altitude REAL,
			route_max_altitude REAL,
			route_total_calories INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_track_points_time ON track_points(time);
		CREATE INDEX IF NOT EXISTS idx_track_points_track ON track_points(source_file, track_name);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create track_points schema: %w", err)
	}
	return nil
}

// Transaction executes a function within a database transaction
func Transaction(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
