package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open opens the SQLite database at path, creating its parent directory
// if needed. Foreign keys, WAL and a busy timeout are enabled through the DSN
// so every pooled connection gets them.
func Open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	database, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	return database, nil
}
