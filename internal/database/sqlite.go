// Package database provides SQLite persistence for the authentication
// audit log.
package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	// a single connection keeps ":memory:" databases coherent and
	// serializes writers
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init database: %v", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	if err := initTable(db, "auth_event", `
		CREATE TABLE IF NOT EXISTS auth_event (
			id          TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			remote      TEXT,
			at          INTEGER NOT NULL
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "auth_event_at", `
		CREATE INDEX IF NOT EXISTS auth_event_at ON auth_event (at);`,
	); err != nil {
		return err
	}

	return nil
}

func initTable(
	db *sql.DB,
	name string,
	sql string,
) error {
	if _, err := db.Exec(sql); err != nil {
		return fmt.Errorf("failed to init '%s' schema: %v", name, err)
	}
	return nil
}
