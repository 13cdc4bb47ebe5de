package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
//
// The pool is capped at a single connection: SQLite allows one writer at a
// time, and the store relies on full read-modify-write transactions.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate sets up the flat key-value schema. Every collection and scalar
// the platform persists lives in a named entry holding JSON text.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT NOT NULL PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
