package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createKVTableSQL = `
	CREATE TABLE IF NOT EXISTS cacheKV (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`

// CreateInMemoryDB creates an in-memory SQLite database with the cacheKV
// table. The database is closed when the test ends.
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(createKVTableSQL); err != nil {
		t.Fatalf("Failed to create cacheKV table: %v", err)
	}

	return db
}

// InsertEntry writes a raw key-value row, bypassing any store logic
func InsertEntry(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	insertSQL := "INSERT OR REPLACE INTO cacheKV (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, key, value); err != nil {
		t.Fatalf("Failed to insert entry %s: %v", key, err)
	}
}

// CountEntries returns the number of rows in cacheKV
func CountEntries(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM cacheKV").Scan(&n); err != nil {
		t.Fatalf("Failed to count entries: %v", err)
	}
	return n
}
