package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createKVTableSQL = `
CREATE TABLE IF NOT EXISTS cacheKV (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore is a Store backed by a single SQLite key-value table.
// A zero capacity means unlimited.
type SQLiteStore struct {
	db       *sql.DB
	capacity int64
}

// OpenSQLiteStore opens (creating if needed) the database at path
func OpenSQLiteStore(path string, capacity int64) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	store, err := NewSQLiteStore(db, capacity)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wraps an open database, creating the table if needed
func NewSQLiteStore(db *sql.DB, capacity int64) (*SQLiteStore, error) {
	if _, err := db.Exec(createKVTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create cacheKV table: %w", err)
	}
	return &SQLiteStore{db: db, capacity: capacity}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key
func (s *SQLiteStore) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM cacheKV WHERE key = ?", key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			LogWarn("%v", &StorageError{Backend: "sqlite", Op: "get", Key: key, Err: err})
		}
		return "", false
	}
	return value, true
}

// Set stores value under key, refusing writes that would exceed the capacity
func (s *SQLiteStore) Set(key, value string) error {
	if s.capacity > 0 {
		used := s.TotalBytes()
		if old, ok := s.Get(key); ok {
			used -= entrySize(key, old)
		}
		if used+entrySize(key, value) > s.capacity {
			return &QuotaExceededError{
				Key:       key,
				Required:  entrySize(key, value),
				Available: s.capacity - used,
			}
		}
	}

	_, err := s.db.Exec(
		"INSERT INTO cacheKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StorageError{Backend: "sqlite", Op: "set", Key: key, Err: err}
	}
	return nil
}

// Remove deletes key if present
func (s *SQLiteStore) Remove(key string) {
	if _, err := s.db.Exec("DELETE FROM cacheKV WHERE key = ?", key); err != nil {
		LogWarn("%v", &StorageError{Backend: "sqlite", Op: "remove", Key: key, Err: err})
	}
}

// Keys returns all keys in sorted order
func (s *SQLiteStore) Keys() []string {
	keys, err := QueryKeys(s.db)
	if err != nil {
		LogWarn("%v", &StorageError{Backend: "sqlite", Op: "keys", Err: err})
		return nil
	}
	return keys
}

// TotalBytes returns the summed key and value lengths
func (s *SQLiteStore) TotalBytes() int64 {
	var total sql.NullInt64
	err := s.db.QueryRow("SELECT SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))) FROM cacheKV").Scan(&total)
	if err != nil {
		LogWarn("%v", &StorageError{Backend: "sqlite", Op: "size", Err: err})
		return 0
	}
	return total.Int64
}

// QueryKeys lists the keys of the cacheKV table without reading values
func QueryKeys(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT key FROM cacheKV ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return keys, nil
}
