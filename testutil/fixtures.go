package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// EncodeEntry wraps data in the {"data":...,"timestamp":...} envelope
func EncodeEntry(t *testing.T, data interface{}, writtenAt time.Time) string {
	t.Helper()
	raw := JSONMarshal(t, map[string]interface{}{
		"data":      data,
		"timestamp": writtenAt.UnixMilli(),
	})
	return string(raw)
}

// CreateSQLiteFixture creates a store database at dbPath holding a
// two-session index and both session records, written at writtenAt.
func CreateSQLiteFixture(t *testing.T, dbPath string, writtenAt time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(createKVTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	ts := writtenAt.UTC().Format(time.RFC3339Nano)
	index := []map[string]interface{}{
		{"id": "s1", "title": "First chat", "lastActivityAt": ts, "messageCount": 2},
		{"id": "s2", "title": "Second chat", "lastActivityAt": ts, "messageCount": 1},
	}
	records := map[string]map[string]interface{}{
		"s1": {
			"id":    "s1",
			"title": "First chat",
			"messages": []map[string]interface{}{
				{"id": "m1", "role": "user", "content": "Hello", "timestamp": ts},
				{"id": "m2", "role": "assistant", "content": "Hi there", "timestamp": ts},
			},
			"lastActivityAt": ts,
			"messageCount":   2,
		},
		"s2": {
			"id":    "s2",
			"title": "Second chat",
			"messages": []map[string]interface{}{
				{"id": "m3", "role": "user", "content": "How are you?", "timestamp": ts},
			},
			"lastActivityAt": ts,
			"messageCount":   1,
		},
	}

	InsertEntry(t, db, "arkegu_sessions_list", EncodeEntry(t, index, writtenAt))
	for id, rec := range records {
		InsertEntry(t, db, "arkegu_session_"+id, EncodeEntry(t, rec, writtenAt))
	}
}

// CreateConfigFixture writes a YAML config file and returns its path
func CreateConfigFixture(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}
