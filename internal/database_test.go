package internal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arkegu/arkegu-cache/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestSQLiteStore(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store, err := NewSQLiteStore(db, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	runStoreContract(t, store)
}

func TestSQLiteStore_Capacity(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store, err := NewSQLiteStore(db, 20)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	if err := store.Set("k1", "0123456789"); err != nil {
		t.Fatalf("Set() within capacity error = %v", err)
	}
	if err := store.Set("k2", "0123456789"); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Set() over capacity error = %v, want ErrQuotaExceeded", err)
	}
	if got := testutil.CountEntries(t, db); got != 1 {
		t.Errorf("row count = %d, want 1", got)
	}
}

func TestOpenSQLiteStore(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "existing database",
			setup: func(t *testing.T) string {
				tmpDir := testutil.CreateTempDir(t)
				dbPath := filepath.Join(tmpDir, "cache.db")
				testutil.CreateSQLiteFixture(t, dbPath, time.Now())
				return dbPath
			},
			wantErr: false,
		},
		{
			name: "new database in missing directory",
			setup: func(t *testing.T) string {
				tmpDir := testutil.CreateTempDir(t)
				return filepath.Join(tmpDir, "nested", "dir", "cache.db")
			},
			wantErr: false,
		},
		{
			name: "in-memory database",
			setup: func(t *testing.T) string {
				return ":memory:"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			store, err := OpenSQLiteStore(dbPath, 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenSQLiteStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store != nil {
				_ = store.Close()
			}
		})
	}
}

func TestSQLiteStore_FixtureReadable(t *testing.T) {
	tmpDir := testutil.CreateTempDir(t)
	dbPath := filepath.Join(tmpDir, "cache.db")
	testutil.CreateSQLiteFixture(t, dbPath, time.Now())

	store, err := OpenSQLiteStore(dbPath, 0)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	defer store.Close()

	cm := NewCacheManager(store)
	sessions, ok := cm.GetSessionsFromCache()
	if !ok || len(sessions) != 2 {
		t.Fatalf("GetSessionsFromCache() = %d sessions, %v, want 2, true", len(sessions), ok)
	}

	rec, ok := cm.GetSessionFromCache("s1")
	if !ok {
		t.Fatal("GetSessionFromCache(s1) should hit")
	}
	if len(rec.Messages) != 2 || rec.Messages[1].Content != "Hi there" {
		t.Errorf("GetSessionFromCache(s1) messages = %+v", rec.Messages)
	}
}

func TestQueryKeys(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertEntry(t, db, "arkegu_sessions_list", "3")
	testutil.InsertEntry(t, db, "other", "4")
	testutil.InsertEntry(t, db, "arkegu_session_b", "2")
	testutil.InsertEntry(t, db, "arkegu_session_a", "1")

	keys, err := QueryKeys(db)
	if err != nil {
		t.Fatalf("QueryKeys() error = %v", err)
	}
	want := []string{"arkegu_session_a", "arkegu_session_b", "arkegu_sessions_list", "other"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("QueryKeys() mismatch (-want +got):\n%s", diff)
	}

	store, err := NewSQLiteStore(db, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if diff := cmp.Diff(want, store.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
