package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
)

// fakeSource serves canned sessions and counts calls
type fakeSource struct {
	sessions     []internal.SessionMetadata
	messages     map[string][]internal.Message
	listErr      error
	listCalls    int
	messageCalls int
}

func (f *fakeSource) ListSessions(ctx context.Context) ([]internal.SessionMetadata, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sessions, nil
}

func (f *fakeSource) GetMessages(ctx context.Context, sessionID string) ([]internal.Message, error) {
	f.messageCalls++
	msgs, ok := f.messages[sessionID]
	if !ok {
		return nil, errors.New("not found")
	}
	return msgs, nil
}

func newFakeSource() *fakeSource {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeSource{
		sessions: []internal.SessionMetadata{
			{ID: "a", Title: "Alpha", LastActivityAt: ts, MessageCount: 40},
			{ID: "b", Title: "Beta", LastActivityAt: ts.Add(-time.Hour), MessageCount: 1},
			{ID: "gone", Title: "Gone", LastActivityAt: ts.Add(-2 * time.Hour)},
		},
		messages: map[string][]internal.Message{
			"a": {
				{ID: "m1", Role: internal.RoleUser, Content: "Hello", Timestamp: ts},
				{ID: "m2", Role: internal.RoleAssistant, Content: "Hi", Timestamp: ts},
			},
			"b": {
				{ID: "m3", Role: internal.RoleUser, Content: "Yo", Timestamp: ts},
			},
		},
	}
}

func TestLoader_SessionsReadThrough(t *testing.T) {
	cache := internal.NewCacheManager(internal.NewMemoryStore(0))
	src := newFakeSource()
	loader := NewLoader(cache, src)

	sessions, fromCache, err := loader.Sessions(context.Background())
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if fromCache || len(sessions) != 3 {
		t.Errorf("first Sessions() = %d sessions, fromCache %v", len(sessions), fromCache)
	}

	sessions, fromCache, err = loader.Sessions(context.Background())
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if !fromCache || len(sessions) != 3 {
		t.Errorf("second Sessions() = %d sessions, fromCache %v, want cached", len(sessions), fromCache)
	}
	if src.listCalls != 1 {
		t.Errorf("remote list called %d times, want 1", src.listCalls)
	}
}

func TestLoader_SessionsRemoteError(t *testing.T) {
	cache := internal.NewCacheManager(internal.NewMemoryStore(0))
	src := newFakeSource()
	src.listErr = errors.New("offline")

	if _, _, err := NewLoader(cache, src).Sessions(context.Background()); err == nil {
		t.Error("Sessions() should surface a remote failure on a cache miss")
	}
}

func TestLoader_SessionReadThrough(t *testing.T) {
	cache := internal.NewCacheManager(internal.NewMemoryStore(0))
	src := newFakeSource()
	loader := NewLoader(cache, src)
	if _, _, err := loader.Sessions(context.Background()); err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}

	rec, fromCache, err := loader.Session(context.Background(), "a")
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if fromCache {
		t.Error("first Session() should come from the remote")
	}
	if rec.Title != "Alpha" || rec.MessageCount != 40 || len(rec.Messages) != 2 {
		t.Errorf("Session() = title %q, count %d, %d messages", rec.Title, rec.MessageCount, len(rec.Messages))
	}

	if _, fromCache, _ = loader.Session(context.Background(), "a"); !fromCache {
		t.Error("second Session() should be served from the cache")
	}
	if src.messageCalls != 1 {
		t.Errorf("remote messages called %d times, want 1", src.messageCalls)
	}
}

func TestLoader_SessionErrors(t *testing.T) {
	cache := internal.NewCacheManager(internal.NewMemoryStore(0))
	loader := NewLoader(cache, newFakeSource())

	if _, _, err := loader.Session(context.Background(), ""); !errors.Is(err, internal.ErrMissingSessionID) {
		t.Errorf("Session(\"\") error = %v, want ErrMissingSessionID", err)
	}
	if _, _, err := loader.Session(context.Background(), "unknown"); err == nil {
		t.Error("Session() of an unknown id should fail")
	}
}

func TestLoader_Sync(t *testing.T) {
	cache := internal.NewCacheManager(internal.NewMemoryStore(0))
	src := newFakeSource()
	loader := NewLoader(cache, src)

	synced, err := loader.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if synced != 2 {
		t.Errorf("Sync() = %d, want 2 (one session has no messages upstream)", synced)
	}

	stats := cache.GetCacheStats()
	if stats.SessionsInList != 3 || stats.CachedSessions != 2 || stats.TotalMessages != 3 {
		t.Errorf("stats after Sync() = %+v", stats)
	}
}

func TestLoader_SyncCancelled(t *testing.T) {
	cache := internal.NewCacheManager(internal.NewMemoryStore(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	synced, err := NewLoader(cache, newFakeSource()).Sync(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Sync() error = %v, want context.Canceled", err)
	}
	if synced != 0 {
		t.Errorf("Sync() = %d, want 0", synced)
	}
}
