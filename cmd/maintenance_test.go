package cmd

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/arkegu/arkegu-cache/testutil"
)

func TestStatsCommand(t *testing.T) {
	store := newFixtureStore(t)

	out, err := runCommand(t, store, "stats")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	for _, want := range []string{"Session index is fresh", "2 listed, 2 cached (max 15)", "3 cached (max 25 per session)", "of 4194304 bytes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "have no cached messages") {
		t.Errorf("no session should be reported missing:\n%s", out)
	}
}

func TestStatsCommand_MissingRecords(t *testing.T) {
	store := newFixtureStore(t)
	cache := openTestCache(t, store)
	cache.Store().Remove(cache.Config().SessionKey("s2"))

	out, err := runCommand(t, store, "stats")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	if !strings.Contains(out, "1 listed session(s) have no cached messages") {
		t.Errorf("missing record not reported:\n%s", out)
	}
}

func TestStatsCommand_JSON(t *testing.T) {
	out, err := runCommand(t, newFixtureStore(t), "stats", "--json")
	if err != nil {
		t.Fatalf("stats --json error = %v", err)
	}

	var stats internal.CacheStats
	testutil.JSONUnmarshal(t, []byte(out), &stats)
	want := internal.CacheStats{
		SessionsInList:        2,
		CachedSessions:        2,
		TotalMessages:         3,
		CacheValid:            true,
		MaxSessions:           15,
		MaxMessagesPerSession: 25,
	}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestStatsCommand_EmptyStore(t *testing.T) {
	out, err := runCommand(t, newStorePath(t), "stats")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	if !strings.Contains(out, "missing or expired") {
		t.Errorf("empty store should report a missing index:\n%s", out)
	}
}

func TestCleanupCommand(t *testing.T) {
	store := newFixtureStore(t)
	cache := openTestCache(t, store)
	cfg := cache.Config()
	old := time.Now().Add(-13 * time.Hour)

	seed := map[string]string{
		cfg.SessionKey("stale"): testutil.EncodeEntry(t, internal.CreateTestRecord("stale"), old),
		cfg.SessionKey("ghost"): testutil.EncodeEntry(t, internal.CreateTestRecord("ghost"), time.Now()),
		"unrelated_key":         "kept",
	}
	for k, v := range seed {
		if err := cache.Store().Set(k, v); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}

	out, err := runCommand(t, store, "cleanup")
	if err != nil {
		t.Fatalf("cleanup error = %v", err)
	}
	if !strings.Contains(out, "Removed 1 expired and 1 orphaned entries") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	for _, id := range []string{"s1", "s2"} {
		if _, ok := cache.GetSessionFromCache(id); !ok {
			t.Errorf("indexed session %s should survive cleanup", id)
		}
	}
	if v, ok := cache.Store().Get("unrelated_key"); !ok || v != "kept" {
		t.Error("keys outside the cache prefix must not be touched")
	}
}

func TestInspectCommand(t *testing.T) {
	store := newFixtureStore(t)
	cache := openTestCache(t, store)
	if err := cache.Store().Set(cache.Config().SessionKey("bad"), "not json"); err != nil {
		t.Fatal(err)
	}

	t.Run("text", func(t *testing.T) {
		out, err := runCommand(t, store, "inspect")
		if err != nil {
			t.Fatalf("inspect error = %v", err)
		}
		for _, want := range []string{"4 entries", "arkegu_sessions_list", "arkegu_session_s1", "fresh", "corrupt"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := runCommand(t, store, "inspect", "--format", "json")
		if err != nil {
			t.Fatalf("inspect --format json error = %v", err)
		}
		var infos []internal.EntryInfo
		testutil.JSONUnmarshal(t, []byte(out), &infos)
		status := map[string]string{}
		for _, info := range infos {
			status[info.Key] = info.Status
		}
		if len(status) != 4 || status["arkegu_session_bad"] != internal.EntryCorrupt || status["arkegu_session_s2"] != internal.EntryFresh {
			t.Errorf("entry states = %v", status)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		if _, err := runCommand(t, store, "inspect", "--format", "xml"); err == nil {
			t.Error("unknown format should fail")
		}
	})

	// inspect never modifies the store
	if _, ok := cache.Store().Get(cache.Config().SessionKey("bad")); !ok {
		t.Error("corrupt entry was removed by inspect")
	}
}

func TestSyncCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sessions":
			fmt.Fprint(w, `[{"id":"a","title":"Alpha","message_count":1},{"id":"b","title":"Beta","message_count":2}]`)
		case "/sessions/a/messages":
			fmt.Fprint(w, `{"messages":[{"id":"m1","role":"user","content":"alpha question"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store := newStorePath(t)
	out, err := runCommand(t, store, "sync", "--remote", srv.URL, "--token", "secret")
	if err != nil {
		t.Fatalf("sync error = %v", err)
	}
	if !strings.Contains(out, "Synced 1 session(s)") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	cache := openTestCache(t, store)
	sessions, ok := cache.GetSessionsFromCache()
	if !ok || len(sessions) != 2 {
		t.Fatalf("index after sync = %+v", sessions)
	}
	rec, ok := cache.GetSessionFromCache("a")
	if !ok || rec.Title != "Alpha" || rec.Messages[0].Content != "alpha question" {
		t.Errorf("record a = %+v, ok = %v", rec, ok)
	}
	if _, ok := cache.GetSessionFromCache("b"); ok {
		t.Error("session b failed to fetch and should not be cached")
	}
}

func TestSyncCommand_RequiresRemote(t *testing.T) {
	_, err := runCommand(t, newStorePath(t), "sync")
	if err == nil || !strings.Contains(err.Error(), "requires --remote") {
		t.Errorf("sync error = %v, want missing --remote", err)
	}
}
