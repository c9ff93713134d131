package remote

import (
	"context"
	"fmt"

	"github.com/arkegu/arkegu-cache/internal"
)

// Source is the authoritative session API
type Source interface {
	ListSessions(ctx context.Context) ([]internal.SessionMetadata, error)
	GetMessages(ctx context.Context, sessionID string) ([]internal.Message, error)
}

// Loader serves reads from the cache and falls through to the remote
// source on a miss, writing what it fetched back into the cache.
type Loader struct {
	cache  *internal.CacheManager
	source Source
}

// NewLoader creates a read-through loader
func NewLoader(cache *internal.CacheManager, source Source) *Loader {
	return &Loader{cache: cache, source: source}
}

// Sessions returns the session list. fromCache reports whether the remote
// was skipped.
func (l *Loader) Sessions(ctx context.Context) (sessions []internal.SessionMetadata, fromCache bool, err error) {
	if cached, ok := l.cache.GetSessionsFromCache(); ok {
		return cached, true, nil
	}

	sessions, err = l.source.ListSessions(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list remote sessions: %w", err)
	}
	internal.LogDebug("Fetched %d session(s) from remote", len(sessions))

	if outcome := l.cache.SaveSessionsToCache(sessions); !outcome.Stored() {
		internal.LogWarn("Session list fetched but not cached")
	}
	return sessions, false, nil
}

// Session returns one session record, fetching its history on a miss
func (l *Loader) Session(ctx context.Context, id string) (rec internal.SessionRecord, fromCache bool, err error) {
	if id == "" {
		return internal.SessionRecord{}, false, internal.ErrMissingSessionID
	}
	if cached, ok := l.cache.GetSessionFromCache(id); ok {
		return cached, true, nil
	}

	messages, err := l.source.GetMessages(ctx, id)
	if err != nil {
		return internal.SessionRecord{}, false, fmt.Errorf("failed to fetch remote session %s: %w", id, err)
	}

	rec = internal.SessionRecord{
		ID:           id,
		Messages:     messages,
		MessageCount: len(messages),
	}
	if sessions, ok := l.cache.GetSessionsFromCache(); ok {
		for _, s := range sessions {
			if s.ID == id {
				rec.Title = s.Title
				rec.LastActivityAt = s.LastActivityAt
				rec.MessageCount = max(rec.MessageCount, s.MessageCount)
				break
			}
		}
	}

	if outcome, err := l.cache.SaveSessionToCache(id, rec); err != nil {
		return internal.SessionRecord{}, false, err
	} else if !outcome.Stored() {
		internal.LogWarn("Session %s fetched but not cached", id)
	}

	if cached, ok := l.cache.GetSessionFromCache(id); ok {
		return cached, false, nil
	}
	return rec, false, nil
}

// Sync refreshes the session list and every listed session from the
// remote, regardless of what is cached. It returns how many sessions were
// cached.
func (l *Loader) Sync(ctx context.Context) (int, error) {
	sessions, err := l.source.ListSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote sessions: %w", err)
	}
	l.cache.SaveSessionsToCache(sessions)

	indexed, _ := l.cache.GetSessionsFromCache()
	synced := 0
	for _, s := range indexed {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		messages, err := l.source.GetMessages(ctx, s.ID)
		if err != nil {
			internal.LogWarn("Skipping session %s: %v", s.ID, err)
			continue
		}
		outcome, err := l.cache.SaveSessionToCache(s.ID, internal.SessionRecord{
			ID:             s.ID,
			Title:          s.Title,
			Messages:       messages,
			LastActivityAt: s.LastActivityAt,
			MessageCount:   max(s.MessageCount, len(messages)),
		})
		if err != nil {
			return synced, err
		}
		if outcome.Stored() {
			synced++
		}
	}
	return synced, nil
}
