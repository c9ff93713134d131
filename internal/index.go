package internal

import "errors"

// SessionIndex is the persisted, capped list of session metadata
type SessionIndex struct {
	cm *CacheManager
}

// List returns the cached sessions. An expired or missing index is a miss;
// a corrupted index clears the whole cache.
func (ix *SessionIndex) List() ([]SessionMetadata, bool) {
	key := ix.cm.cfg.IndexKey()

	raw, ok := ix.cm.store.Get(key)
	if !ok {
		return nil, false
	}

	entry, ok := decodeEntry[[]SessionMetadata](key, raw)
	if !ok {
		LogWarn("Session index is corrupted, clearing cache")
		ix.cm.ClearAll()
		return nil, false
	}

	if !isFresh(entry.Timestamp, ix.cm.now(), ix.cm.cfg.CacheDuration) {
		LogDebug("Session index expired")
		ix.cm.store.Remove(key)
		return nil, false
	}

	return entry.Data, true
}

// Save persists sessions, keeping the first MaxSessions unique ids in input
// order. Session records no longer listed are removed afterwards.
func (ix *SessionIndex) Save(sessions []SessionMetadata) WriteOutcome {
	cfg := ix.cm.cfg
	key := cfg.IndexKey()

	capped := capSessions(sessions, cfg.MaxSessions)
	if len(capped) < len(sessions) {
		LogDebug("Session index capped from %d to %d entries", len(sessions), len(capped))
	}

	saved := capped
	outcome := WriteOK
	if err := writeEntry(ix.cm, key, capped); err != nil {
		LogWarn("Failed to save session index: %v", err)
		var perr *ParseError
		if errors.As(err, &perr) {
			return WriteAbandoned
		}

		saved = capSessions(capped, cfg.DegradedMessageCount)
		if err := writeEntry(ix.cm, key, saved); err != nil {
			LogError("Abandoning session index write: %v", err)
			return WriteAbandoned
		}
		outcome = WriteDegraded
		LogWarn("Saved degraded session index with %d entries", len(saved))
	}

	if removed := ix.cm.CleanupOrphans(saved); removed > 0 {
		LogDebug("Removed %d orphaned session record(s)", removed)
	}
	return outcome
}

// Add puts meta at the front of the index, replacing any entry with the same id
func (ix *SessionIndex) Add(meta SessionMetadata) (WriteOutcome, error) {
	if err := validateSessionID(meta.ID); err != nil {
		return WriteAbandoned, err
	}
	if meta.LastActivityAt.IsZero() {
		meta.LastActivityAt = ix.cm.now()
	}

	current, _ := ix.List()
	next := make([]SessionMetadata, 0, len(current)+1)
	next = append(next, meta)
	for _, s := range current {
		if s.ID != meta.ID {
			next = append(next, s)
		}
	}
	return ix.Save(next), nil
}

// Update applies patch to the entry with the given id and refreshes its
// activity time. Messages in the patch are written to the session store.
// An id missing from the index leaves the index untouched.
func (ix *SessionIndex) Update(id string, patch SessionPatch) (WriteOutcome, error) {
	if err := validateSessionID(id); err != nil {
		return WriteAbandoned, err
	}

	now := ix.cm.now()
	current, _ := ix.List()

	found := false
	next := make([]SessionMetadata, len(current))
	for i, s := range current {
		if s.ID == id {
			found = true
			if patch.Title != nil {
				s.Title = *patch.Title
			}
			if patch.MessageCount != nil {
				s.MessageCount = *patch.MessageCount
			}
			s.LastActivityAt = now
		}
		next[i] = s
	}

	outcome := WriteAbandoned
	if found {
		outcome = ix.Save(next)
	} else {
		LogDebug("Session %s not in index, skipping index update", id)
	}

	if patch.Messages != nil {
		rec, ok := ix.cm.Sessions.Get(id)
		if !ok {
			rec = SessionRecord{ID: id}
		}
		rec.Messages = patch.Messages
		if patch.Title != nil {
			rec.Title = *patch.Title
		}
		if patch.MessageCount != nil {
			rec.MessageCount = *patch.MessageCount
		}
		rec.LastActivityAt = now
		if _, err := ix.cm.Sessions.Save(id, rec); err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

// Remove drops the entry with the given id and its session record
func (ix *SessionIndex) Remove(id string) (WriteOutcome, error) {
	if err := validateSessionID(id); err != nil {
		return WriteAbandoned, err
	}

	current, ok := ix.List()
	if !ok {
		ix.cm.Sessions.Remove(id)
		return WriteOK, nil
	}

	next := make([]SessionMetadata, 0, len(current))
	for _, s := range current {
		if s.ID != id {
			next = append(next, s)
		}
	}

	outcome := ix.Save(next)
	ix.cm.Sessions.Remove(id)
	return outcome, nil
}

// lookup returns the index entry for id
func (ix *SessionIndex) lookup(id string) (SessionMetadata, bool) {
	sessions, _ := ix.List()
	for _, s := range sessions {
		if s.ID == id {
			return s, true
		}
	}
	return SessionMetadata{}, false
}

// capSessions keeps the first max entries with unique ids
func capSessions(sessions []SessionMetadata, limit int) []SessionMetadata {
	seen := make(map[string]bool, len(sessions))
	out := make([]SessionMetadata, 0, min(len(sessions), limit))
	for _, s := range sessions {
		if len(out) == limit {
			break
		}
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}
