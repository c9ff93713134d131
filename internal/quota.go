package internal

import "sort"

// QuotaManager keeps total storage under the configured byte ceiling by
// evicting the least recently active session records.
type QuotaManager struct {
	cm *CacheManager
}

// HasSpace reports whether required more bytes fit under the ceiling
func (q *QuotaManager) HasSpace(required int64) bool {
	return q.cm.store.TotalBytes()+required < q.cm.cfg.MaxStorageBytes
}

// Available returns the bytes left under the ceiling
func (q *QuotaManager) Available() int64 {
	return q.cm.cfg.MaxStorageBytes - q.cm.store.TotalBytes()
}

// FreeSpace removes session records, oldest activity first, until at least
// required bytes were freed or the index is exhausted. Index entries are
// kept; only the records go. It returns the bytes freed.
func (q *QuotaManager) FreeSpace(required int64) int64 {
	sessions, ok := q.cm.Index.List()
	if !ok || len(sessions) == 0 {
		return 0
	}

	byAge := make([]SessionMetadata, len(sessions))
	copy(byAge, sessions)
	sort.SliceStable(byAge, func(i, j int) bool {
		return byAge[i].LastActivityAt.Before(byAge[j].LastActivityAt)
	})

	var freed int64
	for _, meta := range byAge {
		if freed >= required {
			break
		}
		key := q.cm.cfg.SessionKey(meta.ID)
		raw, exists := q.cm.store.Get(key)
		if !exists {
			continue
		}
		q.cm.store.Remove(key)
		freed += entrySize(key, raw)
		LogDebug("Evicted session %s (%d bytes) to free space", meta.ID, entrySize(key, raw))
	}

	if freed < required {
		LogWarn("Could only free %d of %d bytes", freed, required)
	}
	return freed
}
