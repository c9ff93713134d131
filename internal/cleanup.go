package internal

import (
	"encoding/json"
	"strings"
	"time"
)

// Entry states reported by Inspect
const (
	EntryFresh   = "fresh"
	EntryExpired = "expired"
	EntryCorrupt = "corrupt"
)

// EntryInfo describes one raw cache entry
type EntryInfo struct {
	Key       string    `json:"key"`
	Bytes     int64     `json:"bytes"`
	WrittenAt time.Time `json:"writtenAt,omitempty"`
	Status    string    `json:"status"`
}

// CleanupOrphans removes every session record whose id is not in sessions
// and returns how many were removed.
func (cm *CacheManager) CleanupOrphans(sessions []SessionMetadata) int {
	keep := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		keep[s.ID] = true
	}

	prefix := cm.cfg.SessionKeyPrefix()
	removed := 0
	for _, key := range cm.store.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if keep[strings.TrimPrefix(key, prefix)] {
			continue
		}
		cm.store.Remove(key)
		removed++
	}
	return removed
}

// ClearAll removes the index and every session record
func (cm *CacheManager) ClearAll() {
	cm.store.Remove(cm.cfg.IndexKey())

	prefix := cm.cfg.SessionKeyPrefix()
	for _, key := range cm.store.Keys() {
		if strings.HasPrefix(key, prefix) {
			cm.store.Remove(key)
		}
	}
	LogDebug("Cache cleared")
}

// IsValid reports whether the index entry is present and unexpired,
// regardless of its content. It never modifies the store.
func (cm *CacheManager) IsValid() bool {
	key := cm.cfg.IndexKey()
	raw, ok := cm.store.Get(key)
	if !ok {
		return false
	}
	var entry CacheEntry[json.RawMessage]
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Timestamp <= 0 {
		return false
	}
	return isFresh(entry.Timestamp, cm.now(), cm.cfg.CacheDuration)
}

// Stats cross-references the index against the individually cached records
func (cm *CacheManager) Stats() CacheStats {
	stats := CacheStats{
		CacheValid:            cm.IsValid(),
		MaxSessions:           cm.cfg.MaxSessions,
		MaxMessagesPerSession: cm.cfg.MaxMessagesPerSession,
	}

	sessions, _ := cm.Index.List()
	stats.SessionsInList = len(sessions)
	for _, s := range sessions {
		rec, ok := cm.Sessions.Get(s.ID)
		if !ok {
			continue
		}
		stats.CachedSessions++
		stats.TotalMessages += len(rec.Messages)
	}
	return stats
}

// PurgeExpired deletes every expired or unreadable entry under the cache
// prefix and returns how many were removed.
func (cm *CacheManager) PurgeExpired() int {
	now := cm.now()
	removed := 0
	for _, key := range cm.store.Keys() {
		if !strings.HasPrefix(key, cm.cfg.KeyPrefix) {
			continue
		}
		raw, ok := cm.store.Get(key)
		if !ok {
			continue
		}
		var entry CacheEntry[json.RawMessage]
		if err := json.Unmarshal([]byte(raw), &entry); err == nil && entry.Timestamp > 0 &&
			isFresh(entry.Timestamp, now, cm.cfg.CacheDuration) {
			continue
		}
		cm.store.Remove(key)
		removed++
	}
	if removed > 0 {
		LogInfo("Purged %d expired or corrupted cache entries", removed)
	}
	return removed
}

// Inspect describes every entry under the cache prefix without modifying
// the store
func (cm *CacheManager) Inspect() []EntryInfo {
	now := cm.now()
	var infos []EntryInfo
	for _, key := range cm.store.Keys() {
		if !strings.HasPrefix(key, cm.cfg.KeyPrefix) {
			continue
		}
		raw, ok := cm.store.Get(key)
		if !ok {
			continue
		}

		info := EntryInfo{Key: key, Bytes: entrySize(key, raw), Status: EntryCorrupt}
		var entry CacheEntry[json.RawMessage]
		if err := json.Unmarshal([]byte(raw), &entry); err == nil && entry.Timestamp > 0 {
			info.WrittenAt = time.UnixMilli(entry.Timestamp).UTC()
			info.Status = EntryExpired
			if isFresh(entry.Timestamp, now, cm.cfg.CacheDuration) {
				info.Status = EntryFresh
			}
		}
		infos = append(infos, info)
	}
	return infos
}
