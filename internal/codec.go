package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// encodeEntry serializes data wrapped in a CacheEntry stamped with writtenAt.
// It never panics; a failure is logged and reported as !ok.
func encodeEntry[T any](key string, data T, writtenAt time.Time) (raw string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			LogWarn("%v", &ParseError{Source: "encode", Key: key, Err: fmt.Errorf("panic: %v", r)})
			raw, ok = "", false
		}
	}()

	b, err := json.Marshal(CacheEntry[T]{Data: data, Timestamp: writtenAt.UnixMilli()})
	if err != nil {
		LogWarn("%v", &ParseError{Source: "encode", Key: key, Err: err})
		return "", false
	}
	return string(b), true
}

// decodeEntry parses a stored CacheEntry. Malformed input is reported as !ok.
func decodeEntry[T any](key, raw string) (entry CacheEntry[T], ok bool) {
	defer func() {
		if r := recover(); r != nil {
			LogWarn("%v", &ParseError{Source: "decode", Key: key, Err: fmt.Errorf("panic: %v", r)})
			entry, ok = CacheEntry[T]{}, false
		}
	}()

	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		LogWarn("%v", &ParseError{Source: "decode", Key: key, Err: err})
		return CacheEntry[T]{}, false
	}
	if entry.Timestamp <= 0 {
		LogWarn("%v", &ParseError{Source: "decode", Key: key, Err: errors.New("missing timestamp")})
		return CacheEntry[T]{}, false
	}
	return entry, true
}

// isFresh reports whether an entry written at writtenAt (unix ms) is still
// valid at now. The boundary itself is still valid.
func isFresh(writtenAt int64, now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-writtenAt <= ttl.Milliseconds()
}

// readEntry loads and validates the entry under key. Corrupted and expired
// entries are deleted and reported as a miss.
func readEntry[T any](cm *CacheManager, key string) (T, bool) {
	var zero T

	raw, ok := cm.store.Get(key)
	if !ok {
		return zero, false
	}

	entry, ok := decodeEntry[T](key, raw)
	if !ok {
		LogDebug("Removing corrupted cache entry %s", key)
		cm.store.Remove(key)
		return zero, false
	}

	if !isFresh(entry.Timestamp, cm.now(), cm.cfg.CacheDuration) {
		LogDebug("Cache entry %s expired", key)
		cm.store.Remove(key)
		return zero, false
	}

	return entry.Data, true
}

// writeEntry serializes data and stores it under key after making room
// through the quota manager.
func writeEntry[T any](cm *CacheManager, key string, data T) error {
	raw, ok := encodeEntry(key, data, cm.now())
	if !ok {
		return &ParseError{Source: "encode", Key: key, Err: errors.New("unserializable value")}
	}

	required := entrySize(key, raw)
	if old, exists := cm.store.Get(key); exists {
		required -= entrySize(key, old)
	}
	if required > 0 && !cm.Quota.HasSpace(required) {
		freed := cm.Quota.FreeSpace(required)
		LogDebug("Freed %d bytes before writing %s", freed, key)
	}

	return cm.store.Set(key, raw)
}
