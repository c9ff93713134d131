package internal

import "time"

// CacheManager is the session cache service. It owns the store handle and
// exposes the index, session and maintenance operations. Storage failures
// never escape its methods: reads report a miss and writes report a
// WriteOutcome. Returned errors are caller mistakes only.
type CacheManager struct {
	store Store
	cfg   Config
	now   func() time.Time

	Quota    *QuotaManager
	Index    *SessionIndex
	Sessions *SessionStore
}

// Option configures a CacheManager
type Option func(*CacheManager)

// WithConfig overrides the default limits
func WithConfig(cfg Config) Option {
	return func(cm *CacheManager) {
		cm.cfg = cfg.withDefaults()
	}
}

// WithClock replaces time.Now, mainly for expiry tests
func WithClock(now func() time.Time) Option {
	return func(cm *CacheManager) {
		cm.now = now
	}
}

// NewCacheManager creates a cache manager over store
func NewCacheManager(store Store, opts ...Option) *CacheManager {
	cm := &CacheManager{
		store: store,
		cfg:   DefaultConfig(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(cm)
	}
	cm.Quota = &QuotaManager{cm: cm}
	cm.Index = &SessionIndex{cm: cm}
	cm.Sessions = &SessionStore{cm: cm}
	return cm
}

// Config returns the active limits
func (cm *CacheManager) Config() Config {
	return cm.cfg
}

// Store returns the underlying key-value store
func (cm *CacheManager) Store() Store {
	return cm.store
}

// GetSessionsFromCache returns the cached session list
func (cm *CacheManager) GetSessionsFromCache() ([]SessionMetadata, bool) {
	return cm.Index.List()
}

// SaveSessionsToCache replaces the cached session list
func (cm *CacheManager) SaveSessionsToCache(sessions []SessionMetadata) WriteOutcome {
	return cm.Index.Save(sessions)
}

// AddSessionToCache puts a new session at the front of the list
func (cm *CacheManager) AddSessionToCache(meta SessionMetadata) (WriteOutcome, error) {
	return cm.Index.Add(meta)
}

// UpdateSessionInCache patches one session in the list
func (cm *CacheManager) UpdateSessionInCache(id string, patch SessionPatch) (WriteOutcome, error) {
	return cm.Index.Update(id, patch)
}

// RemoveSessionFromCache drops a session from the list and its record
func (cm *CacheManager) RemoveSessionFromCache(id string) (WriteOutcome, error) {
	return cm.Index.Remove(id)
}

// GetSessionFromCache returns one cached session record
func (cm *CacheManager) GetSessionFromCache(id string) (SessionRecord, bool) {
	return cm.Sessions.Get(id)
}

// SaveSessionToCache stores one session record
func (cm *CacheManager) SaveSessionToCache(id string, rec SessionRecord) (WriteOutcome, error) {
	return cm.Sessions.Save(id, rec)
}

// AddMessageToSessionCache appends one message to a session
func (cm *CacheManager) AddMessageToSessionCache(id string, msg Message) (WriteOutcome, error) {
	return cm.Sessions.AddMessage(id, msg)
}

// ClearAllCache removes all cached data
func (cm *CacheManager) ClearAllCache() {
	cm.ClearAll()
}

// IsCacheValid reports whether the session list entry is present and fresh
func (cm *CacheManager) IsCacheValid() bool {
	return cm.IsValid()
}

// GetCacheStats returns diagnostic counters
func (cm *CacheManager) GetCacheStats() CacheStats {
	return cm.Stats()
}
