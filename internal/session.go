package internal

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SessionMetadata is the index entry for one conversation
type SessionMetadata struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	LastActivityAt time.Time `json:"lastActivityAt" yaml:"last_activity_at"`
	MessageCount   int       `json:"messageCount" yaml:"message_count"`
}

// Message is one user or assistant turn
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Role      string    `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// SessionRecord is the full cached payload for one session.
// Messages holds only the most recent messages; MessageCount counts every
// message ever added.
type SessionRecord struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Messages       []Message `json:"messages" yaml:"messages"`
	LastActivityAt time.Time `json:"lastActivityAt" yaml:"last_activity_at"`
	MessageCount   int       `json:"messageCount" yaml:"message_count"`
}

// Metadata returns the index entry describing the record
func (r *SessionRecord) Metadata() SessionMetadata {
	return SessionMetadata{
		ID:             r.ID,
		Title:          r.Title,
		LastActivityAt: r.LastActivityAt,
		MessageCount:   r.MessageCount,
	}
}

// CacheEntry wraps a persisted value with its write time (unix milliseconds)
type CacheEntry[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// SessionPatch carries the fields to change on an index entry.
// Nil fields are left untouched. A non-nil Messages slice is also written
// to the session store.
type SessionPatch struct {
	Title        *string
	MessageCount *int
	Messages     []Message
}

// CacheStats is a read-only diagnostic aggregate
type CacheStats struct {
	SessionsInList        int  `json:"sessionsInList" yaml:"sessions_in_list"`
	CachedSessions        int  `json:"cachedSessions" yaml:"cached_sessions"`
	TotalMessages         int  `json:"totalMessages" yaml:"total_messages"`
	CacheValid            bool `json:"cacheValid" yaml:"cache_valid"`
	MaxSessions           int  `json:"maxSessions" yaml:"max_sessions"`
	MaxMessagesPerSession int  `json:"maxMessagesPerSession" yaml:"max_messages_per_session"`
}

// WriteOutcome reports how far down the degradation ladder a write went
type WriteOutcome int

const (
	// WriteOK means the payload was stored as requested
	WriteOK WriteOutcome = iota
	// WriteDegraded means a reduced payload was stored
	WriteDegraded
	// WriteAbandoned means nothing was stored and the prior state is unchanged
	WriteAbandoned
)

func (o WriteOutcome) String() string {
	switch o {
	case WriteOK:
		return "ok"
	case WriteDegraded:
		return "degraded"
	case WriteAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Stored reports whether anything was persisted
func (o WriteOutcome) Stored() bool {
	return o != WriteAbandoned
}
