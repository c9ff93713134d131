package internal

import (
	"errors"

	"github.com/google/uuid"
)

// SessionStore holds one bounded message list per session
type SessionStore struct {
	cm *CacheManager
}

// Get returns the cached record for id. Expired or corrupted records are
// removed and reported as a miss.
func (ss *SessionStore) Get(id string) (SessionRecord, bool) {
	if id == "" {
		return SessionRecord{}, false
	}
	return readEntry[SessionRecord](ss.cm, ss.cm.cfg.SessionKey(id))
}

// Save stores rec under id after clipping its messages and bounding their
// content. When the store refuses the write it retries with the newest
// message cut short, then with only the most recent few messages, and
// finally gives up leaving the previous record in place.
func (ss *SessionStore) Save(id string, rec SessionRecord) (WriteOutcome, error) {
	if err := validateSessionID(id); err != nil {
		return WriteAbandoned, err
	}

	key := ss.cm.cfg.SessionKey(id)
	prepared := ss.prepare(id, rec)

	err := writeEntry(ss.cm, key, prepared)
	if err == nil {
		return WriteOK, nil
	}
	LogWarn("Failed to save session %s: %v", id, err)

	var perr *ParseError
	if errors.As(err, &perr) {
		LogError("Abandoning write of session %s: %v", id, err)
		return WriteAbandoned, nil
	}

	for step, degrade := range ss.ladder() {
		prepared = degrade(prepared)
		if err = writeEntry(ss.cm, key, prepared); err == nil {
			LogWarn("Saved degraded session %s (step %d, %d messages)", id, step+1, len(prepared.Messages))
			return WriteDegraded, nil
		}
		LogWarn("Degraded save of session %s failed (step %d): %v", id, step+1, err)
	}

	LogError("Abandoning write of session %s: %v", id, err)
	return WriteAbandoned, nil
}

// ladder lists the payload reductions tried in order after a failed write
func (ss *SessionStore) ladder() []func(SessionRecord) SessionRecord {
	cfg := ss.cm.cfg
	return []func(SessionRecord) SessionRecord{
		func(rec SessionRecord) SessionRecord {
			if n := len(rec.Messages); n > 0 {
				rec.Messages = cloneMessages(rec.Messages)
				rec.Messages[n-1].Content = cutRunes(rec.Messages[n-1].Content, cfg.DegradedContentLength)
			}
			return rec
		},
		func(rec SessionRecord) SessionRecord {
			rec.Messages = lastMessages(rec.Messages, cfg.DegradedMessageCount)
			return rec
		},
	}
}

// prepare clips messages to the most recent MaxMessagesPerSession and
// bounds each message body
func (ss *SessionStore) prepare(id string, rec SessionRecord) SessionRecord {
	cfg := ss.cm.cfg
	proc := cfg.ContentProcessor()

	rec.ID = id
	messages := lastMessages(rec.Messages, cfg.MaxMessagesPerSession)
	for i := range messages {
		messages[i].Content = proc.Process(messages[i].Content)
	}
	rec.Messages = messages

	if rec.MessageCount < len(rec.Messages) {
		rec.MessageCount = len(rec.Messages)
	}
	if rec.LastActivityAt.IsZero() {
		rec.LastActivityAt = ss.cm.now()
	}
	return rec
}

// AddMessage appends msg to the session and mirrors the new message count
// and activity time into the index, creating the index entry if needed.
func (ss *SessionStore) AddMessage(id string, msg Message) (WriteOutcome, error) {
	if err := validateSessionID(id); err != nil {
		return WriteAbandoned, err
	}
	if err := validateRole(msg.Role); err != nil {
		return WriteAbandoned, err
	}

	now := ss.cm.now()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}

	rec, ok := ss.Get(id)
	if !ok {
		rec = SessionRecord{ID: id}
	}
	meta, indexed := ss.cm.Index.lookup(id)

	// An evicted record keeps counting from its index entry
	count := max(rec.MessageCount, len(rec.Messages), meta.MessageCount) + 1
	rec.Messages = append(cloneMessages(rec.Messages), msg)
	rec.MessageCount = count
	rec.LastActivityAt = now

	if rec.Title == "" {
		if indexed && meta.Title != "" {
			rec.Title = meta.Title
		} else {
			rec.Title = deriveTitle(rec.Messages[0].Content)
		}
	}

	outcome, err := ss.Save(id, rec)
	if err != nil || !outcome.Stored() {
		return outcome, err
	}

	if indexed {
		if _, err := ss.cm.Index.Update(id, SessionPatch{MessageCount: &count}); err != nil {
			return outcome, err
		}
	} else {
		if _, err := ss.cm.Index.Add(SessionMetadata{
			ID:             id,
			Title:          rec.Title,
			LastActivityAt: now,
			MessageCount:   count,
		}); err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

// Remove deletes the record for id
func (ss *SessionStore) Remove(id string) {
	if id == "" {
		return
	}
	ss.cm.store.Remove(ss.cm.cfg.SessionKey(id))
}

// lastMessages returns a copy of the n most recent messages
func lastMessages(messages []Message, n int) []Message {
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	return cloneMessages(messages)
}

func cloneMessages(messages []Message) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}
