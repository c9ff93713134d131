package internal

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

var (
	sessionListFields = []string{"sessions", "data", "items"}
	messageListFields = []string{"messages", "data", "items"}
)

// NormalizeSessionList accepts a remote session list response shaped as a
// bare array or as an object holding the array under sessions, data or
// items, and converts every element to SessionMetadata. Elements without an
// id are skipped.
func NormalizeSessionList(raw []byte) ([]SessionMetadata, error) {
	items, err := envelopeArray(raw, "sessions", sessionListFields)
	if err != nil {
		return nil, err
	}

	sessions := make([]SessionMetadata, 0, len(items))
	for _, item := range items {
		id := firstString(item, "id", "session_id", "sessionId")
		if id == "" {
			continue
		}
		sessions = append(sessions, SessionMetadata{
			ID:             id,
			Title:          firstString(item, "title", "name"),
			LastActivityAt: firstTime(item, "updated_at", "updatedAt", "last_activity", "lastActivityAt", "created_at", "createdAt"),
			MessageCount:   int(firstInt(item, "message_count", "messageCount")),
		})
	}
	return sessions, nil
}

// NormalizeMessages accepts a remote message history response shaped as a
// bare array or as an object holding the array under messages, data or
// items. Elements with an unknown role are skipped.
func NormalizeMessages(raw []byte) ([]Message, error) {
	items, err := envelopeArray(raw, "messages", messageListFields)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(items))
	for _, item := range items {
		role := firstString(item, "role", "type")
		if validateRole(role) != nil {
			continue
		}
		messages = append(messages, Message{
			ID:        firstString(item, "id", "message_id", "messageId"),
			Role:      role,
			Content:   firstString(item, "content", "text"),
			Timestamp: firstTime(item, "created_at", "createdAt", "timestamp"),
		})
	}
	return messages, nil
}

func envelopeArray(raw []byte, what string, fields []string) ([]gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &ParseError{Source: "envelope", Key: what, Err: errors.New("invalid JSON")}
	}

	root := gjson.ParseBytes(raw)
	if root.IsArray() {
		return root.Array(), nil
	}
	if root.IsObject() {
		for _, field := range fields {
			if v := root.Get(field); v.IsArray() {
				return v.Array(), nil
			}
		}
	}
	return nil, &ParseError{
		Source: "envelope",
		Key:    what,
		Err:    fmt.Errorf("no %s array in response", what),
	}
}

func firstString(item gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := item.Get(p); v.Exists() && v.Type != gjson.Null {
			return v.String()
		}
	}
	return ""
}

func firstInt(item gjson.Result, paths ...string) int64 {
	for _, p := range paths {
		if v := item.Get(p); v.Exists() && v.Type != gjson.Null {
			return v.Int()
		}
	}
	return 0
}

// firstTime reads RFC3339 strings or unix milliseconds
func firstTime(item gjson.Result, paths ...string) time.Time {
	for _, p := range paths {
		v := item.Get(p)
		switch v.Type {
		case gjson.Number:
			return time.UnixMilli(v.Int()).UTC()
		case gjson.String:
			if t, err := time.Parse(time.RFC3339Nano, v.String()); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
