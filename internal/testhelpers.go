package internal

import (
	"fmt"
	"time"
)

// testEpoch is a fixed instant used by test fixtures
var testEpoch = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// CreateTestRecord creates a session record with a short exchange
func CreateTestRecord(id string) *SessionRecord {
	return &SessionRecord{
		ID:    id,
		Title: "Test Conversation",
		Messages: []Message{
			{
				ID:        id + "-m1",
				Role:      RoleUser,
				Content:   "Hello, how are you?",
				Timestamp: testEpoch,
			},
			{
				ID:        id + "-m2",
				Role:      RoleAssistant,
				Content:   "I'm doing well, thank you!",
				Timestamp: testEpoch.Add(time.Second),
			},
		},
		LastActivityAt: testEpoch.Add(time.Second),
		MessageCount:   2,
	}
}

// CreateTestRecordWithMessages creates a session record with custom messages
func CreateTestRecordWithMessages(id string, messages []Message) *SessionRecord {
	return &SessionRecord{
		ID:             id,
		Title:          "Test Conversation",
		Messages:       messages,
		LastActivityAt: testEpoch,
		MessageCount:   len(messages),
	}
}

// CreateTestMessages creates n alternating user/assistant messages numbered from 1
func CreateTestMessages(n int) []Message {
	messages := make([]Message, 0, n)
	for i := 1; i <= n; i++ {
		role := RoleUser
		if i%2 == 0 {
			role = RoleAssistant
		}
		messages = append(messages, Message{
			ID:        fmt.Sprintf("m%d", i),
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: testEpoch.Add(time.Duration(i) * time.Second),
		})
	}
	return messages
}

// CreateTestSessionList creates n index entries, most recent first
func CreateTestSessionList(n int) []SessionMetadata {
	sessions := make([]SessionMetadata, 0, n)
	for i := 0; i < n; i++ {
		sessions = append(sessions, SessionMetadata{
			ID:             fmt.Sprintf("s%d", i+1),
			Title:          fmt.Sprintf("Session %d", i+1),
			LastActivityAt: testEpoch.Add(-time.Duration(i) * time.Minute),
			MessageCount:   i,
		})
	}
	return sessions
}
