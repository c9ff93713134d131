package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded is matched by every QuotaExceededError
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrMissingSessionID is returned when an operation is called without a session id
	ErrMissingSessionID = errors.New("session id is required")
	// ErrInvalidRole is returned for messages whose role is neither user nor assistant
	ErrInvalidRole = errors.New("message role must be user or assistant")
)

// StorageError represents errors accessing a storage backend
type StorageError struct {
	Backend string // "sqlite", "redis", "memory"
	Op      string // "get", "set", "remove", "keys", "size"
	Key     string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage error [%s] %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("storage error [%s] %s %s: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors encoding or decoding cached data
type ParseError struct {
	Source string // "encode", "decode", "config", "envelope"
	Key    string // storage key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// QuotaExceededError is returned by a store that refuses a write
type QuotaExceededError struct {
	Key       string
	Required  int64
	Available int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded writing %s: need %d bytes, %d available", e.Key, e.Required, e.Available)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

func validateSessionID(id string) error {
	if id == "" {
		return ErrMissingSessionID
	}
	return nil
}

func validateRole(role string) error {
	switch role {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
}
