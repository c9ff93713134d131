package internal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default cache limits
const (
	DefaultKeyPrefix             = "arkegu_"
	DefaultMaxSessions           = 15
	DefaultMaxMessagesPerSession = 25
	DefaultMaxMessageLength      = 10000
	DefaultCompressionThreshold  = 1000
	DefaultMaxStorageBytes       = 4 * 1024 * 1024
	DefaultCacheDuration         = 12 * time.Hour
	DefaultDegradedContentLength = 500
	DefaultDegradedMessageCount  = 5
)

// Config holds the cache limits. Zero values fall back to the defaults.
type Config struct {
	KeyPrefix             string        `yaml:"key_prefix"`
	MaxSessions           int           `yaml:"max_sessions"`
	MaxMessagesPerSession int           `yaml:"max_messages_per_session"`
	MaxMessageLength      int           `yaml:"max_message_length"`
	CompressionThreshold  int           `yaml:"compression_threshold"`
	MaxStorageBytes       int64         `yaml:"max_storage_bytes"`
	CacheDuration         time.Duration `yaml:"cache_duration"`
	DegradedContentLength int           `yaml:"degraded_content_length"`
	DegradedMessageCount  int           `yaml:"degraded_message_count"`
}

// DefaultConfig returns the stock limits
func DefaultConfig() Config {
	return Config{
		KeyPrefix:             DefaultKeyPrefix,
		MaxSessions:           DefaultMaxSessions,
		MaxMessagesPerSession: DefaultMaxMessagesPerSession,
		MaxMessageLength:      DefaultMaxMessageLength,
		CompressionThreshold:  DefaultCompressionThreshold,
		MaxStorageBytes:       DefaultMaxStorageBytes,
		CacheDuration:         DefaultCacheDuration,
		DegradedContentLength: DefaultDegradedContentLength,
		DegradedMessageCount:  DefaultDegradedMessageCount,
	}
}

// LoadConfig reads a YAML config file. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, &ParseError{Source: "config", Key: path, Err: err}
	}

	cfg = fileCfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.KeyPrefix == "" {
		c.KeyPrefix = d.KeyPrefix
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = d.MaxSessions
	}
	if c.MaxMessagesPerSession == 0 {
		c.MaxMessagesPerSession = d.MaxMessagesPerSession
	}
	if c.MaxMessageLength == 0 {
		c.MaxMessageLength = d.MaxMessageLength
	}
	if c.CompressionThreshold == 0 {
		c.CompressionThreshold = d.CompressionThreshold
	}
	if c.MaxStorageBytes == 0 {
		c.MaxStorageBytes = d.MaxStorageBytes
	}
	if c.CacheDuration == 0 {
		c.CacheDuration = d.CacheDuration
	}
	if c.DegradedContentLength == 0 {
		c.DegradedContentLength = d.DegradedContentLength
	}
	if c.DegradedMessageCount == 0 {
		c.DegradedMessageCount = d.DegradedMessageCount
	}
	return c
}

// Validate rejects limits that cannot work together
func (c Config) Validate() error {
	switch {
	case c.MaxSessions < 1:
		return fmt.Errorf("max_sessions must be positive, got %d", c.MaxSessions)
	case c.MaxMessagesPerSession < 1:
		return fmt.Errorf("max_messages_per_session must be positive, got %d", c.MaxMessagesPerSession)
	case c.MaxMessageLength <= truncationReserve:
		return fmt.Errorf("max_message_length must exceed %d, got %d", truncationReserve, c.MaxMessageLength)
	case c.MaxStorageBytes < 1:
		return fmt.Errorf("max_storage_bytes must be positive, got %d", c.MaxStorageBytes)
	case c.CacheDuration <= 0:
		return fmt.Errorf("cache_duration must be positive, got %s", c.CacheDuration)
	case c.DegradedMessageCount < 1:
		return fmt.Errorf("degraded_message_count must be positive, got %d", c.DegradedMessageCount)
	}
	return nil
}

// IndexKey is the storage key of the sessions list
func (c Config) IndexKey() string {
	return c.KeyPrefix + "sessions_list"
}

// SessionKeyPrefix is the prefix shared by all session record keys
func (c Config) SessionKeyPrefix() string {
	return c.KeyPrefix + "session_"
}

// SessionKey returns the storage key of one session record
func (c Config) SessionKey(id string) string {
	return c.SessionKeyPrefix() + id
}
