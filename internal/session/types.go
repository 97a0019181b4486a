package session

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session: not found")

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one entry in a session's bounded message log. Messages are
// immutable once created.
type ChatMessage struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Session is the unit of conversational continuity. The session document and
// its message log live under the same identifier and share a lifecycle.
type Session struct {
	ID           string         `json:"session_id"`
	UserID       string         `json:"user_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active"`
	MessageCount int            `json:"message_count"`
	Settings     map[string]any `json:"settings"`
}

// DefaultSettings returns the settings applied to newly created sessions.
func DefaultSettings(language string) map[string]any {
	if language == "" {
		language = "ar"
	}
	return map[string]any{
		"language":      language,
		"therapy_style": "supportive",
		"safety_level":  "standard",
		"privacy_mode":  true,
	}
}

// Stats describes the storage backing a store, for health reporting.
type Stats struct {
	StorageType   string `json:"storage_type"`
	SessionCount  int64  `json:"session_count,omitempty"`
	TotalMessages int64  `json:"total_messages,omitempty"`
	TotalKeys     int64  `json:"total_keys,omitempty"`
}
