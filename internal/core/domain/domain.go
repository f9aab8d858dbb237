package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserProfile is the identity a client claims at registration. The username
// is immutable for the lifetime of the connection and unique among live
// connections.
type UserProfile struct {
	Username     string   `json:"username"`
	Age          int      `json:"age"`
	Gender       string   `json:"gender"`
	Country      string   `json:"country,omitempty"`
	State        string   `json:"state,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ConnectionID string   `json:"connectionId"`
}

// MessageRecord is one stored private message. ID is the addressing handle
// for reactions; Timestamp is kept for display and ordering only, two records
// in the same chat may share a clock tick.
type MessageRecord struct {
	ID        string         `json:"id"`
	Sender    string         `json:"sender"`
	Recipient string         `json:"recipient"`
	Body      string         `json:"message"`
	IsImage   bool           `json:"isImage"`
	Timestamp time.Time      `json:"timestamp"`
	Reactions map[string]int `json:"reactions"`
}

// NewMessageRecord mints a record with a fresh unique ID and an empty
// reaction map.
func NewMessageRecord(sender, recipient, body string, isImage bool) MessageRecord {
	return MessageRecord{
		ID:        uuid.NewString(),
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
		IsImage:   isImage,
		Timestamp: time.Now().UTC(),
		Reactions: make(map[string]int),
	}
}

// ChatKey returns the order-independent identifier for a pair of usernames:
// the two names sorted lexicographically and joined with "::".
// ChatKey(a, b) == ChatKey(b, a) for all pairs.
func ChatKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "::")
}
