package domain

import "encoding/json"

// Event types accepted from clients.
const (
	TypeRegister       = "register"
	TypeGetOnlineUsers = "get_online_users"
	TypePrivateMessage = "private_message"
	TypeGetChatHistory = "get_chat_history"
	TypeMarkRead       = "mark_messages_read"
	TypeAddReaction    = "add_reaction"
	TypeClearChat      = "clear_chat"
)

// Event types pushed to clients.
const (
	TypeRegistered        = "registered"
	TypeRegistrationError = "registration_error"
	TypeUpdateUsers       = "update_users"
	TypeChatHistory       = "chat_history"
	TypeUnreadCounts      = "unread_counts"
	TypeReactionAdded     = "reaction_added"
	TypeChatCleared       = "chat_cleared"
)

// Envelope is the wire frame for every client event: a closed type tag plus
// the event-specific payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RegisterPayload is the profile draft a client submits on register.
type RegisterPayload struct {
	Username  string   `json:"username"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Country   string   `json:"country"`
	State     string   `json:"state"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// RegisteredEvent acknowledges a successful registration.
type RegisteredEvent struct {
	Type         string `json:"type"` // "registered"
	ConnectionID string `json:"connectionId"`
}

// RegistrationErrorEvent is the only failure surfaced to the client.
type RegistrationErrorEvent struct {
	Type   string `json:"type"` // "registration_error"
	Reason string `json:"message"`
}

// UpdateUsersEvent carries the full presence snapshot.
type UpdateUsersEvent struct {
	Type  string        `json:"type"` // "update_users"
	Users []UserProfile `json:"users"`
}

// PrivateMessagePayload addresses the recipient either by connection id or,
// when RecipientID is empty, by username.
type PrivateMessagePayload struct {
	RecipientID       string `json:"recipientId"`
	RecipientUsername string `json:"recipientUsername"`
	Body              string `json:"message"`
	IsImage           bool   `json:"isImage"`
}

// PrivateMessageEvent delivers a stored record to both parties.
type PrivateMessageEvent struct {
	Type string `json:"type"` // "private_message"
	MessageRecord
}

// ChatHistoryPayload requests the history with one peer.
type ChatHistoryPayload struct {
	WithUsername string `json:"withUsername"`
}

// ChatHistoryEvent returns the ordered history with one peer.
type ChatHistoryEvent struct {
	Type         string          `json:"type"` // "chat_history"
	WithUsername string          `json:"withUsername"`
	History      []MessageRecord `json:"history"`
}

// UnreadCountsEvent pushes the recipient's per-sender pending counts.
type UnreadCountsEvent struct {
	Type   string         `json:"type"` // "unread_counts"
	Counts map[string]int `json:"counts"`
}

// AddReactionPayload attaches a reaction symbol to a stored message.
type AddReactionPayload struct {
	MessageID    string `json:"messageId"`
	Symbol       string `json:"reaction"`
	WithUsername string `json:"withUsername"`
}

// ReactionAddedEvent is broadcast to both chat parties.
type ReactionAddedEvent struct {
	Type       string `json:"type"` // "reaction_added"
	MessageID  string `json:"messageId"`
	Symbol     string `json:"reaction"`
	ByUsername string `json:"byUsername"`
}

// ClearChatPayload purges the pair's history.
type ClearChatPayload struct {
	WithUsername string `json:"withUsername"`
}

// ChatClearedEvent confirms the purge to both parties.
type ChatClearedEvent struct {
	Type         string `json:"type"` // "chat_cleared"
	WithUsername string `json:"withUsername"`
}
