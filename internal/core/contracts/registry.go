package contracts

import (
	"context"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

// Registry is the connection registry surface the services depend on: live
// connection bookkeeping, the username uniqueness invariant, and delivery
// primitives.
type Registry interface {
	// Attach adds an unregistered connection so it can receive presence.
	Attach(c Client)
	// Register admits a profile draft or fails with domain.ErrUsernameTaken.
	Register(connID string, profile domain.UserProfile) (*domain.UserProfile, error)
	// Unregister removes the connection; returns the removed profile, if any.
	Unregister(connID string) *domain.UserProfile
	LookupByConnection(connID string) (domain.UserProfile, bool)
	LookupByUsername(username string) (domain.UserProfile, bool)
	// Snapshot returns all registered profiles ordered by username.
	Snapshot() []domain.UserProfile
	// Send delivers an event to one connection; unknown ids are a no-op.
	Send(ctx context.Context, connID string, event any) error
	// Broadcast delivers an event to every attached connection.
	Broadcast(ctx context.Context, event any)
}

// Client represents the minimal interface the registry needs to talk to one
// WebSocket connection.
type Client interface {
	ConnectionID() string
	// Alive reports whether the transport connection is still open. Stale
	// registrations are purged by checking this before admitting a username.
	Alive() bool
	Send(ctx context.Context, data []byte) error
	Close()
}
