package domain

import "context"

// MessageArchive is the durable write-through backend for chat history.
// Implementations must never be awaited on the real-time delivery path;
// failures are logged and absorbed.
type MessageArchive interface {
	SaveMessage(ctx context.Context, rec MessageRecord) error
	// DeleteChat removes every archived record for the pair key. Idempotent.
	DeleteChat(ctx context.Context, chatKey string) error
	// Messages returns the archived records for the pair key in insertion
	// order. An unknown key yields an empty slice, not an error. The live
	// delivery path never reads the archive; this is the read seam for
	// offline tooling and a future history backfill.
	Messages(ctx context.Context, chatKey string) ([]MessageRecord, error)
}

// UserArchive persists registered profiles for offline analysis. Best effort,
// same non-blocking contract as MessageArchive.
type UserArchive interface {
	SaveUser(ctx context.Context, profile UserProfile) error
}
