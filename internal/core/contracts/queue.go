package contracts

import (
	"context"
)

// ArchiveQueue decouples the real-time delivery path from durable storage.
// Publish is the producer side (history service); Subscribe is the consumer
// side (archive worker).
type ArchiveQueue interface {
	Publish(ctx context.Context, payload []byte) error
	// Subscribe reads the stream through a consumer group and invokes the
	// handler per entry. Returns once the consumer loop is started.
	Subscribe(ctx context.Context, group string, handler func(ctx context.Context, messageID string, data []byte) error) error
	// Acknowledge marks a stream entry as processed for the group.
	Acknowledge(ctx context.Context, group, messageID string) error
	// Delete removes a processed entry from the stream.
	Delete(ctx context.Context, messageID string) error
}
