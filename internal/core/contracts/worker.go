package contracts

import "context"

// AsyncWorker drains the archive queue into the durable backend.
type AsyncWorker interface {
	// Run starts the consumer loop and blocks until ctx is cancelled.
	Run(ctx context.Context) error
	// ProcessEvent persists one archive event, then acknowledges and deletes
	// it from the stream.
	ProcessEvent(ctx context.Context, messageID string, raw []byte) error
}
