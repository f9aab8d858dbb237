package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const archiveStream = "stream:archive"

// ArchiveQueue carries history mutations to the durable backend over a Redis
// Stream. The producer side is fire-and-forget from the caller's point of
// view; the consumer side reads through a consumer group so a crashed worker
// leaves its pending entries recoverable.
type ArchiveQueue struct {
	rdb *redis.Client
}

func NewArchiveQueue(rdb *redis.Client) *ArchiveQueue {
	return &ArchiveQueue{rdb: rdb}
}

func (q *ArchiveQueue) Publish(ctx context.Context, payload []byte) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: archiveStream,
		MaxLen: 10000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"data": payload},
	}).Err()
}

func (q *ArchiveQueue) Subscribe(
	ctx context.Context,
	group string,
	handler func(ctx context.Context, messageID string, data []byte) error,
) error {
	err := q.rdb.XGroupCreateMkStream(ctx, archiveStream, group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	consumerName := uuid.NewString()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				res, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
					Group:    group,
					Consumer: consumerName,
					Streams:  []string{archiveStream, ">"},
					Count:    16,
					Block:    2 * time.Second,
				}).Result()
				if err != nil {
					if err != redis.Nil && ctx.Err() == nil {
						slog.Error("archive queue - stream read failed", "err", err)
					}
					continue
				}
				for _, stream := range res {
					for _, msg := range stream.Messages {
						raw, ok := msg.Values["data"].(string)
						if !ok {
							continue
						}
						if err := handler(ctx, msg.ID, []byte(raw)); err != nil {
							slog.Error("archive queue - handler failed", "stream_id", msg.ID, "err", err)
						}
					}
				}
			}
		}
	}()
	return nil
}

func (q *ArchiveQueue) Acknowledge(ctx context.Context, group, messageID string) error {
	return q.rdb.XAck(ctx, archiveStream, group, messageID).Err()
}

func (q *ArchiveQueue) Delete(ctx context.Context, messageID string) error {
	return q.rdb.XDel(ctx, archiveStream, messageID).Err()
}
