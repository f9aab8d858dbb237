package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
	"github.com/HarshaOnlineJourny/ChatApp/pkg/logging"
)

// ArchiveWorker drains the archive stream into the durable backend. It runs
// entirely off the real-time path: a failed persist leaves the entry pending
// in the stream and never affects in-memory state or delivery.
type ArchiveWorker struct {
	log     *slog.Logger
	queue   contracts.ArchiveQueue
	archive domain.MessageArchive
	group   string
}

func NewArchiveWorker(
	log *slog.Logger,
	queue contracts.ArchiveQueue,
	archive domain.MessageArchive,
	group string,
) contracts.AsyncWorker {
	return &ArchiveWorker{
		log:     log,
		queue:   queue,
		archive: archive,
		group:   group,
	}
}

func (w *ArchiveWorker) Run(ctx context.Context) error {
	if err := w.queue.Subscribe(ctx, w.group, w.ProcessEvent); err != nil {
		w.log.ErrorContext(ctx, "worker - run - subscribe failed", "group", w.group, logging.Err(err))
		return err
	}
	w.log.InfoContext(ctx, "worker - run - consuming archive stream", "group", w.group)
	<-ctx.Done()
	return nil
}

func (w *ArchiveWorker) ProcessEvent(ctx context.Context, messageID string, raw []byte) error {
	var event domain.ArchiveEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		w.log.Error("worker - process event - unreadable payload", "stream_id", messageID, logging.Err(err))
		// Poison entry: acknowledge so it is not redelivered forever.
		_ = w.queue.Acknowledge(ctx, w.group, messageID)
		_ = w.queue.Delete(ctx, messageID)
		return domain.ErrArchiveUnreadable
	}

	var err error
	switch event.Op {
	case domain.ArchiveOpSave:
		if event.Record == nil {
			err = domain.ErrArchiveUnreadable
			break
		}
		err = w.archive.SaveMessage(ctx, *event.Record)
	case domain.ArchiveOpClear:
		err = w.archive.DeleteChat(ctx, event.ChatKey)
	default:
		w.log.Warn("worker - process event - unknown op", "op", event.Op, "stream_id", messageID)
	}
	if err != nil {
		w.log.ErrorContext(ctx, "worker - process event - persist failed",
			"stream_id", messageID, logging.Chat(event.ChatKey), logging.Err(err))
		return err
	}

	if err := w.queue.Acknowledge(ctx, w.group, messageID); err != nil {
		w.log.ErrorContext(ctx, "worker - process event - acknowledge failed", "stream_id", messageID, logging.Err(err))
		return err
	}
	if err := w.queue.Delete(ctx, messageID); err != nil {
		// Already processed and acknowledged; the stream trim will catch it.
		w.log.ErrorContext(ctx, "worker - process event - delete failed", "stream_id", messageID, logging.Err(err))
	}
	return nil
}
