package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"sync"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
	"github.com/HarshaOnlineJourny/ChatApp/pkg/logging"
)

// HistoryService owns per-pair conversation history. The in-memory map is
// authoritative for the real-time path; when an archive queue is configured
// every mutation is also published fire-and-forget, so durability failures
// never block or roll back delivery.
type HistoryService struct {
	log   *slog.Logger
	queue contracts.ArchiveQueue // nil when archiving is disabled

	mu    sync.RWMutex
	chats map[string][]domain.MessageRecord
}

func NewHistoryService(log *slog.Logger, queue contracts.ArchiveQueue) *HistoryService {
	return &HistoryService{
		log:   log,
		queue: queue,
		chats: make(map[string][]domain.MessageRecord),
	}
}

// Append stores the record under its pair key, preserving insertion order.
func (h *HistoryService) Append(ctx context.Context, rec domain.MessageRecord) {
	key := domain.ChatKey(rec.Sender, rec.Recipient)
	h.mu.Lock()
	h.chats[key] = append(h.chats[key], rec)
	h.mu.Unlock()

	h.publish(ctx, domain.ArchiveEvent{Op: domain.ArchiveOpSave, ChatKey: key, Record: &rec})
}

// Fetch returns a copy of the ordered history for the pair key. Unknown keys
// yield an empty slice, never an error.
func (h *HistoryService) Fetch(chatKey string) []domain.MessageRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	records := h.chats[chatKey]
	out := make([]domain.MessageRecord, len(records))
	for i, rec := range records {
		rec.Reactions = maps.Clone(rec.Reactions)
		out[i] = rec
	}
	return out
}

// Clear removes all records under the pair key. Idempotent.
func (h *HistoryService) Clear(ctx context.Context, chatKey string) {
	h.mu.Lock()
	delete(h.chats, chatKey)
	h.mu.Unlock()

	h.publish(ctx, domain.ArchiveEvent{Op: domain.ArchiveOpClear, ChatKey: chatKey})
}

// AddReaction increments the symbol's count on the record addressed by
// messageID and returns the new count. The second result is false when no
// such message exists under the key, e.g. the history was already cleared.
func (h *HistoryService) AddReaction(chatKey, messageID, symbol string) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	records := h.chats[chatKey]
	for i := range records {
		if records[i].ID != messageID {
			continue
		}
		if records[i].Reactions == nil {
			records[i].Reactions = make(map[string]int)
		}
		records[i].Reactions[symbol]++
		return records[i].Reactions[symbol], true
	}
	return 0, false
}

// publish hands the event to the archive stream off the caller's critical
// path. The session context may end before the write lands, so the queue is
// driven with a detached context.
func (h *HistoryService) publish(ctx context.Context, event domain.ArchiveEvent) {
	if h.queue == nil {
		return
	}
	raw, err := json.Marshal(event)
	if err != nil {
		h.log.Error("history - archive publish - marshal failed", logging.Chat(event.ChatKey), logging.Err(err))
		return
	}
	go func(ctx context.Context) {
		if err := h.queue.Publish(ctx, raw); err != nil {
			h.log.ErrorContext(ctx, "history - archive publish - stream write failed", logging.Chat(event.ChatKey), logging.Err(err))
		}
	}(context.WithoutCancel(ctx))
}
