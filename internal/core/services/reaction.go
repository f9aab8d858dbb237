package services

import (
	"context"
	"log/slog"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
	"github.com/HarshaOnlineJourny/ChatApp/pkg/logging"
)

// ReactionService aggregates emoji reactions onto stored messages and
// notifies both chat parties. A reaction addressed at a message that no
// longer exists (send/react race, cleared history) is a logged no-op; the
// caller never sees a hard error.
type ReactionService struct {
	log      *slog.Logger
	history  *HistoryService
	registry contracts.Registry
}

func NewReactionService(log *slog.Logger, history *HistoryService, registry contracts.Registry) *ReactionService {
	return &ReactionService{log: log, history: history, registry: registry}
}

func (s *ReactionService) AddReaction(ctx context.Context, by domain.UserProfile, payload domain.AddReactionPayload) {
	key := domain.ChatKey(by.Username, payload.WithUsername)
	count, ok := s.history.AddReaction(key, payload.MessageID, payload.Symbol)
	if !ok {
		s.log.WarnContext(ctx, "reaction - add - message not found",
			logging.Chat(key), logging.Message(payload.MessageID), logging.Username(by.Username),
			logging.Err(domain.ErrMessageNotFound))
		return
	}
	s.log.InfoContext(ctx, "reaction - add - success",
		logging.Chat(key), logging.Message(payload.MessageID), "symbol", payload.Symbol, "count", count)

	event := domain.ReactionAddedEvent{
		Type:       domain.TypeReactionAdded,
		MessageID:  payload.MessageID,
		Symbol:     payload.Symbol,
		ByUsername: by.Username,
	}
	_ = s.registry.Send(ctx, by.ConnectionID, event)
	if peer, online := s.registry.LookupByUsername(payload.WithUsername); online {
		_ = s.registry.Send(ctx, peer.ConnectionID, event)
	}
}
