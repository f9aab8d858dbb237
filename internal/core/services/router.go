package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
	"github.com/HarshaOnlineJourny/ChatApp/pkg/logging"
)

var tracer = otel.Tracer("router-service")

// RouterService orchestrates every client event: it validates sender and
// recipient liveness against the registry, persists through the history
// service, updates unread counters and delivers to both parties. All failure
// kinds except a registration conflict are absorbed here and logged.
type RouterService struct {
	log       *slog.Logger
	registry  contracts.Registry
	history   *HistoryService
	unread    *UnreadService
	reactions *ReactionService
	presence  *PresenceService
	users     domain.UserArchive // nil when archiving is disabled
}

func NewRouterService(
	log *slog.Logger,
	registry contracts.Registry,
	history *HistoryService,
	unread *UnreadService,
	reactions *ReactionService,
	presence *PresenceService,
	users domain.UserArchive,
) *RouterService {
	return &RouterService{
		log:       log,
		registry:  registry,
		history:   history,
		unread:    unread,
		reactions: reactions,
		presence:  presence,
		users:     users,
	}
}

// HandleEnvelope decodes one inbound frame and dispatches it by type.
// Malformed frames and unknown types are dropped and logged.
func (s *RouterService) HandleEnvelope(ctx context.Context, connID string, raw []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.log.WarnContext(ctx, "router - envelope - malformed frame", logging.Connection(connID), logging.Err(err))
		return
	}
	switch env.Type {
	case domain.TypeRegister:
		var p domain.RegisterPayload
		if s.decode(ctx, connID, env, &p) {
			s.HandleRegister(ctx, connID, p)
		}
	case domain.TypeGetOnlineUsers:
		s.presence.PublishTo(ctx, connID)
	case domain.TypePrivateMessage:
		var p domain.PrivateMessagePayload
		if s.decode(ctx, connID, env, &p) {
			s.HandleMessage(ctx, connID, p)
		}
	case domain.TypeGetChatHistory:
		var p domain.ChatHistoryPayload
		if s.decode(ctx, connID, env, &p) {
			s.HandleHistory(ctx, connID, p)
		}
	case domain.TypeMarkRead:
		var p domain.ChatHistoryPayload
		if s.decode(ctx, connID, env, &p) {
			s.HandleMarkRead(ctx, connID, p)
		}
	case domain.TypeAddReaction:
		var p domain.AddReactionPayload
		if s.decode(ctx, connID, env, &p) {
			s.HandleReaction(ctx, connID, p)
		}
	case domain.TypeClearChat:
		var p domain.ClearChatPayload
		if s.decode(ctx, connID, env, &p) {
			s.HandleClear(ctx, connID, p)
		}
	default:
		s.log.WarnContext(ctx, "router - envelope - unknown type", logging.Connection(connID), "event_type", env.Type)
	}
}

// HandleRegister admits or rejects the profile draft. The conflict is the
// only failure surfaced back to the client.
func (s *RouterService) HandleRegister(ctx context.Context, connID string, payload domain.RegisterPayload) {
	ctx, span := tracer.Start(ctx, "RouterService.HandleRegister", trace.WithAttributes(
		attribute.String("connection_id", connID),
		attribute.String("username", payload.Username),
	))
	defer span.End()

	if payload.Username == "" {
		_ = s.registry.Send(ctx, connID, domain.RegistrationErrorEvent{
			Type: domain.TypeRegistrationError, Reason: "username is required",
		})
		return
	}

	profile, err := s.registry.Register(connID, domain.UserProfile{
		Username:  payload.Username,
		Age:       payload.Age,
		Gender:    payload.Gender,
		Country:   payload.Country,
		State:     payload.State,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registration conflict")
		s.log.InfoContext(ctx, "router - register - conflict", logging.Connection(connID), logging.Username(payload.Username))
		_ = s.registry.Send(ctx, connID, domain.RegistrationErrorEvent{
			Type: domain.TypeRegistrationError, Reason: "Username is already taken",
		})
		return
	}
	s.log.InfoContext(ctx, "router - register - success", logging.Connection(connID), logging.Username(profile.Username))

	_ = s.registry.Send(ctx, connID, domain.RegisteredEvent{Type: domain.TypeRegistered, ConnectionID: connID})
	s.presence.Publish(ctx)
	s.archiveUser(ctx, *profile)
	span.SetStatus(codes.Ok, "registered")
}

// HandleMessage walks one message through Received → Validated → Persisted →
// Delivered. Unknown senders and offline recipients drop the message; nothing
// is queued and the sender receives no error.
func (s *RouterService) HandleMessage(ctx context.Context, connID string, payload domain.PrivateMessagePayload) {
	ctx, span := tracer.Start(ctx, "RouterService.HandleMessage", trace.WithAttributes(
		attribute.String("connection_id", connID),
		attribute.Int("payload_size", len(payload.Body)),
	))
	defer span.End()

	sender, ok := s.registry.LookupByConnection(connID)
	if !ok {
		span.RecordError(domain.ErrUnknownSender)
		s.log.WarnContext(ctx, "router - message - unknown sender", logging.Connection(connID))
		return
	}
	recipient, ok := s.resolveRecipient(payload)
	if !ok {
		span.RecordError(domain.ErrUnknownRecipient)
		s.log.WarnContext(ctx, "router - message - unknown recipient",
			logging.Username(sender.Username), "recipient_id", payload.RecipientID, logging.Peer(payload.RecipientUsername))
		return
	}

	rec := domain.NewMessageRecord(sender.Username, recipient.Username, payload.Body, payload.IsImage)
	s.history.Append(ctx, rec)
	s.unread.RecordDelivery(recipient.Username, sender.Username)
	span.SetAttributes(attribute.String("message_id", rec.ID))

	event := domain.PrivateMessageEvent{Type: domain.TypePrivateMessage, MessageRecord: rec}
	// Delivery to a connection that closed after validation is simply lost.
	_ = s.registry.Send(ctx, recipient.ConnectionID, event)
	_ = s.registry.Send(ctx, connID, event)
	_ = s.registry.Send(ctx, recipient.ConnectionID, domain.UnreadCountsEvent{
		Type: domain.TypeUnreadCounts, Counts: s.unread.Snapshot(recipient.Username),
	})
	s.log.InfoContext(ctx, "router - message - delivered",
		logging.Username(sender.Username), logging.Peer(recipient.Username), logging.Message(rec.ID))
	span.SetStatus(codes.Ok, "delivered")
}

// HandleHistory serves the pair's ordered history and, matching the reference
// behavior, treats the fetch as opening the conversation: the unread bucket
// for that peer is reset and the fresh counts are pushed back.
func (s *RouterService) HandleHistory(ctx context.Context, connID string, payload domain.ChatHistoryPayload) {
	user, ok := s.registry.LookupByConnection(connID)
	if !ok {
		s.log.WarnContext(ctx, "router - history - unknown sender", logging.Connection(connID))
		return
	}
	key := domain.ChatKey(user.Username, payload.WithUsername)
	_ = s.registry.Send(ctx, connID, domain.ChatHistoryEvent{
		Type:         domain.TypeChatHistory,
		WithUsername: payload.WithUsername,
		History:      s.history.Fetch(key),
	})
	s.unread.Reset(user.Username, payload.WithUsername)
	_ = s.registry.Send(ctx, connID, domain.UnreadCountsEvent{
		Type: domain.TypeUnreadCounts, Counts: s.unread.Snapshot(user.Username),
	})
}

// HandleMarkRead acknowledges a conversation as read without fetching it.
func (s *RouterService) HandleMarkRead(ctx context.Context, connID string, payload domain.ChatHistoryPayload) {
	user, ok := s.registry.LookupByConnection(connID)
	if !ok {
		s.log.WarnContext(ctx, "router - mark read - unknown sender", logging.Connection(connID))
		return
	}
	s.unread.Reset(user.Username, payload.WithUsername)
	_ = s.registry.Send(ctx, connID, domain.UnreadCountsEvent{
		Type: domain.TypeUnreadCounts, Counts: s.unread.Snapshot(user.Username),
	})
}

func (s *RouterService) HandleReaction(ctx context.Context, connID string, payload domain.AddReactionPayload) {
	user, ok := s.registry.LookupByConnection(connID)
	if !ok {
		s.log.WarnContext(ctx, "router - reaction - unknown sender", logging.Connection(connID))
		return
	}
	s.reactions.AddReaction(ctx, user, payload)
}

// HandleClear purges the pair's history and confirms to both parties. Not
// transactional with concurrent sends; a message racing the clear survives
// on the sender side until the next fetch.
func (s *RouterService) HandleClear(ctx context.Context, connID string, payload domain.ClearChatPayload) {
	ctx, span := tracer.Start(ctx, "RouterService.HandleClear", trace.WithAttributes(
		attribute.String("connection_id", connID),
	))
	defer span.End()

	user, ok := s.registry.LookupByConnection(connID)
	if !ok {
		span.RecordError(domain.ErrUnknownSender)
		s.log.WarnContext(ctx, "router - clear - unknown sender", logging.Connection(connID))
		return
	}
	key := domain.ChatKey(user.Username, payload.WithUsername)
	s.history.Clear(ctx, key)
	s.log.InfoContext(ctx, "router - clear - success", logging.Chat(key), logging.Username(user.Username))

	_ = s.registry.Send(ctx, connID, domain.ChatClearedEvent{
		Type: domain.TypeChatCleared, WithUsername: payload.WithUsername,
	})
	if peer, online := s.registry.LookupByUsername(payload.WithUsername); online {
		_ = s.registry.Send(ctx, peer.ConnectionID, domain.ChatClearedEvent{
			Type: domain.TypeChatCleared, WithUsername: user.Username,
		})
	}
}

// HandleDisconnect removes the connection atomically; future deliveries to it
// become no-ops. Effects of in-flight operations are not rolled back.
func (s *RouterService) HandleDisconnect(ctx context.Context, connID string) {
	profile := s.registry.Unregister(connID)
	if profile != nil {
		s.unread.Discard(profile.Username)
		s.log.InfoContext(ctx, "router - disconnect - user left", logging.Connection(connID), logging.Username(profile.Username))
	}
	s.presence.Publish(ctx)
}

// resolveRecipient honors both protocol variants: direct connection id, or
// username lookup when no id is given.
func (s *RouterService) resolveRecipient(payload domain.PrivateMessagePayload) (domain.UserProfile, bool) {
	if payload.RecipientID != "" {
		return s.registry.LookupByConnection(payload.RecipientID)
	}
	return s.registry.LookupByUsername(payload.RecipientUsername)
}

func (s *RouterService) decode(ctx context.Context, connID string, env domain.Envelope, v any) bool {
	if err := json.Unmarshal(env.Payload, v); err != nil {
		s.log.WarnContext(ctx, "router - envelope - bad payload", logging.Connection(connID), "event_type", env.Type, logging.Err(err))
		return false
	}
	return true
}

func (s *RouterService) archiveUser(ctx context.Context, profile domain.UserProfile) {
	if s.users == nil {
		return
	}
	go func(ctx context.Context) {
		if err := s.users.SaveUser(ctx, profile); err != nil {
			s.log.ErrorContext(ctx, "router - register - user archive failed", logging.Username(profile.Username), logging.Err(err))
		}
	}(context.WithoutCancel(ctx))
}
