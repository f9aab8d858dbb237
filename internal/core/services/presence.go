package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

// PresenceService publishes the registered-user snapshot to every attached
// connection: immediately after each registry change, and on a fixed cadence
// to mask any missed events. Broadcast is at-least-once and eventually
// consistent; a client may observe a stale list for up to one interval.
type PresenceService struct {
	log      *slog.Logger
	registry contracts.Registry
	interval time.Duration
}

func NewPresenceService(log *slog.Logger, registry contracts.Registry, interval time.Duration) *PresenceService {
	return &PresenceService{log: log, registry: registry, interval: interval}
}

// Publish pushes the current snapshot to all connections.
func (p *PresenceService) Publish(ctx context.Context) {
	p.registry.Broadcast(ctx, p.event())
}

// PublishTo pushes the current snapshot to a single connection, serving
// explicit get_online_users requests.
func (p *PresenceService) PublishTo(ctx context.Context, connID string) {
	if err := p.registry.Send(ctx, connID, p.event()); err != nil {
		p.log.ErrorContext(ctx, "presence - publish to - send failed", "connection_id", connID, "err", err)
	}
}

// Run broadcasts on the configured cadence until ctx is cancelled.
func (p *PresenceService) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Info("presence - run - stopped")
			return
		case <-ticker.C:
			p.Publish(ctx)
		}
	}
}

func (p *PresenceService) event() domain.UpdateUsersEvent {
	return domain.UpdateUsersEvent{
		Type:  domain.TypeUpdateUsers,
		Users: p.registry.Snapshot(),
	}
}
