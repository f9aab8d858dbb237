package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HarshaOnlineJourny/ChatApp/internal/app/registry"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

func Test_PublishTo_Targets_Only_The_Caller(t *testing.T) {
	req := require.New(t)
	reg := registry.NewRegistry()
	p := NewPresenceService(slog.Default(), reg, time.Second)
	ctx := context.Background()

	alice := newCaptureClient("conn-a")
	bob := newCaptureClient("conn-b")
	reg.Attach(alice)
	reg.Attach(bob)
	_, err := reg.Register("conn-a", domain.UserProfile{Username: "alice"})
	req.NoError(err)

	p.PublishTo(ctx, "conn-b")

	req.Empty(alice.frames)
	updates := eventsOf[domain.UpdateUsersEvent](req, bob, domain.TypeUpdateUsers)
	req.Len(updates, 1)
	req.Len(updates[0].Users, 1)
}

func Test_Run_Broadcasts_On_Cadence(t *testing.T) {
	req := require.New(t)
	reg := registry.NewRegistry()
	p := NewPresenceService(slog.Default(), reg, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newCaptureClient("conn-a")
	reg.Attach(c)

	go p.Run(ctx)
	req.Eventually(func() bool {
		return len(eventsOf[domain.UpdateUsersEvent](req, c, domain.TypeUpdateUsers)) >= 2
	}, time.Second, 5*time.Millisecond)
}
