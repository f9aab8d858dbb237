package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

func Test_Append_Then_Fetch_Either_Key_Order(t *testing.T) {
	req := require.New(t)
	h := NewHistoryService(slog.Default(), nil)
	ctx := context.Background()

	first := domain.NewMessageRecord("alice", "bob", "hi", false)
	second := domain.NewMessageRecord("bob", "alice", "hey", false)
	h.Append(ctx, first)
	h.Append(ctx, second)

	forward := h.Fetch(domain.ChatKey("alice", "bob"))
	reverse := h.Fetch(domain.ChatKey("bob", "alice"))
	req.Equal(forward, reverse)
	req.Len(forward, 2)
	req.Equal(first.ID, forward[0].ID)
	req.Equal(second.ID, forward[1].ID)
}

func Test_Fetch_Unknown_Key_Is_Empty_Not_Error(t *testing.T) {
	req := require.New(t)
	h := NewHistoryService(slog.Default(), nil)
	req.Empty(h.Fetch(domain.ChatKey("nobody", "noone")))
}

func Test_Fetch_Returns_Copies(t *testing.T) {
	req := require.New(t)
	h := NewHistoryService(slog.Default(), nil)
	ctx := context.Background()

	rec := domain.NewMessageRecord("alice", "bob", "hi", false)
	h.Append(ctx, rec)
	key := domain.ChatKey("alice", "bob")

	fetched := h.Fetch(key)
	fetched[0].Body = "tampered"
	fetched[0].Reactions["😈"] = 99

	clean := h.Fetch(key)
	req.Equal("hi", clean[0].Body)
	req.Empty(clean[0].Reactions)
}

func Test_Clear_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	h := NewHistoryService(slog.Default(), nil)
	ctx := context.Background()

	h.Append(ctx, domain.NewMessageRecord("alice", "bob", "hi", false))
	key := domain.ChatKey("alice", "bob")

	h.Clear(ctx, key)
	req.Empty(h.Fetch(key))
	h.Clear(ctx, key)
	req.Empty(h.Fetch(key))
}

func Test_AddReaction_Accumulates(t *testing.T) {
	req := require.New(t)
	h := NewHistoryService(slog.Default(), nil)
	ctx := context.Background()

	rec := domain.NewMessageRecord("alice", "bob", "hi", false)
	h.Append(ctx, rec)
	key := domain.ChatKey("alice", "bob")

	count, ok := h.AddReaction(key, rec.ID, "👍")
	req.True(ok)
	req.Equal(1, count)

	count, ok = h.AddReaction(key, rec.ID, "👍")
	req.True(ok)
	req.Equal(2, count)

	req.Equal(2, h.Fetch(key)[0].Reactions["👍"])
}

func Test_AddReaction_On_Missing_Message_Is_Noop(t *testing.T) {
	req := require.New(t)
	h := NewHistoryService(slog.Default(), nil)

	_, ok := h.AddReaction(domain.ChatKey("alice", "bob"), "no-such-id", "👍")
	req.False(ok)
}
