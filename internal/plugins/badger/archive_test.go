package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

func openTestArchive(t *testing.T) *MessageArchive {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMessageArchive(db)
}

func Test_Save_And_Fetch_In_Time_Order(t *testing.T) {
	req := require.New(t)
	archive := openTestArchive(t)
	ctx := context.Background()

	at := time.Now().UTC()
	records := []domain.MessageRecord{
		domain.NewMessageRecord("alice", "bob", "first", false),
		domain.NewMessageRecord("alice", "bob", "second", false),
		domain.NewMessageRecord("bob", "alice", "third", true),
	}
	for i := range records {
		records[i].Timestamp = at.Add(time.Duration(i) * time.Minute)
		req.NoError(archive.SaveMessage(ctx, records[i]))
	}

	key := domain.ChatKey("alice", "bob")
	fetched, err := archive.Messages(ctx, key)
	req.NoError(err)
	req.Len(fetched, 3)
	req.Equal("first", fetched[0].Body)
	req.Equal("second", fetched[1].Body)
	req.Equal("third", fetched[2].Body)
	req.True(fetched[2].IsImage)
}

func Test_DeleteChat_Removes_Only_That_Pair(t *testing.T) {
	req := require.New(t)
	archive := openTestArchive(t)
	ctx := context.Background()

	req.NoError(archive.SaveMessage(ctx, domain.NewMessageRecord("alice", "bob", "hi", false)))
	req.NoError(archive.SaveMessage(ctx, domain.NewMessageRecord("alice", "carol", "yo", false)))

	req.NoError(archive.DeleteChat(ctx, domain.ChatKey("alice", "bob")))

	gone, err := archive.Messages(ctx, domain.ChatKey("alice", "bob"))
	req.NoError(err)
	req.Empty(gone)

	kept, err := archive.Messages(ctx, domain.ChatKey("alice", "carol"))
	req.NoError(err)
	req.Len(kept, 1)

	// Idempotent on an already-empty pair.
	req.NoError(archive.DeleteChat(ctx, domain.ChatKey("alice", "bob")))
}
