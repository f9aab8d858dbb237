package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

type fakeQueue struct {
	acked   []string
	deleted []string
}

func (q *fakeQueue) Publish(context.Context, []byte) error { return nil }

func (q *fakeQueue) Subscribe(context.Context, string, func(context.Context, string, []byte) error) error {
	return nil
}

func (q *fakeQueue) Acknowledge(_ context.Context, _ string, id string) error {
	q.acked = append(q.acked, id)
	return nil
}

func (q *fakeQueue) Delete(_ context.Context, id string) error {
	q.deleted = append(q.deleted, id)
	return nil
}

type fakeArchive struct {
	saved   []domain.MessageRecord
	cleared []string
	fail    error
}

func (a *fakeArchive) SaveMessage(_ context.Context, rec domain.MessageRecord) error {
	if a.fail != nil {
		return a.fail
	}
	a.saved = append(a.saved, rec)
	return nil
}

func (a *fakeArchive) DeleteChat(_ context.Context, chatKey string) error {
	if a.fail != nil {
		return a.fail
	}
	a.cleared = append(a.cleared, chatKey)
	return nil
}

func (a *fakeArchive) Messages(context.Context, string) ([]domain.MessageRecord, error) {
	return nil, nil
}

func marshalEvent(t *testing.T, ev domain.ArchiveEvent) []byte {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return raw
}

func Test_Save_Event_Persists_Then_Acks(t *testing.T) {
	req := require.New(t)
	queue := &fakeQueue{}
	archive := &fakeArchive{}
	w := NewArchiveWorker(slog.Default(), queue, archive, "archive-workers")

	rec := domain.NewMessageRecord("alice", "bob", "hi", false)
	raw := marshalEvent(t, domain.ArchiveEvent{
		Op: domain.ArchiveOpSave, ChatKey: domain.ChatKey("alice", "bob"), Record: &rec,
	})
	req.NoError(w.ProcessEvent(context.Background(), "1-0", raw))

	req.Len(archive.saved, 1)
	req.Equal(rec.ID, archive.saved[0].ID)
	req.Equal([]string{"1-0"}, queue.acked)
	req.Equal([]string{"1-0"}, queue.deleted)
}

func Test_Clear_Event_Purges_The_Pair(t *testing.T) {
	req := require.New(t)
	queue := &fakeQueue{}
	archive := &fakeArchive{}
	w := NewArchiveWorker(slog.Default(), queue, archive, "archive-workers")

	raw := marshalEvent(t, domain.ArchiveEvent{Op: domain.ArchiveOpClear, ChatKey: "alice::bob"})
	req.NoError(w.ProcessEvent(context.Background(), "2-0", raw))
	req.Equal([]string{"alice::bob"}, archive.cleared)
}

func Test_Persist_Failure_Leaves_Entry_Pending(t *testing.T) {
	req := require.New(t)
	queue := &fakeQueue{}
	archive := &fakeArchive{fail: errors.New("db down")}
	w := NewArchiveWorker(slog.Default(), queue, archive, "archive-workers")

	rec := domain.NewMessageRecord("alice", "bob", "hi", false)
	raw := marshalEvent(t, domain.ArchiveEvent{
		Op: domain.ArchiveOpSave, ChatKey: "alice::bob", Record: &rec,
	})
	req.Error(w.ProcessEvent(context.Background(), "3-0", raw))
	req.Empty(queue.acked)
	req.Empty(queue.deleted)
}

func Test_Poison_Entry_Is_Acked_Not_Retried(t *testing.T) {
	req := require.New(t)
	queue := &fakeQueue{}
	archive := &fakeArchive{}
	w := NewArchiveWorker(slog.Default(), queue, archive, "archive-workers")

	err := w.ProcessEvent(context.Background(), "4-0", []byte("garbage"))
	req.ErrorIs(err, domain.ErrArchiveUnreadable)
	req.Equal([]string{"4-0"}, queue.acked)
	req.Empty(archive.saved)
}
