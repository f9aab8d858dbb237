package badger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

// MessageArchive is the embedded durable backend for single-binary deploys.
// The key is formatted as "msg:{chat_key}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the record id as a collision disconnector
//     if two messages land on the same nanosecond.
type MessageArchive struct {
	db *badger.DB
}

func NewMessageArchive(db *badger.DB) *MessageArchive {
	return &MessageArchive{db: db}
}

func Open(dir string) (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
}

func (m *MessageArchive) SaveMessage(_ context.Context, rec domain.MessageRecord) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		domain.ChatKey(rec.Sender, rec.Recipient),
		rec.Timestamp.UnixNano(),
		rec.ID,
	)
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (m *MessageArchive) DeleteChat(_ context.Context, chatKey string) error {
	prefix := []byte("msg:" + chatKey + ":")
	var keys [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Messages returns the archived records for the pair key, naturally sorted
// by time thanks to the padded timestamp in the key.
func (m *MessageArchive) Messages(_ context.Context, chatKey string) ([]domain.MessageRecord, error) {
	prefix := []byte("msg:" + chatKey + ":")
	var recs []domain.MessageRecord
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var rec domain.MessageRecord
				if err := json.Unmarshal(value, &rec); err != nil {
					return err
				}
				recs = append(recs, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return recs, err
}
