package postgres

import (
	"context"
	"database/sql"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

// MessageArchive is the Postgres durable backend for chat history. Records
// are archived as delivered; reactions accumulate in memory only.
type MessageArchive struct {
	db *sql.DB
}

func NewMessageArchive(db *sql.DB) *MessageArchive {
	return &MessageArchive{db: db}
}

func (r *MessageArchive) SaveMessage(ctx context.Context, rec domain.MessageRecord) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO messages (
            id, chat_key, sender, recipient, message, is_image, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO NOTHING
    `,
		rec.ID,
		domain.ChatKey(rec.Sender, rec.Recipient),
		rec.Sender,
		rec.Recipient,
		rec.Body,
		rec.IsImage,
		rec.Timestamp,
	)
	return err
}

func (r *MessageArchive) DeleteChat(ctx context.Context, chatKey string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE chat_key = $1`, chatKey)
	return err
}

func (r *MessageArchive) Messages(ctx context.Context, chatKey string) ([]domain.MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sender, recipient, message, is_image, created_at
		FROM messages
		WHERE chat_key = $1
		ORDER BY created_at ASC, id ASC
	`, chatKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []domain.MessageRecord
	for rows.Next() {
		var m domain.MessageRecord
		if err := rows.Scan(
			&m.ID,
			&m.Sender,
			&m.Recipient,
			&m.Body,
			&m.IsImage,
			&m.Timestamp,
		); err != nil {
			return nil, err
		}
		m.Reactions = make(map[string]int)
		recs = append(recs, m)
	}
	return recs, rows.Err()
}
