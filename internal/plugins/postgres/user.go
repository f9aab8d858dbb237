package postgres

import (
	"context"
	"database/sql"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

type UserArchive struct {
	db *sql.DB
}

func NewUserArchive(db *sql.DB) *UserArchive {
	return &UserArchive{db: db}
}

// SaveUser writes the registered profile through for offline analysis. A
// returning username keeps its original row.
func (r *UserArchive) SaveUser(ctx context.Context, p domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO users (
            username, age, gender, country, state, latitude, longitude, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        ON CONFLICT (username) DO NOTHING
    `,
		p.Username,
		p.Age,
		p.Gender,
		p.Country,
		p.State,
		p.Latitude,
		p.Longitude,
	)
	return err
}
