package notify

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists notification rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository wrapper.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes one notification row.
func (r *Repository) Insert(ctx context.Context, n Notification) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("notify: repository not initialised")
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (id, recipient_id, category, title, message, link, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.RecipientID, n.Category, n.Title, n.Message, n.Link, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("notify: insert notification: %w", err)
	}
	return nil
}
