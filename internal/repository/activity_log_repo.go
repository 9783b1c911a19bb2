package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/offline_console/internal/models"
)

// ActivityLogRepository provides access to the activity_logs table.
type ActivityLogRepository struct {
	db *sqlx.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository.
func NewActivityLogRepository(db *sqlx.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create inserts an activity row and fills in its id and creation time.
func (r *ActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	const q = `
		INSERT INTO activity_logs (
			actor, screen, action, entity_ids, outcome, message, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
		RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, q,
		entry.Actor,
		entry.Screen,
		entry.Action,
		entry.EntityIDs,
		entry.Outcome,
		entry.Message,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// ListRecent returns the newest entries first, optionally for one screen.
func (r *ActivityLogRepository) ListRecent(ctx context.Context, screen string, limit int) ([]models.ActivityLog, error) {
	const q = `
		SELECT id, actor, screen, action, entity_ids, outcome, message, created_at
		FROM activity_logs
		WHERE ($1 = '' OR screen = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	logs := []models.ActivityLog{}
	if err := r.db.SelectContext(ctx, &logs, q, screen, limit); err != nil {
		return nil, err
	}
	return logs, nil
}
