package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/repository"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
	activityWriteTimeout = 5 * time.Second
)

type activityStore interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListRecent(ctx context.Context, screen string, limit int) ([]models.ActivityLog, error)
}

// ActivityService appends console mutation outcomes to the activity log.
// Without a database it only writes log lines.
type ActivityService struct {
	store activityStore
}

// NewActivityService creates an ActivityService. repo may be nil.
func NewActivityService(repo *repository.ActivityLogRepository) *ActivityService {
	s := &ActivityService{}
	if repo != nil {
		s.store = repo
	}
	return s
}

// Enabled reports whether entries are persisted.
func (s *ActivityService) Enabled() bool {
	return s != nil && s.store != nil
}

// Record stores one entry. Failures are logged and never returned: the
// user-facing outcome of the mutation does not depend on the audit trail.
func (s *ActivityService) Record(ctx context.Context, entry models.ActivityLog) {
	ev := log.Info()
	if entry.Outcome == models.OutcomeFailure {
		ev = log.Warn()
	}
	ev.Str("actor", entry.Actor).
		Str("screen", entry.Screen).
		Str("action", entry.Action).
		Strs("entity_ids", entry.EntityIDs).
		Str("outcome", string(entry.Outcome)).
		Msg("Console activity")

	if !s.Enabled() {
		return
	}
	if entry.EntityIDs == nil {
		entry.EntityIDs = []string{}
	}
	// The request may be cancelled once the response is written.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityWriteTimeout)
	defer cancel()
	if err := s.store.Create(wctx, &entry); err != nil {
		log.Error().Err(err).Str("action", entry.Action).Msg("Failed to write activity log")
	}
}

// Recent returns the newest entries, optionally for one screen.
func (s *ActivityService) Recent(ctx context.Context, screen string, limit int) ([]models.ActivityLog, error) {
	if !s.Enabled() {
		return []models.ActivityLog{}, nil
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.store.ListRecent(ctx, screen, limit)
}
