package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GTDGit/offline_console/internal/tableview"
)

// Theme is the console colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// ViewSnapshot is a persisted table view state.
type ViewSnapshot struct {
	State   tableview.ViewState `json:"state"`
	SavedAt time.Time           `json:"savedAt"`
}

// SessionCache persists per-session table view state, logged-out sessions
// and the per-admin theme preference.
//
// Keys:
//
//	console:view:{sessionId}:{screen}
//	console:revoked:{sessionId}
//	console:theme:{email}
type SessionCache struct {
	store Store
	ttl   time.Duration
}

// NewSessionCache creates a SessionCache whose view snapshots expire after ttl.
func NewSessionCache(store Store, ttl time.Duration) *SessionCache {
	return &SessionCache{store: store, ttl: ttl}
}

func (c *SessionCache) keyView(sessionID, screen string) string {
	return fmt.Sprintf("console:view:%s:%s", sessionID, screen)
}

func (c *SessionCache) keyRevoked(sessionID string) string {
	return fmt.Sprintf("console:revoked:%s", sessionID)
}

func (c *SessionCache) keyTheme(email string) string {
	return fmt.Sprintf("console:theme:%s", email)
}

// SaveView stores the view state of one screen.
func (c *SessionCache) SaveView(ctx context.Context, sessionID, screen string, state tableview.ViewState) error {
	data, err := json.Marshal(ViewSnapshot{State: state, SavedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal view state: %w", err)
	}
	if err := c.store.Set(ctx, c.keyView(sessionID, screen), string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to save view state: %w", err)
	}
	return nil
}

// LoadView returns the stored view state of one screen, or ErrMiss.
func (c *SessionCache) LoadView(ctx context.Context, sessionID, screen string) (*ViewSnapshot, error) {
	raw, err := c.store.Get(ctx, c.keyView(sessionID, screen))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var snap ViewSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal view state: %w", err)
	}
	return &snap, nil
}

// DeleteViews removes the stored view state of the given screens.
func (c *SessionCache) DeleteViews(ctx context.Context, sessionID string, screens ...string) error {
	keys := make([]string, 0, len(screens))
	for _, s := range screens {
		keys = append(keys, c.keyView(sessionID, s))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Delete(ctx, keys...)
}

// RevokeSession marks a session as logged out for ttl, which should cover the
// remaining lifetime of its token.
func (c *SessionCache) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.store.Set(ctx, c.keyRevoked(sessionID), "1", ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// SessionRevoked reports whether a session was logged out.
func (c *SessionCache) SessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	_, err := c.store.Get(ctx, c.keyRevoked(sessionID))
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetTheme stores the theme preference of an admin. It does not expire.
func (c *SessionCache) SetTheme(ctx context.Context, email string, theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return c.store.Set(ctx, c.keyTheme(email), string(theme), 0)
}

// Theme returns the stored preference, defaulting to light.
func (c *SessionCache) Theme(ctx context.Context, email string) (Theme, error) {
	raw, err := c.store.Get(ctx, c.keyTheme(email))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ThemeLight, nil
		}
		return ThemeLight, err
	}
	if t := Theme(raw); t.Valid() {
		return t, nil
	}
	return ThemeLight, nil
}
