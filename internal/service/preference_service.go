package service

import (
	"context"
	"fmt"

	"github.com/GTDGit/offline_console/internal/cache"
)

// ErrInvalidTheme is returned for an unknown colour scheme.
var ErrInvalidTheme = fmt.Errorf("theme must be %q or %q", cache.ThemeLight, cache.ThemeDark)

type themeStore interface {
	SetTheme(ctx context.Context, email string, theme cache.Theme) error
	Theme(ctx context.Context, email string) (cache.Theme, error)
}

// PreferenceService stores the admin's theme, the one persisted preference.
type PreferenceService struct {
	store themeStore
}

// NewPreferenceService creates a PreferenceService.
func NewPreferenceService(store *cache.SessionCache) *PreferenceService {
	return &PreferenceService{store: store}
}

// Theme returns the stored theme, light by default.
func (s *PreferenceService) Theme(ctx context.Context, email string) (cache.Theme, error) {
	return s.store.Theme(ctx, email)
}

// SetTheme stores theme for email.
func (s *PreferenceService) SetTheme(ctx context.Context, email string, theme cache.Theme) error {
	if !theme.Valid() {
		return ErrInvalidTheme
	}
	return s.store.SetTheme(ctx, email, theme)
}
