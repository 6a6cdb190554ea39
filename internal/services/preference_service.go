// File: internal/services/preference_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/curalytica/assistant/internal/repository/preference"
)

// Persisted preference keys. These two flags are the only state that
// survives a restart.
const (
	PrefTheme            = "theme"
	PrefSidebarCollapsed = "sidebar_collapsed"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// PreferenceService validates and persists the UI preference flags.
type PreferenceService struct {
	repo   preference.PreferenceRepository
	logger Logger
}

func NewPreferenceService(repo preference.PreferenceRepository, logger Logger) *PreferenceService {
	return &PreferenceService{repo: repo, logger: logger}
}

// Theme returns the persisted theme, defaulting to light.
func (s *PreferenceService) Theme(ctx context.Context) string {
	value, err := s.repo.Get(ctx, PrefTheme)
	if err != nil {
		if !errors.Is(err, preference.ErrPreferenceNotFound) {
			s.logger.Warn("failed to read theme preference", "error", err)
		}
		return ThemeLight
	}
	if value != ThemeLight && value != ThemeDark {
		return ThemeLight
	}
	return value
}

// SetTheme persists the theme; only "light" and "dark" are accepted.
func (s *PreferenceService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return s.repo.Set(ctx, PrefTheme, theme)
}

// ToggleTheme flips between light and dark and returns the new value.
func (s *PreferenceService) ToggleTheme(ctx context.Context) (string, error) {
	next := ThemeDark
	if s.Theme(ctx) == ThemeDark {
		next = ThemeLight
	}
	return next, s.repo.Set(ctx, PrefTheme, next)
}

// SidebarCollapsed returns the persisted sidebar flag, defaulting to false.
func (s *PreferenceService) SidebarCollapsed(ctx context.Context) bool {
	value, err := s.repo.Get(ctx, PrefSidebarCollapsed)
	if err != nil {
		if !errors.Is(err, preference.ErrPreferenceNotFound) {
			s.logger.Warn("failed to read sidebar preference", "error", err)
		}
		return false
	}
	return value == "true"
}

// SetSidebarCollapsed persists the sidebar flag.
func (s *PreferenceService) SetSidebarCollapsed(ctx context.Context, collapsed bool) error {
	value := "false"
	if collapsed {
		value = "true"
	}
	return s.repo.Set(ctx, PrefSidebarCollapsed, value)
}
