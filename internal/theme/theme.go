// Package theme resolves the site theme for a session. An explicit
// choice always wins; without one the theme follows the clock, going
// dark for the evening and night hours.
package theme

import (
	"context"
	"time"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// Themes.
const (
	Light = "light"
	Dark  = "dark"
)

// Dark hours run from 18:00 through 05:59.
const (
	darkStartHour = 18
	darkEndHour   = 6
)

// Valid reports whether s names a known theme.
func Valid(s string) bool {
	return s == Light || s == Dark
}

// ByClock returns the time-based default theme.
func ByClock(now time.Time) string {
	hour := now.Hour()
	if hour >= darkStartHour || hour < darkEndHour {
		return Dark
	}
	return Light
}

// Service resolves and stores per-session theme preferences.
type Service struct {
	prefs storage.PreferenceRepository
	clock func() time.Time
}

// NewService creates a theme service.
func NewService(prefs storage.PreferenceRepository) *Service {
	return &Service{prefs: prefs, clock: time.Now}
}

// Resolve returns the session's theme: the saved preference when one
// exists, otherwise the clock-based default.
func (s *Service) Resolve(ctx context.Context, sessionID string) (string, error) {
	saved, err := s.prefs.GetThemePreference(ctx, sessionID)
	if err != nil {
		if domerrors.IsNotFound(err) {
			return ByClock(s.clock()), nil
		}
		return "", err
	}
	if !Valid(saved) {
		return ByClock(s.clock()), nil
	}
	return saved, nil
}

// Set records an explicit theme choice.
func (s *Service) Set(ctx context.Context, sessionID, themeName string) error {
	if !Valid(themeName) {
		return &domerrors.ValidationError{Field: "theme", Message: "theme must be light or dark"}
	}
	return s.prefs.SaveThemePreference(ctx, sessionID, themeName)
}

// Reset drops the explicit choice, returning the session to the
// clock-based default.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.prefs.DeleteThemePreference(ctx, sessionID)
}
