package services

import (
	"context"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
)

// SettingsService backs the settings screen: profile, theme and logout.
type SettingsService struct {
	client client.Client
	prefs  *Preferences
	log    logging.Logger
}

func NewSettingsService(c client.Client, prefs *Preferences, log logging.Logger) *SettingsService {
	return &SettingsService{client: c, prefs: prefs, log: log}
}

// CurrentUser returns the logged-in username or ErrNoSession.
func (s *SettingsService) CurrentUser(ctx context.Context) (string, error) {
	username, err := s.prefs.Username(ctx)
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", ErrNoSession
	}
	return username, nil
}

// Profile fetches the name and email of the logged-in user.
func (s *SettingsService) Profile(ctx context.Context) (*models.UserProfile, error) {
	username, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.GetUser(ctx, username)
}

func (s *SettingsService) Theme(ctx context.Context) (Theme, error) {
	return s.prefs.Theme(ctx)
}

func (s *SettingsService) SetTheme(ctx context.Context, theme string) error {
	return s.prefs.SetTheme(ctx, theme)
}

// Logout forgets everything stored on this machine, including remembered
// users.
func (s *SettingsService) Logout(ctx context.Context) error {
	if err := s.prefs.Clear(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "logged out")
	return nil
}
