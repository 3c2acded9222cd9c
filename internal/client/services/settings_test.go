package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_ProfileNeedsSession(t *testing.T) {
	fc := &fakeClient{}
	s := NewSettingsService(fc, NewPreferences(metadata.NewMemoryRepository()), nopLog())

	_, err := s.Profile(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, fc.calls())
}

func TestSettingsService_Profile(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{User: &models.UserProfile{Name: "Alice", Email: "a@x", Username: "alice"}}
	prefs := NewPreferences(metadata.NewMemoryRepository())
	require.NoError(t, prefs.SetUsername(ctx, "alice"))
	s := NewSettingsService(fc, prefs, nopLog())

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "alice", fc.LastGetUser)
}

func TestSettingsService_ThemeAndLogout(t *testing.T) {
	ctx := context.Background()
	prefs := NewPreferences(metadata.NewMemoryRepository())
	s := NewSettingsService(&fakeClient{}, prefs, nopLog())

	require.NoError(t, prefs.SetUsername(ctx, "alice"))
	_, err := prefs.Remember(ctx, models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, s.SetTheme(ctx, "dark"))

	theme, err := s.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	require.NoError(t, s.Logout(ctx))

	_, err = s.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrNoSession)
	users, err := prefs.RememberedUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
