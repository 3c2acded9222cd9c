package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/client/repositories/metadata"
)

// Keys of the client-local store.
const (
	KeyRememberedUsers = "rememberedUsers"
	KeyUsername        = "username"
	KeyTheme           = "theme"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences is the client-local state shared by workflows: the
// remembered-user list, the authenticated username and the UI theme.
type Preferences struct {
	mu   sync.Mutex
	repo metadata.Repository
}

func NewPreferences(repo metadata.Repository) *Preferences {
	return &Preferences{repo: repo}
}

func (p *Preferences) RememberedUsers(ctx context.Context) (models.RememberedUsers, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rememberedUsers(ctx)
}

func (p *Preferences) rememberedUsers(ctx context.Context) (models.RememberedUsers, error) {
	raw, err := p.repo.Get(ctx, KeyRememberedUsers)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return models.RememberedUsers{}, nil
	}
	var users models.RememberedUsers
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyRememberedUsers, err)
	}
	return users, nil
}

// Remember moves c to the front of the remembered-user list and persists
// it. The read-modify-write happens under one lock.
func (p *Preferences) Remember(ctx context.Context, c models.Credentials) (models.RememberedUsers, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	users, err := p.rememberedUsers(ctx)
	if err != nil {
		return nil, err
	}
	users = users.Upsert(c)

	raw, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", KeyRememberedUsers, err)
	}
	if err := p.repo.Set(ctx, KeyRememberedUsers, raw); err != nil {
		return nil, err
	}
	return users, nil
}

// Username returns the authenticated username, or "" when nobody logged in.
func (p *Preferences) Username(ctx context.Context) (string, error) {
	raw, err := p.repo.Get(ctx, KeyUsername)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (p *Preferences) SetUsername(ctx context.Context, username string) error {
	return p.repo.Set(ctx, KeyUsername, []byte(username))
}

// Theme returns the stored theme, ThemeLight when unset or unknown.
func (p *Preferences) Theme(ctx context.Context) (Theme, error) {
	raw, err := p.repo.Get(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	if t := Theme(raw); t == ThemeDark {
		return t, nil
	}
	return ThemeLight, nil
}

func (p *Preferences) SetTheme(ctx context.Context, theme string) error {
	t := Theme(theme)
	if t != ThemeLight && t != ThemeDark {
		return newValidationError(ReasonInvalidTheme, fmt.Sprintf("Unknown theme %q; choose light or dark.", theme))
	}
	return p.repo.Set(ctx, KeyTheme, []byte(t))
}

// Clear wipes all client-local state. It backs logout.
func (p *Preferences) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repo.Clear(ctx)
}
