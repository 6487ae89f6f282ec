// Package catalog lists system themes and manages each user's saved and
// custom themes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"palettefolio/internal/apperror"
	applog "palettefolio/internal/log"
	"palettefolio/internal/store"
	"palettefolio/models"
)

// Errors returned by the catalogue operations. Each carries the apperror kind
// that selects its HTTP status.
var (
	ErrThemeIDRequired   = apperror.Validation("Theme ID is required")
	ErrThemeNotFound     = apperror.NotFound("Theme not found")
	ErrAlreadySaved      = apperror.Conflict("Theme already saved")
	ErrSavedNotFound     = apperror.NotFound("Saved theme not found")
	ErrNameColorsMissing = apperror.Validation("Name and colors are required")
	ErrNotThemeOwner     = apperror.Authorization("Not authorized to delete this theme")
)

// ThemeRepository is the persistence the service needs.
type ThemeRepository interface {
	ListSystem(ctx context.Context) ([]models.Theme, error)
	ListOwned(ctx context.Context, userID string) ([]models.Theme, error)
	Find(ctx context.Context, id string) (models.Theme, error)
	CreateOwnedAndSave(ctx context.Context, theme *models.Theme) error
	DeleteWithSaves(ctx context.Context, themeID string) error
	Save(ctx context.Context, userID, themeID string) (models.SavedTheme, error)
	IsSaved(ctx context.Context, userID, themeID string) (bool, error)
	ListSavedWithThemes(ctx context.Context, userID string) ([]models.SavedTheme, error)
	Unsave(ctx context.Context, userID, themeID string) error
}

// UserLookup resolves the display name used in default descriptions.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// CustomThemeInput is the payload for a new custom theme. Description and
// Colors are optional on the wire, so they are pointers.
type CustomThemeInput struct {
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Colors      *models.Colors `json:"colors"`
}

// Service trusts the user ids it is given; callers authenticate first.
type Service struct {
	themes ThemeRepository
	users  UserLookup
}

// NewService builds the theme catalogue service. users supplies the creator
// name used when a custom theme has no description.
func NewService(themes ThemeRepository, users UserLookup) *Service {
	return &Service{themes: themes, users: users}
}

// ListPublicThemes returns every system theme ordered by name.
func (s *Service) ListPublicThemes(ctx context.Context) ([]models.Theme, error) {
	themes, err := s.themes.ListSystem(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return themes, nil
}

// SaveTheme bookmarks themeID for userID.
func (s *Service) SaveTheme(ctx context.Context, userID, themeID string) (models.SavedTheme, error) {
	themeID = strings.TrimSpace(themeID)
	if themeID == "" {
		return models.SavedTheme{}, ErrThemeIDRequired
	}

	if _, err := s.themes.Find(ctx, themeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.SavedTheme{}, ErrThemeNotFound
		}
		return models.SavedTheme{}, apperror.Internal(err)
	}

	saved, err := s.themes.IsSaved(ctx, userID, themeID)
	if err != nil {
		return models.SavedTheme{}, apperror.Internal(err)
	}
	if saved {
		return models.SavedTheme{}, ErrAlreadySaved
	}

	record, err := s.themes.Save(ctx, userID, themeID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.SavedTheme{}, ErrAlreadySaved
		}
		return models.SavedTheme{}, apperror.Internal(err)
	}

	applog.Debug(ctx, "theme saved", "userID", userID, "themeID", themeID)
	return record, nil
}

// ListSavedThemes returns the user's saved records with their themes
// expanded, newest first.
func (s *Service) ListSavedThemes(ctx context.Context, userID string) ([]models.SavedTheme, error) {
	saved, err := s.themes.ListSavedWithThemes(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return saved, nil
}

// UnsaveTheme removes the user's bookmark for themeID.
func (s *Service) UnsaveTheme(ctx context.Context, userID, themeID string) error {
	if err := s.themes.Unsave(ctx, userID, themeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSavedNotFound
		}
		return apperror.Internal(err)
	}
	applog.Debug(ctx, "theme unsaved", "userID", userID, "themeID", themeID)
	return nil
}

// CreateCustomTheme stores a theme owned by userID and saves it for them in
// the same transaction.
func (s *Service) CreateCustomTheme(ctx context.Context, userID string, in CustomThemeInput) (models.Theme, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Colors == nil || !in.Colors.Complete() {
		return models.Theme{}, ErrNameColorsMissing
	}

	description := ""
	if in.Description != nil {
		description = strings.TrimSpace(*in.Description)
	}
	if description == "" {
		owner, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return models.Theme{}, apperror.Internal(fmt.Errorf("load theme owner: %w", err))
		}
		description = "Custom theme by " + owner.Name
	}

	theme := models.Theme{
		Name:        name,
		Description: description,
		Colors:      *in.Colors,
	}
	theme.SetOwnership(models.OwnedBy(userID))

	if err := s.themes.CreateOwnedAndSave(ctx, &theme); err != nil {
		return models.Theme{}, apperror.Internal(err)
	}

	applog.Info(ctx, "custom theme created", "userID", userID, "themeID", theme.ID)
	return theme, nil
}

// ListMyThemes returns the themes owned by userID.
func (s *Service) ListMyThemes(ctx context.Context, userID string) ([]models.Theme, error) {
	themes, err := s.themes.ListOwned(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return themes, nil
}

// DeleteCustomTheme removes a theme owned by userID along with every saved
// record that points at it, whoever saved it.
func (s *Service) DeleteCustomTheme(ctx context.Context, userID, themeID string) error {
	theme, err := s.themes.Find(ctx, themeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrThemeNotFound
		}
		return apperror.Internal(err)
	}

	if !theme.Ownership().IsOwnedBy(userID) {
		return ErrNotThemeOwner
	}

	if err := s.themes.DeleteWithSaves(ctx, themeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrThemeNotFound
		}
		return apperror.Internal(err)
	}

	applog.Info(ctx, "custom theme deleted", "userID", userID, "themeID", themeID)
	return nil
}
