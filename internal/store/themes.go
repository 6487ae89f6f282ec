package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"palettefolio/models"
)

// Themes persists catalog entries and the saved-theme join records.
type Themes struct {
	db *gorm.DB
}

// NewThemes returns a theme repository backed by db.
func NewThemes(db *gorm.DB) *Themes {
	return &Themes{db: db}
}

// ListSystem returns every theme without an owner, ordered by name.
func (s *Themes) ListSystem(ctx context.Context) ([]models.Theme, error) {
	if err := requireDB(s.db); err != nil {
		return nil, err
	}
	themes := []models.Theme{}
	if err := s.db.WithContext(ctx).Where("created_by IS NULL").Order("name asc").Find(&themes).Error; err != nil {
		return nil, fmt.Errorf("list system themes: %w", err)
	}
	return themes, nil
}

// ListOwned returns the themes created by userID, newest first.
func (s *Themes) ListOwned(ctx context.Context, userID string) ([]models.Theme, error) {
	if err := requireDB(s.db); err != nil {
		return nil, err
	}
	themes := []models.Theme{}
	if err := s.db.WithContext(ctx).Where("created_by = ?", userID).Order("created_at desc").Find(&themes).Error; err != nil {
		return nil, fmt.Errorf("list themes owned by %s: %w", userID, err)
	}
	return themes, nil
}

// Find loads a theme by id.
func (s *Themes) Find(ctx context.Context, id string) (models.Theme, error) {
	if err := requireDB(s.db); err != nil {
		return models.Theme{}, err
	}
	var theme models.Theme
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&theme).Error; err != nil {
		return models.Theme{}, fmt.Errorf("find theme %s: %w", id, translate(err))
	}
	return theme, nil
}

// FindSystemByName loads a system theme by its display name.
func (s *Themes) FindSystemByName(ctx context.Context, name string) (models.Theme, error) {
	if err := requireDB(s.db); err != nil {
		return models.Theme{}, err
	}
	var theme models.Theme
	err := s.db.WithContext(ctx).Where("name = ? AND created_by IS NULL", name).First(&theme).Error
	if err != nil {
		return models.Theme{}, fmt.Errorf("find system theme %q: %w", name, translate(err))
	}
	return theme, nil
}

// Create inserts a theme without touching saved records.
func (s *Themes) Create(ctx context.Context, theme *models.Theme) error {
	if err := requireDB(s.db); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(theme).Error; err != nil {
		return fmt.Errorf("create theme: %w", translate(err))
	}
	return nil
}

// CreateOwnedAndSave inserts a custom theme and the creator's saved record in a
// single transaction.
func (s *Themes) CreateOwnedAndSave(ctx context.Context, theme *models.Theme) error {
	if err := requireDB(s.db); err != nil {
		return err
	}
	ownerID, ok := theme.Ownership().UserID()
	if !ok {
		return errors.New("create owned theme: theme has no owner")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(theme).Error; err != nil {
			return fmt.Errorf("create theme: %w", err)
		}
		saved := &models.SavedTheme{UserID: ownerID, ThemeID: theme.ID}
		if err := tx.Create(saved).Error; err != nil {
			return fmt.Errorf("auto-save theme %s: %w", theme.ID, err)
		}
		return nil
	})
	return translate(err)
}

// DeleteWithSaves removes every saved record that references themeID, for all
// users, and then the theme itself.
func (s *Themes) DeleteWithSaves(ctx context.Context, themeID string) error {
	if err := requireDB(s.db); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("theme_id = ?", themeID).Delete(&models.SavedTheme{}).Error; err != nil {
			return fmt.Errorf("delete saved records for theme %s: %w", themeID, err)
		}
		res := tx.Where("id = ?", themeID).Delete(&models.Theme{})
		if res.Error != nil {
			return fmt.Errorf("delete theme %s: %w", themeID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete theme %s: %w", themeID, ErrNotFound)
		}
		return nil
	})
}

// Save records that userID bookmarked themeID. A second save of the same pair
// yields ErrDuplicate.
func (s *Themes) Save(ctx context.Context, userID, themeID string) (models.SavedTheme, error) {
	if err := requireDB(s.db); err != nil {
		return models.SavedTheme{}, err
	}
	saved := models.SavedTheme{UserID: userID, ThemeID: themeID}
	if err := s.db.WithContext(ctx).Create(&saved).Error; err != nil {
		return models.SavedTheme{}, fmt.Errorf("save theme %s for %s: %w", themeID, userID, translate(err))
	}
	return saved, nil
}

// IsSaved reports whether the (userID, themeID) pair already exists.
func (s *Themes) IsSaved(ctx context.Context, userID, themeID string) (bool, error) {
	if err := requireDB(s.db); err != nil {
		return false, err
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SavedTheme{}).
		Where("user_id = ? AND theme_id = ?", userID, themeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check saved theme: %w", err)
	}
	return count > 0, nil
}

// ListSavedWithThemes returns the saved records of userID with each Theme
// expanded, newest first. Records whose theme no longer exists are skipped.
func (s *Themes) ListSavedWithThemes(ctx context.Context, userID string) ([]models.SavedTheme, error) {
	if err := requireDB(s.db); err != nil {
		return nil, err
	}
	var rows []models.SavedTheme
	err := s.db.WithContext(ctx).
		Preload("Theme").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list saved themes for %s: %w", userID, err)
	}
	saved := make([]models.SavedTheme, 0, len(rows))
	for _, row := range rows {
		if row.Theme == nil {
			continue
		}
		saved = append(saved, row)
	}
	return saved, nil
}

// Unsave deletes the saved record for the pair. A missing record yields
// ErrNotFound.
func (s *Themes) Unsave(ctx context.Context, userID, themeID string) error {
	if err := requireDB(s.db); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND theme_id = ?", userID, themeID).
		Delete(&models.SavedTheme{})
	if res.Error != nil {
		return fmt.Errorf("unsave theme %s for %s: %w", themeID, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("unsave theme %s for %s: %w", themeID, userID, ErrNotFound)
	}
	return nil
}
