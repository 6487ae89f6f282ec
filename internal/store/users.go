package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"palettefolio/models"
)

// Users persists accounts.
type Users struct {
	db *gorm.DB
}

// NewUsers returns a user repository backed by db.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts user. A taken email yields ErrDuplicate.
func (s *Users) Create(ctx context.Context, user *models.User) error {
	if err := requireDB(s.db); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

// FindByEmail looks a user up by normalised email.
func (s *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if err := requireDB(s.db); err != nil {
		return models.User{}, err
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", translate(err))
	}
	return user, nil
}

// FindByID looks a user up by identifier.
func (s *Users) FindByID(ctx context.Context, id string) (models.User, error) {
	if err := requireDB(s.db); err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("find user %s: %w", id, translate(err))
	}
	return user, nil
}
