package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account that can authenticate and own custom themes.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"_id"`
	Name         string    `gorm:"type:varchar(50);not null" json:"name"`
	Email        string    `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an identifier and normalises the email address.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// PublicView returns the fields of the user that are safe to expose.
func (u User) PublicView() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// PublicUser is the externally visible projection of a User. The "_id" key
// matches what the web client reads.
type PublicUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NormalizeEmail trims and lower-cases an email address so lookups and the
// unique index agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
