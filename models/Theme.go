package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Colors is the fixed palette carried by every theme. Values are free-form CSS
// color strings.
type Colors struct {
	Background string `gorm:"column:color_bg" json:"bg"`
	Surface    string `gorm:"column:color_surface" json:"surface"`
	Primary    string `gorm:"column:color_primary" json:"primary"`
	Secondary  string `gorm:"column:color_secondary" json:"secondary"`
	Accent     string `gorm:"column:color_accent" json:"accent"`
	Text       string `gorm:"column:color_text" json:"text"`
	Subtext    string `gorm:"column:color_subtext" json:"subtext"`
}

// Complete reports whether all seven palette entries are present.
func (c Colors) Complete() bool {
	for _, value := range []string{c.Background, c.Surface, c.Primary, c.Secondary, c.Accent, c.Text, c.Subtext} {
		if strings.TrimSpace(value) == "" {
			return false
		}
	}
	return true
}

// Theme is a catalog entry. System themes have no owner; custom themes belong
// to exactly one user.
type Theme struct {
	ID          string  `gorm:"type:varchar(36);primaryKey"`
	Name        string  `gorm:"not null;index"`
	Description string  `gorm:"type:text"`
	Colors      Colors  `gorm:"embedded"`
	CreatedBy   *string `gorm:"type:varchar(36);index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns an identifier when one has not been provided.
func (t *Theme) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Ownership returns the owner of the theme as a tagged value.
func (t Theme) Ownership() Ownership {
	if t.CreatedBy == nil || *t.CreatedBy == "" {
		return SystemOwner()
	}
	return OwnedBy(*t.CreatedBy)
}

// SetOwnership stores the provided ownership on the theme.
func (t *Theme) SetOwnership(o Ownership) {
	if id, ok := o.UserID(); ok {
		t.CreatedBy = &id
		return
	}
	t.CreatedBy = nil
}

type themeJSON struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Colors      Colors    `json:"colors"`
	CreatedBy   *string   `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MarshalJSON renders the owner as null for system themes.
func (t Theme) MarshalJSON() ([]byte, error) {
	out := themeJSON{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Colors:      t.Colors,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if id, ok := t.Ownership().UserID(); ok {
		out.CreatedBy = &id
	}
	return json.Marshal(out)
}

// OwnerKind enumerates the ownership states of a theme.
type OwnerKind uint8

const (
	// OwnerSystem marks a theme seeded by the platform.
	OwnerSystem OwnerKind = iota
	// OwnerUser marks a theme created by a single user.
	OwnerUser
)

// Ownership is either System or Owned(userID). The zero value is System.
type Ownership struct {
	kind   OwnerKind
	userID string
}

// SystemOwner returns the ownership of a platform theme.
func SystemOwner() Ownership {
	return Ownership{kind: OwnerSystem}
}

// OwnedBy returns the ownership of a custom theme. An empty id yields System.
func OwnedBy(userID string) Ownership {
	if userID == "" {
		return SystemOwner()
	}
	return Ownership{kind: OwnerUser, userID: userID}
}

// Kind reports which variant the ownership holds.
func (o Ownership) Kind() OwnerKind {
	return o.kind
}

// IsSystem reports whether the theme has no owning user.
func (o Ownership) IsSystem() bool {
	return o.kind == OwnerSystem
}

// UserID returns the owning user and true for custom themes.
func (o Ownership) UserID() (string, bool) {
	if o.kind != OwnerUser {
		return "", false
	}
	return o.userID, true
}

// IsOwnedBy reports whether userID owns the theme. System themes are owned by
// nobody.
func (o Ownership) IsOwnedBy(userID string) bool {
	return o.kind == OwnerUser && userID != "" && o.userID == userID
}
