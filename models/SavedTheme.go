package models

import "time"

// SavedTheme records that a user bookmarked a theme. The composite primary key
// keeps at most one record per (user, theme) pair.
type SavedTheme struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"userId"`
	ThemeID   string    `gorm:"type:varchar(36);primaryKey;index" json:"themeId"`
	Theme     *Theme    `gorm:"foreignKey:ThemeID;references:ID" json:"theme,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
