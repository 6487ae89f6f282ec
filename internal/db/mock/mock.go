package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"palettefolio/internal/credential"
	"palettefolio/internal/db"
	"palettefolio/internal/db/seed"
	applog "palettefolio/internal/log"
	"palettefolio/internal/store"
	"palettefolio/models"
)

// Demo account credentials for the seeded user.
const (
	DemoEmail    = "demo@palettefolio.app"
	DemoPassword = "Palette!2024"
)

var instances atomic.Int64

// New returns an in-memory sqlite database seeded with the system catalogue
// and a demo user who owns one custom theme. Each call gets its own database.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:palettefolio-mock-%d?mode=memory&cache=shared", instances.Add(1))
	database, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	// Shared-cache memory databases lock at table level; one connection
	// serialises access and keeps the database alive.
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := populate(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func populate(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	themes := store.NewThemes(database)
	if _, err := seed.Apply(ctx, themes, seed.SystemThemes()); err != nil {
		return err
	}

	hash, err := credential.Hash(DemoPassword)
	if err != nil {
		return err
	}
	user := models.User{
		Name:         "Demo Studio",
		Email:        DemoEmail,
		PasswordHash: hash,
	}
	if err := store.NewUsers(database).Create(ctx, &user); err != nil {
		return err
	}

	custom := models.Theme{
		Name:        "Studio Dusk",
		Description: "Custom theme by " + user.Name,
		Colors: models.Colors{
			Background: "#1b1b2f",
			Surface:    "#162447",
			Primary:    "#e43f5a",
			Secondary:  "#1f4068",
			Accent:     "#f9d342",
			Text:       "#f5f5f5",
			Subtext:    "#a7a9be",
		},
	}
	custom.SetOwnership(models.OwnedBy(user.ID))
	if err := themes.CreateOwnedAndSave(ctx, &custom); err != nil {
		return err
	}

	midnight, err := themes.FindSystemByName(ctx, "Midnight Tokyo")
	if err != nil {
		return err
	}
	if _, err := themes.Save(ctx, user.ID, midnight.ID); err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded", "userID", user.ID)
	return nil
}
