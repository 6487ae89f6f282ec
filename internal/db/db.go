package db

import (
	"fmt"
	"strings"
	"time"

	"palettefolio/internal/config"
	"palettefolio/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Dialector resolves the gorm driver for a connection URL. postgres:// and
// postgresql:// URLs and libpq key/value strings select postgres; sqlite://,
// file: and bare paths select sqlite.
func Dialector(url string) (gorm.Dialector, error) {
	trimmed := strings.TrimSpace(url)
	lower := strings.ToLower(trimmed)
	switch {
	case trimmed == "":
		return nil, fmt.Errorf("database URL must not be empty")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"), strings.Contains(lower, "host="):
		return postgres.Open(trimmed), nil
	case strings.HasPrefix(lower, "sqlite://"):
		return sqlite.Open(trimmed[len("sqlite://"):]), nil
	case strings.HasPrefix(lower, "file:"), lower == ":memory:", strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return sqlite.Open(trimmed), nil
	default:
		return nil, fmt.Errorf("unsupported database URL scheme: %q", trimmed)
	}
}

// GormConfig returns the gorm settings shared by every connection. Duplicate
// key violations are translated to gorm.ErrDuplicatedKey so callers can map
// them onto conflicts, and statements are logged through internal/log.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 NewLogger(level),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return db, nil
}

// AutoMigrate creates or updates the users, themes and saved_themes tables,
// including the unique email index and the composite saved_themes key.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Theme{},
		&models.SavedTheme{},
	)
}

func Configure(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(database); err != nil {
		return nil, err
	}

	return database, nil
}

func MustConfigure(cfg config.DatabaseConfig) *gorm.DB {
	database, err := Configure(cfg)
	if err != nil {
		panic(err)
	}

	return database
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
