package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the application. It is loaded
// once at startup and passed by value afterwards.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// AuthConfig groups credential settings.
type AuthConfig struct {
	Token TokenConfig
}

// TokenConfig holds the signing material for bearer tokens.
type TokenConfig struct {
	Secret string
	Issuer string
}

// Load reads an optional .env file, inspects the environment and builds a
// Config value.
func Load() (Config, error) {
	return LoadFiles(".env")
}

// LoadFiles behaves like Load but reads the given dotenv files. Missing files
// are ignored and variables already present in the environment win.
func LoadFiles(files ...string) (Config, error) {
	if err := loadDotenv(files); err != nil {
		return Config{}, err
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
		ReadHeaderTimeout: parseDurationWithDefault(os.Getenv("SERVER_READ_HEADER_TIMEOUT"), 5*time.Second),
		ShutdownTimeout:   parseDurationWithDefault(os.Getenv("SERVER_SHUTDOWN_TIMEOUT"), 5*time.Second),
	}

	cfg.Database = databaseFromEnv()

	cfg.Logging = LoggingConfig{
		Level:  firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		Format: firstNonEmpty(os.Getenv("LOG_FORMAT"), "text"),
	}

	cfg.Auth = AuthConfig{
		Token: TokenConfig{
			Secret: firstNonEmpty(
				os.Getenv("AUTH_TOKEN_SECRET"),
				os.Getenv("JWT_SECRET"),
			),
			Issuer: strings.TrimSpace(os.Getenv("AUTH_TOKEN_ISSUER")),
		},
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if strings.TrimSpace(cfg.Auth.Token.Secret) == "" {
		return Config{}, fmt.Errorf("token secret must not be empty: set AUTH_TOKEN_SECRET or JWT_SECRET")
	}
	if !cfg.Database.UseMock && strings.TrimSpace(cfg.Database.URL) == "" {
		return Config{}, fmt.Errorf("database URL must not be empty unless DATABASE_USE_MOCK is set")
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings. Tools that never sign
// tokens use it so they do not need AUTH_TOKEN_SECRET.
func LoadDatabase(files ...string) (DatabaseConfig, error) {
	if err := loadDotenv(files); err != nil {
		return DatabaseConfig{}, err
	}
	cfg := databaseFromEnv()
	if strings.TrimSpace(cfg.URL) == "" {
		return DatabaseConfig{}, fmt.Errorf("database URL must not be empty: set DATABASE_URL or DB_URL")
	}
	return cfg, nil
}

func loadDotenv(files []string) error {
	for _, file := range files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func databaseFromEnv() DatabaseConfig {
	return DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
