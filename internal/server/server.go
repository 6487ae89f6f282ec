package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"palettefolio/internal/catalog"
	"palettefolio/internal/credential"
	"palettefolio/internal/handlers"
	"palettefolio/internal/identity"
	applog "palettefolio/internal/log"
	"palettefolio/internal/metrics"
	"palettefolio/internal/store"
	"palettefolio/internal/token"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	Database          *gorm.DB
	Tokens            *token.Issuer
	// PasswordCost overrides the bcrypt work factor; zero keeps the default.
	PasswordCost int
	// Registry receives the prometheus collectors. A fresh registry is used
	// when nil.
	Registry *prometheus.Registry
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New wires repositories, services and handlers into a Server.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server", "addr", cfg.Addr)

	if cfg.Database == nil {
		return nil, errors.New("server: database is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("server: token issuer is required")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	m, err := metrics.New(cfg.Registry)
	if err != nil {
		return nil, err
	}
	sqlDB, err := cfg.Database.DB()
	if err != nil {
		return nil, err
	}
	if err := m.RegisterDB(sqlDB); err != nil {
		return nil, err
	}

	hasher := credential.NewHasher(credential.DefaultCost)
	if cfg.PasswordCost != 0 {
		hasher = credential.NewHasher(cfg.PasswordCost)
	}

	users := store.NewUsers(cfg.Database)
	themes := store.NewThemes(cfg.Database)
	api := handlers.New(
		identity.NewService(users, hasher, cfg.Tokens),
		catalog.NewService(themes, users),
		m,
	)

	applog.Debug(context.Background(), "handler dependencies configured")

	handler := newRouter(api, m, pingDatabase(sqlDB))

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
	}, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Debug(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server within the configured timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func pingDatabase(db pinger) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}
}
