package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"palettefolio/internal/config"
	"palettefolio/internal/db"
	"palettefolio/internal/db/mock"
	applog "palettefolio/internal/log"
	"palettefolio/internal/server"
	"palettefolio/internal/token"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	setLogFormatFunc    = applog.SetFormat
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}
	if err := setLogFormatFunc(cfg.Logging.Format); err != nil {
		applog.Error(ctx, "invalid log format", "format", cfg.Logging.Format, "error", err)
		return 1
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Info(ctx, "using in-memory mock database")
		database, err = newMockDatabaseFunc(ctx)
	} else {
		database, err = configureDatabase(cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	tokens, err := token.NewIssuer(token.Config{
		Secret: []byte(cfg.Auth.Token.Secret),
		Issuer: cfg.Auth.Token.Issuer,
	})
	if err != nil {
		applog.Error(ctx, "failed to configure token issuer", "error", err)
		return 1
	}

	srv, err := newServerFunc(server.Config{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Database:          database,
		Tokens:            tokens,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "context cancelled, shutting down http server")
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}
	return 0
}
