// Package server initializes and runs the identity server.
// It wires the storage backends, the token service, the cleanup sweeper and
// the HTTP server, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mbaumgart/identity-server/internal/logging"
	"github.com/mbaumgart/identity-server/internal/server/cleanup"
	"github.com/mbaumgart/identity-server/internal/server/config"
	"github.com/mbaumgart/identity-server/internal/server/httpapi"
	"github.com/mbaumgart/identity-server/internal/server/shared/db"
	"github.com/mbaumgart/identity-server/internal/server/tokens"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	repoManager    db.RepositoryManager
	tokenService   *tokens.Service
	cleanupService *cleanup.Service
	httpServer     *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	ts, err := tokens.NewService(rm.Users(), rm.RefreshTokens(), c, logger)
	if err != nil {
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	cs := cleanup.NewService(rm.RefreshTokens(), c.CleanupInterval, logger)
	hs := httpapi.NewServer(c.Addr, logger, ts)

	return &App{
		config:         c,
		logger:         logger,
		repoManager:    rm,
		tokenService:   ts,
		cleanupService: cs,
		httpServer:     hs,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	app.cleanupService.Start(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.cleanupService.Stop()

	if err := app.repoManager.Conn().Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
