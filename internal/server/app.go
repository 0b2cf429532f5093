// Package server initializes and runs the identity service: configuration,
// storage and migrations, the business services, and the HTTP endpoint with
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mlukyanov/userd/internal/logging"
	"github.com/mlukyanov/userd/internal/server/auth"
	"github.com/mlukyanov/userd/internal/server/config"
	"github.com/mlukyanov/userd/internal/server/github"
	"github.com/mlukyanov/userd/internal/server/httpapi"
	"github.com/mlukyanov/userd/internal/server/repositories/repomanager"
	"github.com/mlukyanov/userd/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.RepositoryManager
	httpSrv *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	notifier := services.NewLogNotifier(logger)
	us := services.NewUserService(manager.Users(), notifier, cfg)
	ws := services.NewWalletService(manager.Users(), logger)

	provider := github.NewClient(cfg.ProviderBaseURL, cfg.ProviderTimeout)
	ob := services.NewOnboardingService(provider, us, logger)

	resolver := auth.NewCachedResolver(
		auth.NewStoreResolver(manager.Users(), cfg.SecretKey),
		cfg.TokenCacheSize, cfg.TokenCacheTTL)

	httpSrv := httpapi.NewServer(cfg.EndpointAddr, logger, us, ob, ws, resolver)

	return &App{config: cfg, logger: logger, manager: manager, httpSrv: httpSrv}, nil
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
	if err := app.httpSrv.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.manager.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err.Error())
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
