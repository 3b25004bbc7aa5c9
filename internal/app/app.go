package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mockabot/internal/bot"
	"mockabot/internal/config"
	"mockabot/internal/registry"
	"mockabot/internal/relay"
	"mockabot/internal/storage/memory"
)

// drainTimeout bounds how long shutdown waits for queued updates
const drainTimeout = 10 * time.Second

// App represents the application
type App struct {
	config   *config.Config
	logger   *zap.Logger
	client   *relay.Client
	registry *registry.Registry
	bots     []*bot.Bot
	server   *http.Server

	// ctx outlives intake so queued updates can finish after pollers stop
	ctx      context.Context
	cancel   context.CancelFunc
	pollCtx  context.Context
	stopPoll context.CancelFunc
	wg       sync.WaitGroup
}

// LoadConfig reads .env (if any) and the environment
func LoadConfig() (*config.Config, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", envErr)
	}
	return cfg, nil
}

// New creates and initializes a new application instance
func New(cfg *config.Config) (*App, error) {
	logger, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	pollCtx, stopPoll := context.WithCancel(ctx)
	app := &App{
		config:   cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		pollCtx:  pollCtx,
		stopPoll: stopPoll,
	}

	logger.Info("Starting Mockabot...")

	app.client = relay.NewClient(cfg.APIEndpoint, cfg.RelayTimeout, logger)
	app.initBots()
	app.initHTTPServer()

	return app, nil
}

// initBots registers every configured identity with its own cache
func (a *App) initBots() {
	a.registry = registry.New(a.ctx, a.logger)
	for _, identity := range a.config.Bots() {
		b := bot.NewBot(identity, a.client, memory.New(), a.logger)
		a.registry.Register(identity.Username, identity.Secret, b)
		a.bots = append(a.bots, b)
	}
	a.logger.Info("Bots registered", zap.Strings("bot_usernames", a.registry.Usernames()))
}

// initHTTPServer initializes the HTTP server for health checks and webhooks
func (a *App) initHTTPServer() {
	mux := http.NewServeMux()
	hs := bot.NewHTTPServer(a.registry, a.logger, a.config.WebhookMode)
	hs.RegisterRoutes(mux)

	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      hs.LogRequests(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Run starts the application and blocks until a signal arrives
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", a.config.Port))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if err := a.startBots(); err != nil {
		_ = a.Shutdown()
		return err
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.logger.Info("Shutting down...", zap.String("signal", sig.String()))
	case err := <-errCh:
		a.logger.Error("Shutting down after server failure", zap.Error(err))
		_ = a.Shutdown()
		return err
	}
	return a.Shutdown()
}

// startBots sets every webhook, or starts one poller per bot
func (a *App) startBots() error {
	if a.config.WebhookMode {
		for _, b := range a.bots {
			if err := b.StartWebhook(a.ctx, a.client, a.config.WebhookURL); err != nil {
				return fmt.Errorf("failed to setup webhook for @%s: %w", b.Identity().Username, err)
			}
		}
		a.logger.Info("Webhooks configured. Updates arrive at /webhooks/telegram/{username}/{secret}")
		return nil
	}

	for _, b := range a.bots {
		a.wg.Add(1)
		go func(b *bot.Bot) {
			defer a.wg.Done()
			if err := b.Poll(a.pollCtx, a.client, a.registry); err != nil {
				a.logger.Error("Polling stopped", zap.String("bot_username", b.Identity().Username), zap.Error(err))
			}
		}(b)
	}
	return nil
}

// Shutdown stops intake first, then lets queued updates finish
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	a.stopPoll()
	a.wg.Wait()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), drainTimeout)
	defer drainCancel()
	if err := a.registry.Wait(drainCtx); err != nil {
		a.logger.Warn("Queued updates did not finish", zap.Error(err))
	}
	a.cancel()

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return nil
}
