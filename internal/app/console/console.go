// Package console собирает HTTP-приложение консоли.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/cloud-console/internal/cache"
	"github.com/magabrotheeeer/cloud-console/internal/config"
	"github.com/magabrotheeeer/cloud-console/internal/featureflag"
	"github.com/magabrotheeeer/cloud-console/internal/health"
	"github.com/magabrotheeeer/cloud-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-console/internal/lib/jwt"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/migrations"
	"github.com/magabrotheeeer/cloud-console/internal/rabbitmq"
	"github.com/magabrotheeeer/cloud-console/internal/services/billingstatus"
	"github.com/magabrotheeeer/cloud-console/internal/services/workspaces"
	"github.com/magabrotheeeer/cloud-console/internal/storage/repository"
	"github.com/magabrotheeeer/cloud-console/internal/tracking"
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	cache   *cache.Cache
	conn    *amqp.Connection
	ch      *amqp.Channel
	poller  *health.Poller
	closers []io.Closer
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.console.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.AnalyticsQueues(cfg.RabbitMQ.Queue))
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}

	probe, err := newProbe(cfg.Health)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if c, ok := probe.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}
	app.poller = health.NewPoller(probe, cfg.Health.Interval, cfg.Health.Timeout, logger)

	tracker := tracking.New(rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange), logger)
	flags := featureflag.New(cfg.FeatureFlags, db, cacheRedis, cfg.RedisConnection.TTL, logger)

	workspaceService := workspaces.NewService(db, cacheRedis, flags, tracker, app.poller,
		cfg.RedisConnection.TTL, cfg.Console.SessionTTL, logger)
	billingService := billingstatus.NewService(db, cacheRedis, flags,
		cfg.Billing.LowBalanceThreshold, cfg.RedisConnection.TTL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:          logger,
		Workspaces:      workspaceService,
		Billing:         billingService,
		Health:          app.poller,
		Tokens:          jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL),
		Tracker:         tracker,
		Limiter:         middlewarectx.NewUserRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		BannerThreshold: cfg.Billing.LowBalanceThreshold,
		StaticDir:       cfg.Console.StaticDir,
		SessionCookie:   cfg.Console.SessionCookie,
	})

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

func newProbe(cfg config.Health) (health.Probe, error) {
	switch cfg.Probe {
	case "grpc":
		probe, err := health.NewGRPCProbe(cfg.Target, "")
		if err != nil {
			return nil, err
		}
		return probe, nil
	case "http", "":
		return health.HTTPProbe{URL: cfg.Target, Client: &http.Client{Timeout: cfg.Timeout}}, nil
	default:
		return nil, fmt.Errorf("unknown health probe %q", cfg.Probe)
	}
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.poller != nil {
		a.poller.Stop()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close health probe", sl.Err(err))
		}
	}
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
