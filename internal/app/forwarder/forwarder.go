// Package forwarder собирает потребителя событий аналитики.
package forwarder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/cloud-console/internal/config"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/migrations"
	"github.com/magabrotheeeer/cloud-console/internal/rabbitmq"
	"github.com/magabrotheeeer/cloud-console/internal/services/analytics"
	"github.com/magabrotheeeer/cloud-console/internal/storage/repository"
)

type App struct {
	logger   *slog.Logger
	db       *repository.Storage
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	prefetch int
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.forwarder.New"

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

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.AnalyticsQueues(cfg.RabbitMQ.Queue))
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &App{
		logger:   logger,
		db:       db,
		conn:     conn,
		ch:       ch,
		queue:    cfg.RabbitMQ.Queue,
		prefetch: cfg.RabbitMQ.Prefetch,
	}, nil
}

// Run потребляет очередь до отмены ctx и дожидается обработки
// уже полученных сообщений.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	fwd := analytics.NewForwarder(a.db, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	done, err := rabbitmq.Consume(gctx, a.ch, a.queue, a.prefetch, a.logger, fwd.Handle)
	if err != nil {
		return err
	}
	a.logger.Info("analytics forwarder started", slog.String("queue", a.queue))

	g.Go(func() error {
		<-done
		if ctx.Err() == nil {
			return errors.New("analytics consumer stopped unexpectedly")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("stopping analytics forwarder")
		return nil
	})
	return g.Wait()
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
