package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
)

// Handler обрабатывает тело сообщения. Ошибка возвращает сообщение в очередь.
type Handler func(ctx context.Context, body []byte) error

// Consume запускает потребителя очереди с не более чем parallel одновременными
// обработчиками. Сообщение подтверждается после успешной обработки.
// Возвращает канал, который закрывается после остановки потребителя.
func Consume(ctx context.Context, ch *amqp.Channel, queueName string, parallel int, log *slog.Logger, handler Handler) (<-chan struct{}, error) {
	const op = "rabbitmq.Consume"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if parallel < 1 {
		parallel = 1
	}
	done := make(chan struct{})
	sem := make(chan struct{}, parallel)

	go func() {
		defer close(done)
		defer func() {
			// ждём завершения запущенных обработчиков
			for range parallel {
				sem <- struct{}{}
			}
		}()
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(ctx, d.Body); err != nil {
						log.Warn("failed to handle message, requeueing", sl.Err(err))
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return done, nil
}
