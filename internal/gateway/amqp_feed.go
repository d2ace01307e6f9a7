package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KimJesus22/LanaSync/internal/config"
	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

// amqpChangeFeed consumes transaction change events from a durable AMQP
// queue. Malformed payloads are nacked without requeue so a bad message can
// never wedge the feed; well-formed events are acked once handed to the
// subscriber channel.
type amqpChangeFeed struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string

	closeOnce sync.Once
	closeErr  error
}

func NewAMQPChangeFeed(cfg *config.FeedConfig) (ChangeFeed, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	feed := &amqpChangeFeed{
		conn:         conn,
		channel:      channel,
		exchangeName: cfg.Exchange,
		queueName:    cfg.Queue,
	}

	if err := feed.setup(); err != nil {
		feed.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return feed, nil
}

func (f *amqpChangeFeed) setup() error {
	err := f.channel.ExchangeDeclare(
		f.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = f.channel.QueueDeclare(
		f.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = f.channel.QueueBind(
		f.queueName,    // queue name
		f.queueName,    // routing key
		f.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (f *amqpChangeFeed) Subscribe(ctx context.Context) (<-chan models.ChangeEvent, error) {
	deliveries, err := f.channel.Consume(
		f.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return nil, fmt.Errorf("start consuming: %w", err)
	}

	events := make(chan models.ChangeEvent)

	go func() {
		defer close(events)

		slog.InfoContext(ctx, "change feed subscription started", slog.String("queue", f.queueName))

		for {
			select {
			case <-ctx.Done():
				slog.InfoContext(ctx, "change feed subscription stopping", slog.String("reason", ctx.Err().Error()))
				return
			case delivery, ok := <-deliveries:
				if !ok {
					slog.WarnContext(ctx, "change feed delivery channel closed")
					return
				}

				event, err := decodeChangeEvent(delivery.Body)
				if err != nil {
					slog.ErrorContext(ctx, "dropping malformed change event",
						slog.String("error", err.Error()),
					)
					delivery.Nack(false, false)
					continue
				}

				select {
				case events <- event:
					delivery.Ack(false)
				case <-ctx.Done():
					delivery.Nack(false, true)
					return
				}
			}
		}
	}()

	return events, nil
}

func decodeChangeEvent(body []byte) (models.ChangeEvent, error) {
	var event models.ChangeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.ChangeEvent{}, fmt.Errorf("unmarshal change event: %w", err)
	}

	if err := event.Validate(); err != nil {
		return models.ChangeEvent{}, fmt.Errorf("invalid change event: %w", err)
	}

	return event, nil
}

// Close tears down the subscription; safe to call more than once
func (f *amqpChangeFeed) Close() error {
	f.closeOnce.Do(func() {
		if f.channel != nil {
			f.channel.Close()
		}
		if f.conn != nil {
			f.closeErr = f.conn.Close()
		}
	})
	return f.closeErr
}
