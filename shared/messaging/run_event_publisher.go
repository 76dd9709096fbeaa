package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishAttempts = 3

var _ interfaces.RunEventPublisher = (*rabbitMQRunEventPublisher)(nil)

type rabbitMQRunEventPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQRunEventPublisher opens a channel on conn and declares a durable queue.
// The channel is closed by Close.
func NewRabbitMQRunEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*rabbitMQRunEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("run event publisher: не удалось открыть канал: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("run event publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}
	logger = logger.Named("RunEventPublisher")
	logger.Info("Очередь событий забегов объявлена", zap.String("queue", queueName))
	return &rabbitMQRunEventPublisher{channel: ch, queueName: queueName, logger: logger}, nil
}

// PublishRunEvent publishes the event as a persistent JSON message, retrying a few times.
func (p *rabbitMQRunEventPublisher) PublishRunEvent(ctx context.Context, event models.RunEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события %s: %w", event.Type, err)
	}
	logFields := []zap.Field{
		zap.String("type", string(event.Type)),
		zap.Stringer("playerID", event.PlayerID),
		zap.String("queue", p.queueName),
	}

	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (default)
			p.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        publisherAppID,
			},
		)
		if err == nil {
			p.logger.Debug("Run event published", append(logFields, zap.Int("attempt", attempt))...)
			return nil
		}
		p.logger.Warn("Run event publish failed", append(logFields, zap.Int("attempt", attempt), zap.Error(err))...)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	return fmt.Errorf("ошибка публикации в очередь %s после retries: %w", p.queueName, err)
}

func (p *rabbitMQRunEventPublisher) Close() error {
	return p.channel.Close()
}

// NopRunEventPublisher drops events; used when RabbitMQ is not configured.
type NopRunEventPublisher struct{}

var _ interfaces.RunEventPublisher = NopRunEventPublisher{}

func (NopRunEventPublisher) PublishRunEvent(context.Context, models.RunEvent) error { return nil }
