package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"creation-server/internal/models"
)

// TaskPublisher публикует задачи генерации.
type TaskPublisher interface {
	PublishGenerationTask(ctx context.Context, payload GenerationTaskPayload) error
}

// ClientUpdatePublisher публикует события генерации для клиента.
type ClientUpdatePublisher interface {
	PublishClientUpdate(ctx context.Context, payload models.ClientCreationUpdate) error
}

// rabbitMQPublisher публикует сообщения в одну очередь через default exchange.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

var (
	_ TaskPublisher         = (*rabbitMQPublisher)(nil)
	_ ClientUpdatePublisher = (*rabbitMQPublisher)(nil)
)

// NewRabbitMQTaskPublisher открывает канал и объявляет очередь задач генерации.
// Параметры очереди должны совпадать с консьюмером.
func NewRabbitMQTaskPublisher(conn *amqp.Connection, logger *zap.Logger) (TaskPublisher, error) {
	return newQueuePublisher(conn, GenerationTaskQueue, logger.Named("TaskPublisher"))
}

// NewRabbitMQClientUpdatePublisher открывает канал и объявляет очередь
// клиентских событий.
func NewRabbitMQClientUpdatePublisher(conn *amqp.Connection, logger *zap.Logger) (ClientUpdatePublisher, error) {
	return newQueuePublisher(conn, ClientUpdateQueue, logger.Named("ClientUpdatePublisher"))
}

func newQueuePublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*rabbitMQPublisher, error) {
	if conn == nil {
		return nil, errors.New("соединение RabbitMQ не инициализировано")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия канала для очереди '%s': %w", queueName, err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("ошибка объявления очереди '%s': %w", queueName, err)
	}
	logger.Info("Очередь объявлена", zap.String("queue", queueName))
	return &rabbitMQPublisher{channel: ch, queueName: queueName, logger: logger}, nil
}

// PublishGenerationTask сериализует и публикует задачу генерации.
func (p *rabbitMQPublisher) PublishGenerationTask(ctx context.Context, payload GenerationTaskPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации задачи генерации %s: %w", payload.TaskID, err)
	}
	if err := p.publishMessage(ctx, body); err != nil {
		return fmt.Errorf("ошибка публикации задачи генерации %s: %w", payload.TaskID, err)
	}
	return nil
}

// PublishClientUpdate сериализует и публикует событие для клиента.
func (p *rabbitMQPublisher) PublishClientUpdate(ctx context.Context, payload models.ClientCreationUpdate) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события для клиента: %w", err)
	}
	if err := p.publishMessage(ctx, body); err != nil {
		return fmt.Errorf("ошибка публикации события для клиента: %w", err)
	}
	return nil
}

func (p *rabbitMQPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		return errors.New("канал RabbitMQ не инициализирован")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= publishMaxRetries; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (default)
			p.queueName, // routing key = имя очереди
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
			return nil
		}
		p.logger.Warn("Ошибка публикации, повтор",
			zap.String("queue", p.queueName),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	return fmt.Errorf("ошибка публикации в очередь %s: %w", p.queueName, err)
}
