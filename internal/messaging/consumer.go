package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// TaskProcessor обрабатывает одну задачу генерации. Ошибка означает, что
// сообщение не должно возвращаться в очередь: повтор детерминированной
// генерации даст тот же результат.
type TaskProcessor interface {
	Process(ctx context.Context, payload GenerationTaskPayload) error
}

// GenerationTaskConsumer читает очередь задач генерации и передает их процессору.
type GenerationTaskConsumer struct {
	conn      *amqp.Connection
	processor TaskProcessor
	logger    *zap.Logger
}

// NewGenerationTaskConsumer создает консьюмер задач генерации.
func NewGenerationTaskConsumer(conn *amqp.Connection, processor TaskProcessor, logger *zap.Logger) *GenerationTaskConsumer {
	return &GenerationTaskConsumer{
		conn:      conn,
		processor: processor,
		logger:    logger.Named("GenerationTaskConsumer"),
	}
}

// StartConsuming объявляет очередь и запускает цикл обработки в отдельной
// горутине. Цикл завершается при отмене контекста или закрытии канала.
func (c *GenerationTaskConsumer) StartConsuming(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("ошибка открытия канала консьюмера: %w", err)
	}

	if _, err := ch.QueueDeclare(GenerationTaskQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("ошибка объявления очереди '%s': %w", GenerationTaskQueue, err)
	}

	// По одной задаче на воркер, чтобы долгая генерация не блокировала очередь.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("ошибка установки QoS: %w", err)
	}

	deliveries, err := ch.Consume(
		GenerationTaskQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("ошибка подписки на очередь '%s': %w", GenerationTaskQueue, err)
	}

	go func() {
		defer ch.Close()
		c.logger.Info("Консьюмер задач генерации запущен", zap.String("queue", GenerationTaskQueue))
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Консьюмер задач генерации остановлен")
				return
			case d, ok := <-deliveries:
				if !ok {
					c.logger.Warn("Канал доставки закрыт")
					return
				}
				c.handleDelivery(ctx, d)
			}
		}
	}()
	return nil
}

func (c *GenerationTaskConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var payload GenerationTaskPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		c.logger.Error("Невалидное тело задачи, сообщение отброшено", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	logger := c.logger.With(
		zap.String("taskId", payload.TaskID),
		zap.String("userId", payload.UserID),
	)

	if err := c.processor.Process(ctx, payload); err != nil {
		logger.Error("Ошибка обработки задачи генерации", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if err := d.Ack(false); err != nil {
		logger.Error("Ошибка подтверждения сообщения", zap.Error(err))
		return
	}
	logger.Info("Задача генерации обработана")
}
