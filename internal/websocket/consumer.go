package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"creation-server/internal/messaging"
	"creation-server/internal/models"
)

// UpdateConsumer читает очередь клиентских событий и доставляет их адресату
// через Hub. События для оффлайн-пользователей отбрасываются: клиент при
// подключении запрашивает актуальный список creations по HTTP.
type UpdateConsumer struct {
	conn   *amqp.Connection
	hub    *Hub
	logger *zap.Logger
}

// NewUpdateConsumer создает консьюмер клиентских событий.
func NewUpdateConsumer(conn *amqp.Connection, hub *Hub, logger *zap.Logger) *UpdateConsumer {
	return &UpdateConsumer{
		conn:   conn,
		hub:    hub,
		logger: logger.Named("UpdateConsumer"),
	}
}

// StartConsuming объявляет очередь и запускает цикл доставки в отдельной
// горутине.
func (c *UpdateConsumer) StartConsuming(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("ошибка открытия канала консьюмера событий: %w", err)
	}

	if _, err := ch.QueueDeclare(messaging.ClientUpdateQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("ошибка объявления очереди '%s': %w", messaging.ClientUpdateQueue, err)
	}

	deliveries, err := ch.Consume(messaging.ClientUpdateQueue, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("ошибка подписки на очередь '%s': %w", messaging.ClientUpdateQueue, err)
	}

	go func() {
		defer ch.Close()
		c.logger.Info("Консьюмер клиентских событий запущен", zap.String("queue", messaging.ClientUpdateQueue))
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Консьюмер клиентских событий остановлен")
				return
			case d, ok := <-deliveries:
				if !ok {
					c.logger.Warn("Канал доставки закрыт")
					return
				}
				c.handleDelivery(d)
			}
		}
	}()
	return nil
}

func (c *UpdateConsumer) handleDelivery(d amqp.Delivery) {
	var update models.ClientCreationUpdate
	if err := json.Unmarshal(d.Body, &update); err != nil {
		c.logger.Error("Невалидное клиентское событие, сообщение отброшено", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	delivered := c.hub.SendToUser(update.UserID, d.Body)
	if !delivered {
		c.logger.Debug("Пользователь оффлайн, событие отброшено",
			zap.String("userId", update.UserID),
			zap.String("taskId", update.TaskID),
		)
	}
	_ = d.Ack(false)
}
