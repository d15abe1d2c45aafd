// Package websocket доставляет события генерации клиентам и выполняет
// серверные runtime-сессии (игра, чат-бот) поверх WebSocket.
package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub управляет активными WebSocket соединениями. Один пользователь - одно
// соединение: новое подключение вытесняет старое.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewHub создает и запускает менеджер соединений.
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan string),
		logger:     logger.Named("WSHub"),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.userID]; ok {
				h.logger.Info("Закрытие старого соединения", zap.String("userId", client.userID))
				old.teardown()
			}
			h.clients[client.userID] = client
			h.mu.Unlock()
			h.logger.Info("Клиент подключен", zap.String("userId", client.userID))

		case userID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[userID]; ok {
				delete(h.clients, userID)
				client.teardown()
			}
			h.mu.Unlock()
			h.logger.Info("Клиент отключен", zap.String("userId", userID))
		}
	}
}

// Register регистрирует нового клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента по идентификатору пользователя.
func (h *Hub) Unregister(userID string) {
	h.unregister <- userID
}

// SendToUser ставит сообщение в очередь отправки пользователю.
// Возвращает false, если пользователь оффлайн или очередь переполнена.
func (h *Hub) SendToUser(userID string, message []byte) bool {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return client.enqueue(message)
}
