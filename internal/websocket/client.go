package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Время на запись одного сообщения клиенту.
	writeWait = 10 * time.Second
	// Время ожидания очередного pong от клиента.
	pongWait = 60 * time.Second
	// Период отправки ping, должен быть меньше pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Максимальный размер входящего сообщения.
	maxMessageSize = 4096
	// Размер буфера исходящих сообщений.
	sendBufferSize = 256
)

// Client - одно WebSocket соединение вместе с runtime-сессией пользователя.
type Client struct {
	userID  string
	conn    *websocket.Conn
	send    chan []byte
	session *RuntimeSession
	logger  *zap.Logger

	closeOnce sync.Once
	// mu и closed защищают send от записи после close: teardown может
	// выполняться конкурентно с доставкой событий из очереди client_updates.
	mu     sync.Mutex
	closed bool
}

func newClient(userID string, conn *websocket.Conn, logger *zap.Logger) *Client {
	c := &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: logger.With(zap.String("userId", userID)),
	}
	c.session = newRuntimeSession(c.enqueue, c.logger)
	return c
}

// enqueue ставит сообщение в очередь отправки без блокировки.
// После teardown возвращает false вместо записи в закрытый канал.
func (c *Client) enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		c.logger.Warn("Очередь отправки переполнена, сообщение отброшено")
		return false
	}
}

// teardown останавливает сессию и закрывает соединение. Безопасен при
// повторных вызовах.
func (c *Client) teardown() {
	c.closeOnce.Do(func() {
		c.session.Close()
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.send)
		_ = c.conn.Close()
	})
}

// readPump читает входящие сообщения и передает их runtime-сессии.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.Unregister(c.userID)
		c.logger.Debug("readPump завершен")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Ошибка чтения WebSocket", zap.Error(err))
			}
			return
		}
		c.session.Handle(message)
	}
}

// writePump пишет сообщения из очереди в соединение и поддерживает ping.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.logger.Debug("writePump завершен")
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("Ошибка записи WebSocket", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
