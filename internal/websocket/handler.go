package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// TokenVerifier проверяет токен и возвращает идентификатор пользователя.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler обслуживает запросы на установку WebSocket соединения.
type Handler struct {
	hub      *Hub
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewHandler создает обработчик WebSocket.
func NewHandler(hub *Hub, verifier TokenVerifier, logger *zap.Logger) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		logger:   logger.Named("WSHandler"),
	}
}

// ServeWS апгрейдит HTTP запрос до WebSocket. Токен передается
// query-параметром token, потому что браузерный WebSocket API не
// позволяет выставить заголовок Authorization.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.verifier.VerifyToken(token)
	if err != nil {
		h.logger.Warn("Невалидный токен WebSocket", zap.Error(err))
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Ошибка апгрейда соединения", zap.String("userId", userID), zap.Error(err))
		return
	}

	client := newClient(userID, conn, h.logger)
	h.hub.Register(client)

	go client.writePump()
	go client.readPump(h.hub)
}
