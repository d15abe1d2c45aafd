package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"creation-server/internal/models"
	"creation-server/internal/runtime"
)

// Интервал серверного игрового тика. Снимок состояния уходит клиенту после
// каждого шага.
const gameTickInterval = 50 * time.Millisecond

// Размер поля по умолчанию, если клиент не сообщил свой.
const (
	defaultFieldWidth  = 800
	defaultFieldHeight = 600
)

// inboundMessage - конверт входящего сообщения от клиента.
type inboundMessage struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Width   float64         `json:"width,omitempty"`
	Height  float64         `json:"height,omitempty"`
	Key     string          `json:"key,omitempty"`
	Pressed bool            `json:"pressed,omitempty"`
	Event   string          `json:"event,omitempty"`
	ID      int             `json:"id,omitempty"`
	X       float64         `json:"x,omitempty"`
	Y       float64         `json:"y,omitempty"`
	Text    string          `json:"text,omitempty"`
}

// RuntimeSession выполняет игровой движок и чат-сессию на сервере для одного
// соединения. Все обращения к движкам сериализуются мьютексом: тики таймеров
// и входящие сообщения не пересекаются.
type RuntimeSession struct {
	mu     sync.Mutex
	closed bool
	send   func([]byte) bool
	logger *zap.Logger

	game      *runtime.GameEngine
	gameTimer *time.Timer
	epoch     time.Time

	chat      *runtime.ChatSession
	chatTimer *time.Timer
	chatGen   int
}

func newRuntimeSession(send func([]byte) bool, logger *zap.Logger) *RuntimeSession {
	return &RuntimeSession{send: send, logger: logger.Named("RuntimeSession")}
}

// Handle обрабатывает одно сообщение клиента.
func (s *RuntimeSession) Handle(raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError("invalid message")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	switch msg.Type {
	case "game_init":
		s.handleGameInit(msg)
	case "game_start", "game_restart":
		s.withGame(func() {
			s.game.Start()
			s.scheduleGameTick()
		})
	case "game_pause":
		s.withGame(func() { s.game.Pause() })
	case "game_resume":
		s.withGame(func() {
			s.game.Resume()
			s.scheduleGameTick()
		})
	case "game_key":
		s.withGame(func() {
			if msg.Pressed {
				s.game.KeyDown(runtime.GameKey(msg.Key))
			} else {
				s.game.KeyUp(runtime.GameKey(msg.Key))
			}
		})
	case "game_pointer":
		s.withGame(func() { s.handlePointer(msg) })
	case "chat_init":
		s.handleChatInit(msg.Data)
	case "chat_message":
		s.handleChatMessage(msg.Text)
	case "chat_reset":
		s.handleChatReset()
	default:
		s.sendError("unknown message type")
	}
}

// Close останавливает таймеры сессии. Уже запланированные колбэки, успевшие
// сработать, увидят closed и не тронут движки.
func (s *RuntimeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.gameTimer != nil {
		s.gameTimer.Stop()
	}
	if s.chatTimer != nil {
		s.chatTimer.Stop()
	}
}

// --- игра ---

func (s *RuntimeSession) handleGameInit(msg inboundMessage) {
	width, height := msg.Width, msg.Height
	if width <= 0 {
		width = defaultFieldWidth
	}
	if height <= 0 {
		height = defaultFieldHeight
	}

	var data any
	if len(msg.Data) > 0 {
		// Невалидный JSON оставляет data nil, нормализатор подставит дефолты.
		_ = json.Unmarshal(msg.Data, &data)
	}

	if s.gameTimer != nil {
		s.gameTimer.Stop()
	}
	s.game = runtime.NewGameEngine(data, width, height)
	s.epoch = time.Now()
	s.sendGameState()
}

func (s *RuntimeSession) withGame(fn func()) {
	if s.game == nil {
		s.sendError("game is not initialized")
		return
	}
	fn()
	s.sendGameState()
}

func (s *RuntimeSession) handlePointer(msg inboundMessage) {
	switch msg.Event {
	case "down":
		s.game.PointerDown(msg.ID, msg.X, msg.Y)
	case "move":
		s.game.PointerMove(msg.ID, msg.X, msg.Y)
	case "up":
		s.game.PointerUp(msg.ID)
	}
}

// scheduleGameTick планирует следующий шаг. Вызывается под мьютексом.
func (s *RuntimeSession) scheduleGameTick() {
	if s.game == nil || s.game.State() != runtime.GameStatePlaying {
		return
	}
	if s.gameTimer != nil {
		s.gameTimer.Stop()
	}
	s.gameTimer = time.AfterFunc(gameTickInterval, s.gameTick)
}

func (s *RuntimeSession) gameTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Состояние перепроверяется перед шагом: пауза или teardown, случившиеся
	// между планированием и срабатыванием, отменяют тик.
	if s.closed || s.game == nil || s.game.State() != runtime.GameStatePlaying {
		return
	}
	now := float64(time.Since(s.epoch).Milliseconds())
	s.game.Step(now)
	s.sendGameState()
	s.scheduleGameTick()
}

func (s *RuntimeSession) sendGameState() {
	if s.game == nil {
		return
	}
	s.sendJSON(map[string]any{
		"type":     "game_state",
		"snapshot": s.game.Snapshot(),
	})
}

// --- чат-бот ---

func (s *RuntimeSession) handleChatInit(data json.RawMessage) {
	var chatData models.ChatbotData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &chatData); err != nil {
			s.sendError("invalid chatbot data")
			return
		}
	}

	s.chatGen++
	if s.chatTimer != nil {
		s.chatTimer.Stop()
	}
	s.chat = runtime.NewChatSession(chatData)
	for _, m := range s.chat.Messages() {
		s.sendChatMessage(m)
	}
}

func (s *RuntimeSession) handleChatMessage(text string) {
	if s.chat == nil {
		s.sendError("chat is not initialized")
		return
	}
	reply, delay, ok := s.chat.Respond(text)
	if !ok {
		return
	}
	s.sendJSON(map[string]any{"type": "chat_typing"})

	gen := s.chatGen
	if s.chatTimer != nil {
		s.chatTimer.Stop()
	}
	s.chatTimer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Ответ устарел, если сессия закрыта или чат переинициализирован.
		if s.closed || s.chatGen != gen {
			return
		}
		s.sendChatMessage(reply)
	})
}

func (s *RuntimeSession) handleChatReset() {
	if s.chat == nil {
		return
	}
	s.chatGen++
	if s.chatTimer != nil {
		s.chatTimer.Stop()
	}
	s.chat.Reset()
	for _, m := range s.chat.Messages() {
		s.sendChatMessage(m)
	}
}

func (s *RuntimeSession) sendChatMessage(m runtime.ChatMessage) {
	s.sendJSON(map[string]any{
		"type":    "chat_message",
		"message": m,
	})
}

// --- отправка ---

func (s *RuntimeSession) sendJSON(payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Ошибка сериализации исходящего сообщения", zap.Error(err))
		return
	}
	s.send(body)
}

func (s *RuntimeSession) sendError(message string) {
	s.sendJSON(map[string]any{"type": "error", "message": message})
}
