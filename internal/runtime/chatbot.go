package runtime

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"creation-server/internal/models"
)

// Роли сообщений в чат-сессии.
const (
	ChatRoleBot  = "bot"
	ChatRoleUser = "user"
)

// Базовая задержка "печатает..." и верхняя граница случайной добавки.
const (
	typingDelayBaseMs   = 800
	typingDelayJitterMs = 600
)

// ChatMessage - одно сообщение в истории сессии.
type ChatMessage struct {
	ID   string    `json:"id"`
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// ChatSession - состояние одного диалога с ботом. История принадлежит
// сессии, подбор ответа детерминирован по порядку правил.
type ChatSession struct {
	data     models.ChatbotData
	messages []ChatMessage
	rng      func() float64
	now      func() time.Time
}

// NewChatSession открывает диалог и сразу кладет приветствие бота в историю.
func NewChatSession(data models.ChatbotData) *ChatSession {
	s := &ChatSession{
		data: data,
		rng:  rand.Float64,
		now:  time.Now,
	}
	s.pushBot(data.Greeting)
	return s
}

// SetRNG подменяет источник случайностей задержки (для тестов).
func (s *ChatSession) SetRNG(rng func() float64) { s.rng = rng }

// SetClock подменяет часы сессии (для тестов).
func (s *ChatSession) SetClock(now func() time.Time) { s.now = now }

// Messages возвращает копию истории.
func (s *ChatSession) Messages() []ChatMessage {
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Respond добавляет реплику пользователя, подбирает ответ бота и возвращает
// его вместе с задержкой "печатает". Пустой ввод игнорируется.
func (s *ChatSession) Respond(input string) (ChatMessage, time.Duration, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ChatMessage{}, 0, false
	}
	s.push(ChatRoleUser, trimmed)

	reply := s.matchResponse(trimmed)
	msg := s.pushBot(reply)

	return msg, s.TypingDelay(), true
}

// TypingDelay - 800мс плюс случайная добавка до 600мс.
func (s *ChatSession) TypingDelay() time.Duration {
	jitter := time.Duration(s.rng()*typingDelayJitterMs) * time.Millisecond
	return typingDelayBaseMs*time.Millisecond + jitter
}

// Reset очищает историю и заново кладет приветствие.
func (s *ChatSession) Reset() {
	s.messages = nil
	s.pushBot(s.data.Greeting)
}

// matchResponse ищет первое правило, хотя бы один фрагмент триггера
// которого входит подстрокой в ввод. Триггер разбивается по запятым и
// пробелам, сравнение регистронезависимое. Без совпадений - fallback.
func (s *ChatSession) matchResponse(input string) string {
	lower := strings.ToLower(input)
	for _, r := range s.data.Responses {
		for _, fragment := range splitTrigger(r.Trigger) {
			if strings.Contains(lower, fragment) {
				return r.Response
			}
		}
	}
	return s.data.Fallback
}

func splitTrigger(trigger string) []string {
	fields := strings.FieldsFunc(strings.ToLower(trigger), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (s *ChatSession) pushBot(text string) ChatMessage {
	return s.push(ChatRoleBot, text)
}

func (s *ChatSession) push(role, text string) ChatMessage {
	msg := ChatMessage{ID: uuid.NewString(), Role: role, Text: text, At: s.now()}
	s.messages = append(s.messages, msg)
	return msg
}
