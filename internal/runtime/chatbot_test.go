package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creation-server/internal/models"
)

func testChatData() models.ChatbotData {
	return models.ChatbotData{
		BotName:  "Helper",
		Greeting: "Hi! How can I help?",
		Responses: []models.ChatbotResponse{
			{Trigger: "hours,open,schedule", Response: "We are open 9 to 6."},
			{Trigger: "price, cost", Response: "Check the pricing page."},
		},
		Fallback: "Sorry, I did not get that.",
	}
}

func TestChatSession_GreetingOnCreate(t *testing.T) {
	s := NewChatSession(testChatData())

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, ChatRoleBot, msgs[0].Role)
	assert.Equal(t, "Hi! How can I help?", msgs[0].Text)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestChatSession_Respond(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"совпадение по первому фрагменту", "what are your hours?", "We are open 9 to 6."},
		{"совпадение по среднему фрагменту", "are you OPEN today", "We are open 9 to 6."},
		{"триггер с пробелом после запятой", "how much does it cost", "Check the pricing page."},
		{"первое правило выигрывает", "open price", "We are open 9 to 6."},
		{"без совпадений - fallback", "tell me a joke", "Sorry, I did not get that."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewChatSession(testChatData())
			msg, delay, ok := s.Respond(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, msg.Text)
			assert.Equal(t, ChatRoleBot, msg.Role)
			assert.GreaterOrEqual(t, delay, 800*time.Millisecond)
			assert.Less(t, delay, 1400*time.Millisecond)
		})
	}
}

func TestChatSession_EmptyInputIgnored(t *testing.T) {
	s := NewChatSession(testChatData())
	_, _, ok := s.Respond("   ")
	assert.False(t, ok)
	assert.Len(t, s.Messages(), 1, "история не растет от пустого ввода")
}

func TestChatSession_HistoryOrder(t *testing.T) {
	s := NewChatSession(testChatData())
	_, _, ok := s.Respond("open?")
	require.True(t, ok)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, ChatRoleBot, msgs[0].Role)
	assert.Equal(t, ChatRoleUser, msgs[1].Role)
	assert.Equal(t, "open?", msgs[1].Text)
	assert.Equal(t, ChatRoleBot, msgs[2].Role)
}

func TestChatSession_TypingDelayDeterministic(t *testing.T) {
	s := NewChatSession(testChatData())

	s.SetRNG(func() float64 { return 0 })
	assert.Equal(t, 800*time.Millisecond, s.TypingDelay())

	s.SetRNG(func() float64 { return 0.5 })
	assert.Equal(t, 1100*time.Millisecond, s.TypingDelay())
}

func TestChatSession_Reset(t *testing.T) {
	s := NewChatSession(testChatData())
	_, _, ok := s.Respond("hello there")
	require.True(t, ok)

	s.Reset()
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hi! How can I help?", msgs[0].Text)
}
