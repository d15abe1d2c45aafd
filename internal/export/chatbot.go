package export

import (
	"encoding/json"
	"fmt"

	"creation-server/internal/models"
)

func chatbotBody(data models.ChatbotData) string {
	botName := data.BotName
	if botName == "" {
		botName = "Bot"
	}
	greeting := data.Greeting
	if greeting == "" {
		greeting = "Hello! How can I help you today?"
	}

	return fmt.Sprintf(`
    <div class="chat-container">
      <div class="chat-header">
        <h2>%s</h2>
      </div>
      <div id="chatMessages" class="chat-messages">
        <div class="message bot-message">
          <div class="message-content">%s</div>
        </div>
      </div>
      <div class="chat-input-container">
        <input type="text" id="chatInput" placeholder="Type a message..." />
        <button class="send-btn" onclick="sendMessage()">Send</button>
      </div>
    </div>`, escape(botName), escape(greeting))
}

const chatbotStyles = `
    .chat-container {
      max-width: 600px;
      margin: 20px auto;
      background: white;
      border-radius: 16px;
      box-shadow: 0 4px 16px rgba(0,0,0,0.1);
      display: flex;
      flex-direction: column;
      height: calc(100vh - 40px);
    }
    .chat-header {
      padding: 20px;
      border-bottom: 1px solid oklch(0.90 0.01 264);
    }
    .chat-header h2 {
      font-size: 20px;
      font-weight: 600;
    }
    .chat-messages {
      flex: 1;
      overflow-y: auto;
      padding: 20px;
      display: flex;
      flex-direction: column;
      gap: 16px;
    }
    .message {
      display: flex;
      max-width: 80%;
    }
    .user-message {
      align-self: flex-end;
    }
    .bot-message {
      align-self: flex-start;
    }
    .message-content {
      padding: 12px 16px;
      border-radius: 12px;
      line-height: 1.5;
    }
    .user-message .message-content {
      background: oklch(0.55 0.15 264);
      color: white;
    }
    .bot-message .message-content {
      background: oklch(0.96 0.005 264);
      color: oklch(0.25 0.02 264);
    }
    .chat-input-container {
      padding: 20px;
      border-top: 1px solid oklch(0.90 0.01 264);
      display: flex;
      gap: 12px;
    }
    #chatInput {
      flex: 1;
    }
    .send-btn {
      background: oklch(0.55 0.15 264);
      color: white;
      padding: 8px 24px;
    }
    .send-btn:hover {
      background: oklch(0.50 0.15 264);
    }`

// Скрипт чата: правила ответов встраиваются JSON-ом, ответ появляется с
// задержкой 500мс. Текст сообщений вставляется через textContent, не через
// innerHTML.
func chatbotScripts(data models.ChatbotData) string {
	responses := data.Responses
	if responses == nil {
		responses = []models.ChatbotResponse{}
	}
	responsesJSON, err := json.Marshal(responses)
	if err != nil {
		responsesJSON = []byte("[]")
	}
	fallback := data.Fallback
	if fallback == "" {
		fallback = "I understand. Can you tell me more?"
	}
	fallbackJSON, _ := json.Marshal(fallback)

	return fmt.Sprintf(`
    const responses = %s;
    const fallbackResponse = %s;

    function appendMessage(role, text) {
      const messagesContainer = document.getElementById('chatMessages');
      const msg = document.createElement('div');
      msg.className = 'message ' + role + '-message';
      const content = document.createElement('div');
      content.className = 'message-content';
      content.textContent = text;
      msg.appendChild(content);
      messagesContainer.appendChild(msg);
      messagesContainer.scrollTop = messagesContainer.scrollHeight;
    }

    function pickResponse(text) {
      const lower = text.toLowerCase();
      for (const r of responses) {
        const fragments = (r.trigger || '').toLowerCase().split(/[,\s]+/).filter(Boolean);
        if (fragments.some(f => lower.includes(f))) return r.response;
      }
      return fallbackResponse;
    }

    function sendMessage() {
      const input = document.getElementById('chatInput');
      const text = input.value.trim();
      if (!text) return;

      appendMessage('user', text);
      input.value = '';

      setTimeout(() => {
        appendMessage('bot', pickResponse(text));
      }, 500);
    }

    document.getElementById('chatInput').addEventListener('keypress', (e) => {
      if (e.key === 'Enter') sendMessage();
    });`, responsesJSON, fallbackJSON)
}
