package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"creation-server/internal/models"
)

// Options - необязательные параметры генерации.
type Options struct {
	// GameKindOverride принудительно задает архетип игры вместо классификатора.
	GameKindOverride models.GameKind
}

// GenerateFromPrompt детерминированно синтезирует структурированные данные
// creation по промпту и типу. Никакой реальной генерации нет: это
// сопоставление ключевых слов с фиксированными шаблонами.
func GenerateFromPrompt(prompt string, typ models.CreationType, opts *Options) (any, error) {
	switch typ {
	case models.CreationTypeApp:
		return GenerateApp(prompt), nil
	case models.CreationTypeWebsite:
		return GenerateWebsite(prompt), nil
	case models.CreationTypeChatbot:
		return GenerateChatbot(prompt), nil
	case models.CreationTypeImage:
		return GenerateImage(prompt), nil
	case models.CreationTypeGame:
		var override models.GameKind
		if opts != nil {
			override = opts.GameKindOverride
		}
		return GameTemplate(prompt, override), nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownType, typ)
}

// BuildDraft генерирует данные и упаковывает их в CreationDraft.
func BuildDraft(prompt string, typ models.CreationType, opts *Options) (models.CreationDraft, error) {
	data, err := GenerateFromPrompt(prompt, typ, opts)
	if err != nil {
		return models.CreationDraft{}, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return models.CreationDraft{}, fmt.Errorf("ошибка сериализации данных генерации: %w", err)
	}
	return models.CreationDraft{
		Type:      typ,
		Prompt:    prompt,
		Data:      raw,
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}

// GenerateApp строит данные приложения: калькулятор (basic/scientific)
// при соответствующих ключевых словах, иначе task-list с сидовым набором задач.
func GenerateApp(prompt string) models.AppData {
	lower := strings.ToLower(prompt)

	isCalculator := strings.Contains(lower, "calculator") || strings.Contains(lower, "calc")
	if isCalculator {
		isScientific := containsAny(lower, "scientific", "trig", "sin", "cos", "tan", "log", "ln", "function")
		mode := models.CalculatorModeBasic
		title := "Calculator"
		if isScientific {
			mode = models.CalculatorModeScientific
			title = "Scientific Calculator"
		}
		return models.AppData{
			AppKind: models.AppKindCalculator,
			Mode:    mode,
			Title:   title,
		}
	}

	title := "My App"
	if strings.Contains(lower, "todo") || strings.Contains(lower, "task") {
		title = "Task Manager"
	} else if strings.Contains(lower, "note") {
		title = "Notes App"
	}

	return models.AppData{
		AppKind: models.AppKindTaskList,
		Title:   title,
		Tasks: []models.AppTask{
			{Text: "Complete project setup", Completed: false},
			{Text: "Design user interface", Completed: true},
			{Text: "Implement core features", Completed: false},
			{Text: "Test and deploy", Completed: false},
		},
		Actions: []string{"Add New Item", "Clear Completed"},
	}
}

// GenerateWebsite строит фиксированную трехстраничную структуру сайта,
// текст выбирается по ключевым словам portfolio/business.
func GenerateWebsite(prompt string) models.WebsiteData {
	lower := strings.ToLower(prompt)
	isPortfolio := strings.Contains(lower, "portfolio")
	isBusiness := strings.Contains(lower, "business") || strings.Contains(lower, "company")

	home := "Welcome to our website. Discover what we have to offer."
	about := "We are a team of dedicated professionals committed to delivering quality results."
	if isPortfolio {
		home = "Welcome to my portfolio. I create beautiful digital experiences."
		about = "I am a creative professional with years of experience in design and development."
	} else if isBusiness {
		home = "Welcome to our company. We deliver excellence in every project."
	}

	return models.WebsiteData{
		Pages: []models.WebsitePage{
			{Title: "Home", Content: home, Image: "🏠 Hero Image"},
			{Title: "About", Content: about, Image: "👥 Team Photo"},
			{Title: "Contact", Content: "Get in touch with us. We would love to hear from you and discuss your project.", Image: "📧 Contact Form"},
		},
	}
}

var botNamePattern = regexp.MustCompile(`(?i)(?:named?|called?|name is)\s+([A-Za-z][a-z]+)`)

// GenerateChatbot строит конфигурацию бота: имя из явного "named X" или
// доменного ключевого слова, таблица триггер-ответ по детектированному
// домену. Всегда возвращает хотя бы один ответ.
func GenerateChatbot(prompt string) models.ChatbotData {
	lower := strings.ToLower(prompt)

	botName := "Assistant"
	if m := botNamePattern.FindStringSubmatch(prompt); m != nil {
		botName = m[1]
	} else if strings.Contains(lower, "customer service") || strings.Contains(lower, "support") {
		botName = "Support Bot"
	} else if strings.Contains(lower, "sales") {
		botName = "Sales Assistant"
	} else if strings.Contains(lower, "faq") {
		botName = "FAQ Bot"
	} else if strings.Contains(lower, "help") {
		botName = "Help Assistant"
	} else if containsAny(lower, "doctor", "health", "medical") {
		botName = "Health Assistant"
	} else if containsAny(lower, "food", "restaurant", "menu") {
		botName = "Food Assistant"
	} else if containsAny(lower, "travel", "hotel", "flight") {
		botName = "Travel Assistant"
	}

	var responses []models.ChatbotResponse
	switch {
	case strings.Contains(lower, "customer service") || strings.Contains(lower, "support"):
		responses = supportResponses()
	case containsAny(lower, "sales", "product", "buy", "purchase"):
		responses = salesResponses()
	case strings.Contains(lower, "faq") || strings.Contains(lower, "question"):
		responses = faqResponses()
	default:
		responses = genericResponses(botName)
	}

	// Гарантируем хотя бы один ответ
	if len(responses) == 0 {
		responses = []models.ChatbotResponse{
			{Trigger: "hello,hi,hey", Response: fmt.Sprintf("Hello! I'm %s. How can I help you today?", botName)},
			{Trigger: "help,what can you do", Response: "I'm here to assist you. Feel free to ask me anything!"},
			{Trigger: "thank,thanks,bye,goodbye", Response: "You're welcome! Have a great day!"},
		}
	}

	return models.ChatbotData{
		BotName:   botName,
		Greeting:  fmt.Sprintf("Hi! I'm %s. How can I help you today?", botName),
		Responses: responses,
		Fallback:  "I'm not sure I understand that. Could you rephrase your question? I'm here to help!",
	}
}

func supportResponses() []models.ChatbotResponse {
	return []models.ChatbotResponse{
		{Trigger: "hello,hi,hey,greetings", Response: "Hello! Welcome to our support center. How can I assist you today?"},
		{Trigger: "problem,issue,error,broken,not working", Response: "I understand you're experiencing an issue. Could you please describe the problem in more detail so I can help you better?"},
		{Trigger: "refund,return,money back", Response: "I can help you with refunds and returns. Our policy allows returns within 30 days of purchase. Would you like me to initiate the process?"},
		{Trigger: "order,shipping,delivery,track", Response: "I can help you track your order. Please provide your order number and I'll look it up for you."},
		{Trigger: "cancel,cancellation", Response: "I can help you with cancellations. Please note that orders can be cancelled within 24 hours of placement. Shall I proceed?"},
		{Trigger: "password,login,account,access", Response: "For account-related issues, I can help you reset your password or unlock your account. Which would you prefer?"},
		{Trigger: "price,cost,how much,pricing", Response: "I can provide pricing information. Could you specify which product or service you are asking about?"},
		{Trigger: "thank,thanks,bye,goodbye", Response: "Thank you for contacting us! Is there anything else I can help you with today?"},
	}
}

func salesResponses() []models.ChatbotResponse {
	return []models.ChatbotResponse{
		{Trigger: "hello,hi,hey,greetings", Response: "Hello! Welcome! I'm here to help you find the perfect product. What are you looking for today?"},
		{Trigger: "price,cost,how much,pricing", Response: "Our products are competitively priced. Could you tell me which product you're interested in so I can give you the exact pricing?"},
		{Trigger: "discount,offer,deal,sale,promo", Response: "Great news! We currently have special offers available. Would you like me to share our latest deals with you?"},
		{Trigger: "feature,specification,spec,detail", Response: "I'd be happy to walk you through the features. Which product would you like to know more about?"},
		{Trigger: "buy,purchase,order,checkout", Response: "Excellent choice! I can guide you through the purchase process. Would you like to proceed to checkout?"},
		{Trigger: "compare,difference,versus,vs", Response: "I can help you compare our products. Which items would you like to compare?"},
		{Trigger: "return,refund", Response: "We have a hassle-free return policy. Returns are accepted within 30 days of purchase with a full refund."},
		{Trigger: "thank,thanks,bye,goodbye", Response: "Thank you for your interest! Feel free to reach out anytime. Have a great day!"},
	}
}

func faqResponses() []models.ChatbotResponse {
	return []models.ChatbotResponse{
		{Trigger: "hello,hi,hey,greetings", Response: "Hi there! I'm here to answer your questions. What would you like to know?"},
		{Trigger: "how,what,when,where,why", Response: "That's a great question! Let me help you find the answer. Could you be more specific about what you'd like to know?"},
		{Trigger: "start,begin,getting started,setup", Response: "Getting started is easy! First, create an account, then follow the setup wizard. Would you like step-by-step instructions?"},
		{Trigger: "feature,can,able,possible", Response: "We have many features available. Could you tell me which specific feature you are asking about?"},
		{Trigger: "problem,issue,not working,broken", Response: "I'm sorry to hear you're having trouble. Let's troubleshoot this together. What exactly is happening?"},
		{Trigger: "contact,reach,email,phone,human", Response: "You can reach our team at support@example.com or call us at 1-800-EXAMPLE. Would you like more contact options?"},
		{Trigger: "thank,thanks,bye,goodbye", Response: "You're welcome! Don't hesitate to ask if you have more questions. Goodbye!"},
	}
}

func genericResponses(botName string) []models.ChatbotResponse {
	return []models.ChatbotResponse{
		{Trigger: "hello,hi,hey,greetings,howdy", Response: fmt.Sprintf("Hello! I'm %s, your AI assistant. How can I help you today?", botName)},
		{Trigger: "help,assist,support,what can you do", Response: "I'm here to help! Just ask me anything and I'll do my best to assist you."},
		{Trigger: "how are you,how do you do,how r u", Response: "I'm doing great, thank you for asking! I'm ready to help you. What do you need?"},
		{Trigger: "name,who are you,what are you", Response: fmt.Sprintf("I'm %s, an AI assistant created to help you. How can I assist you today?", botName)},
		{Trigger: "thank,thanks,appreciate,great", Response: "You're very welcome! It's my pleasure to help. Is there anything else you need?"},
		{Trigger: "bye,goodbye,see you,later,cya", Response: "Goodbye! It was great chatting with you. Feel free to come back anytime!"},
		{Trigger: "yes,yeah,sure,okay,ok,yep", Response: "Great! Let's proceed. What would you like to do next?"},
		{Trigger: "no,nope,not really,nah", Response: "No problem at all! Is there something else I can help you with?"},
		{Trigger: "good,nice,awesome,excellent,perfect", Response: "I'm glad to hear that! Is there anything else I can help you with?"},
		{Trigger: "bad,terrible,awful,horrible,worst", Response: "I'm sorry to hear that. Let me see how I can make things better for you. What happened?"},
	}
}

// GenerateImage подбирает пару эмодзи-описание по ключевым словам сюжета.
func GenerateImage(prompt string) models.ImageData {
	lower := strings.ToLower(prompt)

	emoji := "🎨"
	description := "Abstract Art"
	if strings.Contains(lower, "landscape") || strings.Contains(lower, "nature") {
		emoji = "🏞️"
		description = "Beautiful Landscape"
	} else if strings.Contains(lower, "portrait") || strings.Contains(lower, "person") {
		emoji = "👤"
		description = "Portrait"
	} else if strings.Contains(lower, "abstract") {
		emoji = "🎨"
		description = "Abstract Composition"
	} else if strings.Contains(lower, "animal") {
		emoji = "🦁"
		description = "Animal Portrait"
	}

	return models.ImageData{
		Emoji:       emoji,
		Description: description,
		Caption:     fmt.Sprintf("Generated based on: %q", prompt),
	}
}
