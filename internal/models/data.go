package models

// AppKind - разновидность сгенерированного приложения.
type AppKind string

const (
	AppKindCalculator AppKind = "calculator"
	AppKindTaskList   AppKind = "task-list"
)

// CalculatorMode - режим калькулятора.
type CalculatorMode string

const (
	CalculatorModeBasic      CalculatorMode = "basic"
	CalculatorModeScientific CalculatorMode = "scientific"
)

// AppTask - одна задача в шаблоне task-list приложения.
type AppTask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category,omitempty"`
}

// AppData - данные creation типа app.
type AppData struct {
	AppKind AppKind        `json:"appKind"`
	Mode    CalculatorMode `json:"mode,omitempty"`
	Title   string         `json:"title"`
	Tasks   []AppTask      `json:"tasks,omitempty"`
	Actions []string       `json:"actions,omitempty"`
}

// WebsitePage - одна страница сгенерированного сайта.
type WebsitePage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

// WebsiteData - данные creation типа website.
type WebsiteData struct {
	Pages []WebsitePage `json:"pages"`
}

// ChatbotResponse - пара триггер-ответ. Trigger - список ключевых слов
// через запятую, матчится подстрочно по фрагментам.
type ChatbotResponse struct {
	Trigger  string `json:"trigger"`
	Response string `json:"response"`
}

// ChatbotData - данные creation типа chatbot.
// Инвариант генератора: Responses всегда непустой.
type ChatbotData struct {
	BotName   string            `json:"botName"`
	Greeting  string            `json:"greeting"`
	Responses []ChatbotResponse `json:"responses"`
	Fallback  string            `json:"fallback"`
}

// ImageData - данные creation типа image.
type ImageData struct {
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Caption     string `json:"caption"`
}
