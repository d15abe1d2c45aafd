package models

import (
	"encoding/json"
	"time"
)

// CreationType определяет тип генерируемого артефакта.
type CreationType string

const (
	CreationTypeApp     CreationType = "app"
	CreationTypeWebsite CreationType = "website"
	CreationTypeChatbot CreationType = "chatbot"
	CreationTypeImage   CreationType = "image"
	CreationTypeGame    CreationType = "game"
)

// IsValid проверяет, что тип входит в список поддерживаемых.
func (t CreationType) IsValid() bool {
	switch t {
	case CreationTypeApp, CreationTypeWebsite, CreationTypeChatbot, CreationTypeImage, CreationTypeGame:
		return true
	}
	return false
}

// CreationDraft - структурированное содержимое одной creation.
// Сериализуется в одну непрозрачную JSON-строку для хранения в БД;
// бекенд интерпретирует только id/owner/is_shared, но не содержимое.
// Инвариант: форма Data полностью определяется полем Type, потребители
// обязаны ветвиться по Type перед разбором Data.
type CreationDraft struct {
	Type      CreationType    `json:"type"`
	Prompt    string          `json:"prompt"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"createdAt"` // unix-миллисекунды
}

// Item - запись в хранилище creations. Content непрозрачен для репозитория.
type Item struct {
	ID        string    `json:"id" db:"id"`
	Owner     string    `json:"owner" db:"owner"`
	Content   string    `json:"content" db:"content"`
	IsShared  bool      `json:"isShared" db:"is_shared"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// LastDownload - последняя выгрузка пользователя, кешируется на время сессии.
type LastDownload struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Content  string `json:"content"`
}

// Статусы асинхронной генерации, которые видит клиент.
const (
	GenerationStatusProcessing = "processing"
	GenerationStatusReady      = "ready"
	GenerationStatusError      = "error"
)

// ClientCreationUpdate - событие для клиента о ходе генерации.
// Доставляется через очередь client_updates и WebSocket.
type ClientCreationUpdate struct {
	Type       string `json:"type"` // всегда "creation_update"
	Topic      string `json:"topic"`
	TaskID     string `json:"taskId"`
	UserID     string `json:"userId"`
	CreationID string `json:"creationId"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

// UserProfile - профиль пользователя. Principal приходит из identity-провайдера
// и используется как непрозрачный ключ владения.
type UserProfile struct {
	Principal string `json:"principal" db:"principal"`
	Name      string `json:"name" db:"name"`
}
