// Package messaging содержит публикацию и потребление задач генерации
// через RabbitMQ.
package messaging

import "creation-server/internal/models"

// Имена очередей. Паблишер и консьюмер обязаны объявлять их с одинаковыми
// параметрами.
const (
	GenerationTaskQueue = "creation_generation_tasks"
	ClientUpdateQueue   = "client_updates"
)

// Тип и топик клиентских событий генерации.
const (
	ClientUpdateType  = "creation_update"
	GenerationTopic   = "generation"
	publisherAppID    = "creation-server"
	publishMaxRetries = 3
)

// GenerationTaskPayload - задача генерации, попадающая в очередь после
// POST /generate. GameKindOverride позволяет принудительно выбрать
// разновидность игры вместо классификатора.
type GenerationTaskPayload struct {
	TaskID           string              `json:"taskId"`
	UserID           string              `json:"userId"`
	CreationID       string              `json:"creationId"`
	Type             models.CreationType `json:"type,omitempty"`
	Prompt           string              `json:"prompt"`
	GameKindOverride string              `json:"gameKindOverride,omitempty"`
}
