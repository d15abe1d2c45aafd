// Package worker выполняет задачи генерации из очереди.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"creation-server/internal/generation"
	"creation-server/internal/messaging"
	"creation-server/internal/models"
	"creation-server/internal/repository"
)

// defaultLatency имитирует длительность "умной" генерации. Сам синтез
// детерминирован и мгновенен, задержка нужна для честного асинхронного UX.
const defaultLatency = time.Second

// GenerationWorker обрабатывает задачи генерации: строит драфт по промпту,
// сохраняет его и уведомляет клиента.
type GenerationWorker struct {
	repo      repository.CreationRepository
	clientPub messaging.ClientUpdatePublisher
	logger    *zap.Logger
	latency   time.Duration
}

var _ messaging.TaskProcessor = (*GenerationWorker)(nil)

// NewGenerationWorker создает воркер генерации.
func NewGenerationWorker(
	repo repository.CreationRepository,
	clientPub messaging.ClientUpdatePublisher,
	logger *zap.Logger,
) *GenerationWorker {
	return &GenerationWorker{
		repo:      repo,
		clientPub: clientPub,
		logger:    logger.Named("GenerationWorker"),
		latency:   defaultLatency,
	}
}

// SetLatency переопределяет имитируемую задержку. Используется в тестах.
func (w *GenerationWorker) SetLatency(d time.Duration) {
	w.latency = d
}

// Process выполняет одну задачу генерации. Ошибки генерации не возвращаются
// наверх: клиент получает событие со статусом error, повтор не нужен.
func (w *GenerationWorker) Process(ctx context.Context, payload messaging.GenerationTaskPayload) error {
	logger := w.logger.With(
		zap.String("taskId", payload.TaskID),
		zap.String("creationId", payload.CreationID),
	)
	logger.Info("Начало генерации", zap.String("type", string(payload.Type)))

	if err := w.simulateLatency(ctx); err != nil {
		return err
	}

	draft, err := w.buildDraft(payload)
	if err != nil {
		logger.Warn("Генерация не удалась", zap.Error(err))
		w.publishUpdate(ctx, payload, models.GenerationStatusError, err.Error())
		return nil
	}

	content, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("ошибка сериализации драфта: %w", err)
	}

	if err := w.saveItem(ctx, payload, string(content)); err != nil {
		logger.Error("Ошибка сохранения результата генерации", zap.Error(err))
		w.publishUpdate(ctx, payload, models.GenerationStatusError, "failed to save creation")
		return fmt.Errorf("ошибка сохранения creation %s: %w", payload.CreationID, err)
	}

	w.publishUpdate(ctx, payload, models.GenerationStatusReady, "")
	logger.Info("Генерация завершена")
	return nil
}

func (w *GenerationWorker) buildDraft(payload messaging.GenerationTaskPayload) (models.CreationDraft, error) {
	if !payload.Type.IsValid() {
		return models.CreationDraft{}, fmt.Errorf("%w: %q", models.ErrUnknownType, payload.Type)
	}
	opts := &generation.Options{
		GameKindOverride: models.GameKind(payload.GameKindOverride),
	}
	return generation.BuildDraft(payload.Prompt, payload.Type, opts)
}

// saveItem создает запись, а при повторной генерации в существующую creation
// обновляет ее содержимое.
func (w *GenerationWorker) saveItem(ctx context.Context, payload messaging.GenerationTaskPayload, content string) error {
	item := &models.Item{
		ID:      payload.CreationID,
		Owner:   payload.UserID,
		Content: content,
	}
	err := w.repo.Create(ctx, item)
	if errors.Is(err, models.ErrAlreadyExists) {
		_, err = w.repo.Update(ctx, payload.CreationID, payload.UserID, content)
	}
	return err
}

func (w *GenerationWorker) publishUpdate(ctx context.Context, payload messaging.GenerationTaskPayload, status, message string) {
	update := models.ClientCreationUpdate{
		Type:       messaging.ClientUpdateType,
		Topic:      messaging.GenerationTopic,
		TaskID:     payload.TaskID,
		UserID:     payload.UserID,
		CreationID: payload.CreationID,
		Status:     status,
		Message:    message,
	}
	if err := w.clientPub.PublishClientUpdate(ctx, update); err != nil {
		w.logger.Error("Ошибка публикации события для клиента",
			zap.String("taskId", payload.TaskID),
			zap.Error(err),
		)
	}
}

func (w *GenerationWorker) simulateLatency(ctx context.Context) error {
	if w.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(w.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
