// Package service содержит бизнес-логику работы с creations: CRUD, шаринг,
// выгрузки и постановку задач генерации.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"creation-server/internal/export"
	"creation-server/internal/messaging"
	"creation-server/internal/models"
	"creation-server/internal/repository"
)

// GenerateRequest - запрос на асинхронную генерацию creation.
type GenerateRequest struct {
	Prompt           string              `json:"prompt"`
	Type             models.CreationType `json:"type"`
	GameKindOverride string              `json:"gameKindOverride,omitempty"`
	// CreationID задается при повторной генерации в существующую запись.
	CreationID string `json:"creationId,omitempty"`
}

// GenerationTask - принятая в работу задача генерации.
type GenerationTask struct {
	TaskID     string `json:"taskId"`
	CreationID string `json:"creationId"`
	Status     string `json:"status"`
}

// ErrEmptyPrompt возвращается на запрос генерации без промпта.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// CreationService - операции над creations для HTTP-слоя.
type CreationService interface {
	EnqueueGeneration(ctx context.Context, userID string, req GenerateRequest) (*GenerationTask, error)
	Create(ctx context.Context, userID, content string) (*models.Item, error)
	Update(ctx context.Context, userID, id, content string) (*models.Item, error)
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (*models.Item, error)
	GetShared(ctx context.Context, id string) (*models.Item, error)
	List(ctx context.Context, userID string) ([]models.Item, error)
	Share(ctx context.Context, userID, id string) (string, error)
	Unshare(ctx context.Context, userID, id string) error
	Download(ctx context.Context, userID, id string, format export.Format) (*models.LastDownload, error)
	LastDownload(ctx context.Context, userID string) (*models.LastDownload, error)
	Profile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID, name string) (*models.UserProfile, error)
}

type creationService struct {
	repo        repository.CreationRepository
	profiles    repository.ProfileRepository
	downloads   repository.DownloadCache
	taskPub     messaging.TaskPublisher
	shareOrigin string
	hashRouting bool
	logger      *zap.Logger
}

var _ CreationService = (*creationService)(nil)

// NewCreationService создает сервис creations. shareOrigin - базовый URL
// фронтенда, hashRouting переключает формат share-ссылок на /#/shared/<id>.
func NewCreationService(
	repo repository.CreationRepository,
	profiles repository.ProfileRepository,
	downloads repository.DownloadCache,
	taskPub messaging.TaskPublisher,
	shareOrigin string,
	hashRouting bool,
	logger *zap.Logger,
) CreationService {
	return &creationService{
		repo:        repo,
		profiles:    profiles,
		downloads:   downloads,
		taskPub:     taskPub,
		shareOrigin: shareOrigin,
		hashRouting: hashRouting,
		logger:      logger.Named("CreationService"),
	}
}

// EnqueueGeneration валидирует запрос и ставит задачу генерации в очередь.
func (s *creationService) EnqueueGeneration(ctx context.Context, userID string, req GenerateRequest) (*GenerationTask, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownType, req.Type)
	}

	creationID := req.CreationID
	if creationID == "" {
		creationID = uuid.NewString()
	}
	task := &GenerationTask{
		TaskID:     uuid.NewString(),
		CreationID: creationID,
		Status:     models.GenerationStatusProcessing,
	}

	payload := messaging.GenerationTaskPayload{
		TaskID:           task.TaskID,
		UserID:           userID,
		CreationID:       creationID,
		Type:             req.Type,
		Prompt:           req.Prompt,
		GameKindOverride: req.GameKindOverride,
	}
	if err := s.taskPub.PublishGenerationTask(ctx, payload); err != nil {
		s.logger.Error("Ошибка постановки задачи генерации", zap.String("taskId", task.TaskID), zap.Error(err))
		return nil, fmt.Errorf("ошибка постановки задачи генерации: %w", err)
	}

	s.logger.Info("Задача генерации поставлена в очередь",
		zap.String("taskId", task.TaskID),
		zap.String("creationId", creationID),
		zap.String("type", string(req.Type)),
	)
	return task, nil
}

// Create сохраняет новую creation. Content - сериализованный CreationDraft,
// сервис его не интерпретирует, но пустой контент отклоняет.
func (s *creationService) Create(ctx context.Context, userID, content string) (*models.Item, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.ErrEmptyContent
	}

	item := &models.Item{
		ID:      uuid.NewString(),
		Owner:   userID,
		Content: content,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("ошибка создания creation: %w", err)
	}
	return item, nil
}

func (s *creationService) Update(ctx context.Context, userID, id, content string) (*models.Item, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.ErrEmptyContent
	}
	item, err := s.repo.Update(ctx, id, userID, content)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления creation %s: %w", id, err)
	}
	return item, nil
}

func (s *creationService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return models.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("ошибка удаления creation %s: %w", id, err)
	}
	return nil
}

// Get возвращает creation владельца. Анонимный вызов - nil без ошибки,
// чтобы фронтенд мог спокойно отрисовать состояние "не залогинен".
func (s *creationService) Get(ctx context.Context, userID, id string) (*models.Item, error) {
	if userID == "" {
		return nil, nil
	}
	item, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения creation %s: %w", id, err)
	}
	return item, nil
}

func (s *creationService) GetShared(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.repo.GetShared(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения shared creation %s: %w", id, err)
	}
	return item, nil
}

// List возвращает creations владельца, для анонима - пустой список.
func (s *creationService) List(ctx context.Context, userID string) ([]models.Item, error) {
	if userID == "" {
		return nil, nil
	}
	items, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка creations: %w", err)
	}
	return items, nil
}

// Share включает шаринг и возвращает канонический URL. Повторный вызов
// без Unshare возвращает тот же URL.
func (s *creationService) Share(ctx context.Context, userID, id string) (string, error) {
	if userID == "" {
		return "", models.ErrUnauthorized
	}
	if _, err := s.repo.SetShared(ctx, id, userID, true); err != nil {
		return "", fmt.Errorf("ошибка включения шаринга creation %s: %w", id, err)
	}
	return export.ShareURL(s.shareOrigin, id, s.hashRouting), nil
}

func (s *creationService) Unshare(ctx context.Context, userID, id string) error {
	if userID == "" {
		return models.ErrUnauthorized
	}
	if _, err := s.repo.SetShared(ctx, id, userID, false); err != nil {
		return fmt.Errorf("ошибка выключения шаринга creation %s: %w", id, err)
	}
	return nil
}

// Download собирает артефакт выгрузки в нужном формате и кеширует его как
// последнюю выгрузку пользователя. Битый контент creation поднимается как
// ErrCorruptedData, а не как сырой JSON-сбой.
func (s *creationService) Download(ctx context.Context, userID, id string, format export.Format) (*models.LastDownload, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("неизвестный формат выгрузки: %q", format)
	}

	item, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения creation %s: %w", id, err)
	}

	var draft models.CreationDraft
	if err := json.Unmarshal([]byte(item.Content), &draft); err != nil {
		s.logger.Warn("Контент creation не разбирается", zap.String("creationId", id), zap.Error(err))
		return nil, models.ErrCorruptedData
	}

	var content string
	switch format {
	case export.FormatHTML:
		content, err = export.ExportHTML(draft)
	case export.FormatJSON:
		content, err = export.ExportJSON(draft)
	case export.FormatAndroid:
		content, err = export.ExportAndroid(draft)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка экспорта creation %s в %s: %w", id, format, err)
	}

	download := &models.LastDownload{
		Filename: export.Filename(draft, format),
		Format:   string(format),
		Content:  content,
	}

	// Кеш последней выгрузки вспомогательный, его ошибки не валят выгрузку.
	if err := s.downloads.SaveLast(ctx, userID, *download); err != nil {
		s.logger.Warn("Ошибка кеширования последней выгрузки", zap.String("userId", userID), zap.Error(err))
	}
	return download, nil
}

// LastDownload возвращает последнюю выгрузку пользователя. Для анонима и
// при пустом кеше результат nil без ошибки: отсутствие выгрузки - не сбой.
func (s *creationService) LastDownload(ctx context.Context, userID string) (*models.LastDownload, error) {
	if userID == "" {
		return nil, nil
	}
	download, err := s.downloads.GetLast(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения последней выгрузки: %w", err)
	}
	return download, nil
}

// Profile возвращает профиль пользователя, для анонима - nil.
func (s *creationService) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, nil
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrProfileMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка получения профиля: %w", err)
	}
	return profile, nil
}

func (s *creationService) SaveProfile(ctx context.Context, userID, name string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	profile := &models.UserProfile{
		Principal: userID,
		Name:      strings.TrimSpace(name),
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("ошибка сохранения профиля: %w", err)
	}
	return profile, nil
}
