package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"creation-server/internal/messaging"
	messagingMocks "creation-server/internal/messaging/mocks"
	"creation-server/internal/models"
	repoMocks "creation-server/internal/repository/mocks"
)

func newTestWorker(repo *repoMocks.CreationRepository, pub *messagingMocks.ClientUpdatePublisher) *GenerationWorker {
	w := NewGenerationWorker(repo, pub, zap.NewNop())
	w.SetLatency(0)
	return w
}

func TestGenerationWorker_Process(t *testing.T) {
	payload := messaging.GenerationTaskPayload{
		TaskID:     "task-1",
		UserID:     "user-1",
		CreationID: "creation-1",
		Type:       models.CreationTypeApp,
		Prompt:     "calculator app",
	}

	t.Run("успешная генерация сохраняет драфт и шлет ready", func(t *testing.T) {
		repo := new(repoMocks.CreationRepository)
		pub := new(messagingMocks.ClientUpdatePublisher)
		w := newTestWorker(repo, pub)

		var savedContent string
		repo.On("Create", mock.Anything, mock.MatchedBy(func(item *models.Item) bool {
			savedContent = item.Content
			return item.ID == "creation-1" && item.Owner == "user-1"
		})).Return(nil).Once()
		pub.On("PublishClientUpdate", mock.Anything, mock.MatchedBy(func(u models.ClientCreationUpdate) bool {
			return u.Status == models.GenerationStatusReady && u.CreationID == "creation-1"
		})).Return(nil).Once()

		err := w.Process(context.Background(), payload)
		require.NoError(t, err)

		var draft models.CreationDraft
		require.NoError(t, json.Unmarshal([]byte(savedContent), &draft))
		assert.Equal(t, models.CreationTypeApp, draft.Type)
		assert.Equal(t, "calculator app", draft.Prompt)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("повторная генерация обновляет существующую запись", func(t *testing.T) {
		repo := new(repoMocks.CreationRepository)
		pub := new(messagingMocks.ClientUpdatePublisher)
		w := newTestWorker(repo, pub)

		repo.On("Create", mock.Anything, mock.Anything).Return(models.ErrAlreadyExists).Once()
		repo.On("Update", mock.Anything, "creation-1", "user-1", mock.Anything).
			Return(&models.Item{ID: "creation-1"}, nil).Once()
		pub.On("PublishClientUpdate", mock.Anything, mock.MatchedBy(func(u models.ClientCreationUpdate) bool {
			return u.Status == models.GenerationStatusReady
		})).Return(nil).Once()

		err := w.Process(context.Background(), payload)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("неизвестный тип дает событие error без сохранения", func(t *testing.T) {
		repo := new(repoMocks.CreationRepository)
		pub := new(messagingMocks.ClientUpdatePublisher)
		w := newTestWorker(repo, pub)

		bad := payload
		bad.Type = "hologram"
		pub.On("PublishClientUpdate", mock.Anything, mock.MatchedBy(func(u models.ClientCreationUpdate) bool {
			return u.Status == models.GenerationStatusError && u.Message != ""
		})).Return(nil).Once()

		err := w.Process(context.Background(), bad)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		pub.AssertExpectations(t)
	})

	t.Run("ошибка сохранения возвращается наверх", func(t *testing.T) {
		repo := new(repoMocks.CreationRepository)
		pub := new(messagingMocks.ClientUpdatePublisher)
		w := newTestWorker(repo, pub)

		repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()
		pub.On("PublishClientUpdate", mock.Anything, mock.MatchedBy(func(u models.ClientCreationUpdate) bool {
			return u.Status == models.GenerationStatusError
		})).Return(nil).Once()

		err := w.Process(context.Background(), payload)
		assert.Error(t, err)
	})

	t.Run("отмененный контекст прерывает обработку", func(t *testing.T) {
		repo := new(repoMocks.CreationRepository)
		pub := new(messagingMocks.ClientUpdatePublisher)
		w := NewGenerationWorker(repo, pub, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := w.Process(ctx, payload)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
