package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"creation-server/internal/export"
	"creation-server/internal/models"
	"creation-server/internal/service"
)

// Mock CreationService
type CreationService struct {
	mock.Mock
}

func (m *CreationService) EnqueueGeneration(ctx context.Context, userID string, req service.GenerateRequest) (*service.GenerationTask, error) {
	args := m.Called(ctx, userID, req)
	task, _ := args.Get(0).(*service.GenerationTask)
	return task, args.Error(1)
}

func (m *CreationService) Create(ctx context.Context, userID, content string) (*models.Item, error) {
	args := m.Called(ctx, userID, content)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *CreationService) Update(ctx context.Context, userID, id, content string) (*models.Item, error) {
	args := m.Called(ctx, userID, id, content)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *CreationService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *CreationService) Get(ctx context.Context, userID, id string) (*models.Item, error) {
	args := m.Called(ctx, userID, id)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *CreationService) GetShared(ctx context.Context, id string) (*models.Item, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *CreationService) List(ctx context.Context, userID string) ([]models.Item, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.Item)
	return items, args.Error(1)
}

func (m *CreationService) Share(ctx context.Context, userID, id string) (string, error) {
	args := m.Called(ctx, userID, id)
	return args.String(0), args.Error(1)
}

func (m *CreationService) Unshare(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *CreationService) Download(ctx context.Context, userID, id string, format export.Format) (*models.LastDownload, error) {
	args := m.Called(ctx, userID, id, format)
	download, _ := args.Get(0).(*models.LastDownload)
	return download, args.Error(1)
}

func (m *CreationService) LastDownload(ctx context.Context, userID string) (*models.LastDownload, error) {
	args := m.Called(ctx, userID)
	download, _ := args.Get(0).(*models.LastDownload)
	return download, args.Error(1)
}

func (m *CreationService) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}

func (m *CreationService) SaveProfile(ctx context.Context, userID, name string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, name)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}
