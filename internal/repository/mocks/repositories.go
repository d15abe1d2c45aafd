package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"creation-server/internal/models"
)

// Mock CreationRepository
type CreationRepository struct {
	mock.Mock
}

func (m *CreationRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *CreationRepository) Update(ctx context.Context, id, owner, content string) (*models.Item, error) {
	args := m.Called(ctx, id, owner, content)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}
func (m *CreationRepository) Delete(ctx context.Context, id, owner string) error {
	args := m.Called(ctx, id, owner)
	return args.Error(0)
}
func (m *CreationRepository) GetByID(ctx context.Context, id, owner string) (*models.Item, error) {
	args := m.Called(ctx, id, owner)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}
func (m *CreationRepository) GetShared(ctx context.Context, id string) (*models.Item, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}
func (m *CreationRepository) ListByOwner(ctx context.Context, owner string) ([]models.Item, error) {
	args := m.Called(ctx, owner)
	items, _ := args.Get(0).([]models.Item)
	return items, args.Error(1)
}
func (m *CreationRepository) SetShared(ctx context.Context, id, owner string, shared bool) (*models.Item, error) {
	args := m.Called(ctx, id, owner, shared)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

// Mock ProfileRepository
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Get(ctx context.Context, principal string) (*models.UserProfile, error) {
	args := m.Called(ctx, principal)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}
func (m *ProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// Mock DownloadCache
type DownloadCache struct {
	mock.Mock
}

func (m *DownloadCache) SaveLast(ctx context.Context, owner string, download models.LastDownload) error {
	args := m.Called(ctx, owner, download)
	return args.Error(0)
}
func (m *DownloadCache) GetLast(ctx context.Context, owner string) (*models.LastDownload, error) {
	args := m.Called(ctx, owner)
	download, _ := args.Get(0).(*models.LastDownload)
	return download, args.Error(1)
}
