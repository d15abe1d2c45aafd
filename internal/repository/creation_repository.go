// Package repository содержит доступ к хранилищам: Postgres для creations
// и профилей, Redis для кеша последней выгрузки. Репозитории не
// интерпретируют содержимое creation - это непрозрачная строка.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"creation-server/internal/models"
)

// DBTX абстрагирует pgxpool.Pool и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreationRepository - операции над записями creations. Все операции,
// кроме GetShared, ограничены владельцем.
type CreationRepository interface {
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, id, owner, content string) (*models.Item, error)
	Delete(ctx context.Context, id, owner string) error
	GetByID(ctx context.Context, id, owner string) (*models.Item, error)
	GetShared(ctx context.Context, id string) (*models.Item, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Item, error)
	SetShared(ctx context.Context, id, owner string, shared bool) (*models.Item, error)
}

// ProfileRepository - хранение профилей пользователей.
type ProfileRepository interface {
	Get(ctx context.Context, principal string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
}

// DownloadCache запоминает последнюю выгрузку пользователя.
type DownloadCache interface {
	SaveLast(ctx context.Context, owner string, download models.LastDownload) error
	GetLast(ctx context.Context, owner string) (*models.LastDownload, error)
}
