package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"creation-server/internal/models"
)

// Compile-time check
var _ CreationRepository = (*pgCreationRepository)(nil)

const creationFields = `id, owner, content, is_shared, created_at, updated_at`

type pgCreationRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPgCreationRepository(db DBTX, logger *zap.Logger) CreationRepository {
	return &pgCreationRepository{
		db:     db,
		logger: logger.Named("PgCreationRepo"),
	}
}

func (r *pgCreationRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
        INSERT INTO creations (id, owner, content, is_shared, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING created_at, updated_at
    `
	logFields := []zap.Field{zap.String("creationID", item.ID), zap.String("owner", item.Owner)}
	r.logger.Debug("Creating creation", logFields...)

	err := r.db.QueryRow(ctx, query, item.ID, item.Owner, item.Content, item.IsShared).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			r.logger.Warn("Creation already exists", logFields...)
			return models.ErrAlreadyExists
		}
		r.logger.Error("Failed to create creation", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания creation: %w", err)
	}
	r.logger.Info("Creation created", logFields...)
	return nil
}

func (r *pgCreationRepository) Update(ctx context.Context, id, owner, content string) (*models.Item, error) {
	query := fmt.Sprintf(`
        UPDATE creations SET content = $1, updated_at = NOW()
        WHERE id = $2 AND owner = $3
        RETURNING %s
    `, creationFields)
	logFields := []zap.Field{zap.String("creationID", id), zap.String("owner", owner)}
	r.logger.Debug("Updating creation", logFields...)

	var item models.Item
	err := pgxscan.Get(ctx, r.db, &item, query, content, id, owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Creation not found for update", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to update creation", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка обновления creation %s: %w", id, err)
	}
	r.logger.Info("Creation updated", logFields...)
	return &item, nil
}

func (r *pgCreationRepository) Delete(ctx context.Context, id, owner string) error {
	query := `DELETE FROM creations WHERE id = $1 AND owner = $2`
	logFields := []zap.Field{zap.String("creationID", id), zap.String("owner", owner)}

	commandTag, err := r.db.Exec(ctx, query, id, owner)
	if err != nil {
		r.logger.Error("Failed to delete creation", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка удаления creation %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Creation not found for delete", logFields...)
		return models.ErrNotFound
	}
	r.logger.Info("Creation deleted", logFields...)
	return nil
}

func (r *pgCreationRepository) GetByID(ctx context.Context, id, owner string) (*models.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM creations WHERE id = $1 AND owner = $2`, creationFields)
	logFields := []zap.Field{zap.String("creationID", id), zap.String("owner", owner)}

	var item models.Item
	err := pgxscan.Get(ctx, r.db, &item, query, id, owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Creation not found by ID for owner", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get creation by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения creation %s: %w", id, err)
	}
	return &item, nil
}

// GetShared возвращает запись без проверки владельца, но только если она
// опубликована.
func (r *pgCreationRepository) GetShared(ctx context.Context, id string) (*models.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM creations WHERE id = $1 AND is_shared = TRUE`, creationFields)
	logFields := []zap.Field{zap.String("creationID", id)}

	var item models.Item
	err := pgxscan.Get(ctx, r.db, &item, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Shared creation not found", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get shared creation", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения shared creation %s: %w", id, err)
	}
	return &item, nil
}

func (r *pgCreationRepository) ListByOwner(ctx context.Context, owner string) ([]models.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM creations WHERE owner = $1 ORDER BY created_at DESC`, creationFields)
	logFields := []zap.Field{zap.String("owner", owner)}
	r.logger.Debug("Listing creations", logFields...)

	items := make([]models.Item, 0)
	if err := pgxscan.Select(ctx, r.db, &items, query, owner); err != nil {
		r.logger.Error("Failed to list creations", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка списка creations: %w", err)
	}
	return items, nil
}

// SetShared выставляет флаг публикации. Повторная установка того же
// значения не ошибка.
func (r *pgCreationRepository) SetShared(ctx context.Context, id, owner string, shared bool) (*models.Item, error) {
	query := fmt.Sprintf(`
        UPDATE creations SET is_shared = $1, updated_at = NOW()
        WHERE id = $2 AND owner = $3
        RETURNING %s
    `, creationFields)
	logFields := []zap.Field{zap.String("creationID", id), zap.String("owner", owner), zap.Bool("shared", shared)}

	var item models.Item
	err := pgxscan.Get(ctx, r.db, &item, query, shared, id, owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Creation not found for share toggle", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to toggle share flag", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка изменения share флага creation %s: %w", id, err)
	}
	r.logger.Info("Share flag updated", logFields...)
	return &item, nil
}
