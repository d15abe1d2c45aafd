package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"creation-server/internal/models"
)

// Compile-time check
var _ ProfileRepository = (*pgProfileRepository)(nil)

type pgProfileRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPgProfileRepository(db DBTX, logger *zap.Logger) ProfileRepository {
	return &pgProfileRepository{
		db:     db,
		logger: logger.Named("PgProfileRepo"),
	}
}

func (r *pgProfileRepository) Get(ctx context.Context, principal string) (*models.UserProfile, error) {
	query := `SELECT principal, name FROM user_profiles WHERE principal = $1`
	logFields := []zap.Field{zap.String("principal", principal)}

	var profile models.UserProfile
	err := pgxscan.Get(ctx, r.db, &profile, query, principal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Profile not found", logFields...)
			return nil, models.ErrProfileMissing
		}
		r.logger.Error("Failed to get profile", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения профиля: %w", err)
	}
	return &profile, nil
}

// Save создает или обновляет профиль.
func (r *pgProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	query := `
        INSERT INTO user_profiles (principal, name)
        VALUES ($1, $2)
        ON CONFLICT (principal) DO UPDATE SET name = EXCLUDED.name
    `
	logFields := []zap.Field{zap.String("principal", profile.Principal)}

	if _, err := r.db.Exec(ctx, query, profile.Principal, profile.Name); err != nil {
		r.logger.Error("Failed to save profile", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка сохранения профиля: %w", err)
	}
	r.logger.Info("Profile saved", logFields...)
	return nil
}
