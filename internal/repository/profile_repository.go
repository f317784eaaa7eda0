// Имплементация репозитория для работы с профилями и ролями пользователей
package repository

import (
	"context"
	"errors"
	"log/slog"

	"fantasy_cricket/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepositoryImpl struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewProfileRepository(pool *pgxpool.Pool, logger *slog.Logger) *ProfileRepositoryImpl {
	return &ProfileRepositoryImpl{
		pool:   pool,
		logger: logger,
	}
}

// Upsert creates or updates a user profile
func (r *ProfileRepositoryImpl) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, name, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()`,
		profile.UserID, profile.Name,
	)
	if err != nil {
		r.logger.Error("failed to upsert profile",
			slog.String("user_id", profile.UserID),
			slog.String("error", err.Error()),
		)
		return dbErr("upsert profile", err)
	}

	r.logger.Info("profile saved", slog.String("user_id", profile.UserID))
	return nil
}

// GetByUserID retrieves a profile by user id
func (r *ProfileRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, name FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&profile.UserID, &profile.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		r.logger.Error("failed to get profile",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, dbErr("get profile", err)
	}
	return &profile, nil
}

// SetRole assigns a role to a user
func (r *ProfileRepositoryImpl) SetRole(ctx context.Context, userID string, role domain.UserRole) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
		userID, role,
	)
	if err != nil {
		r.logger.Error("failed to set role",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return dbErr("set role", err)
	}

	r.logger.Info("role assigned",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)
	return nil
}

// GetRole returns the user's role, defaulting to "user" when unassigned
func (r *ProfileRepositoryImpl) GetRole(ctx context.Context, userID string) (domain.UserRole, error) {
	var role domain.UserRole
	err := r.pool.QueryRow(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`, userID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserRoleUser, nil
		}
		r.logger.Error("failed to get role",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return "", dbErr("get role", err)
	}
	return role, nil
}

// Count returns the total number of profiles
func (r *ProfileRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&count); err != nil {
		r.logger.Error("failed to count profiles", slog.String("error", err.Error()))
		return 0, dbErr("count profiles", err)
	}
	return count, nil
}
