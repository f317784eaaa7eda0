// Имплементация репозитория для получения статистики из базы данных postgresql
package repository

import (
	"context"
	"log/slog"

	"fantasy_cricket/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepositoryImpl struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStatsRepository(pool *pgxpool.Pool, logger *slog.Logger) *StatsRepositoryImpl {
	return &StatsRepositoryImpl{
		pool:   pool,
		logger: logger,
	}
}

func (r *StatsRepositoryImpl) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM fantasy_teams),
			(SELECT COUNT(*) FROM fantasy_teams WHERE status = $1),
			(SELECT COUNT(*) FROM players),
			(SELECT COUNT(*) FROM user_profiles)`,
		domain.TeamStatusFinalized,
	).Scan(&stats.TotalTeams, &stats.FinalizedTeams, &stats.TotalPlayers, &stats.TotalProfiles)
	if err != nil {
		r.logger.Error("failed to get stats", slog.String("error", err.Error()))
		return nil, dbErr("get stats", err)
	}

	return &stats, nil
}
