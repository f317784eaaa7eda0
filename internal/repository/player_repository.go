// Имплементация репозитория для работы с каталогом игроков в базе данных postgresql
package repository

import (
	"context"
	"errors"
	"log/slog"

	"fantasy_cricket/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerRepositoryImpl struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPlayerRepository(pool *pgxpool.Pool, logger *slog.Logger) *PlayerRepositoryImpl {
	return &PlayerRepositoryImpl{
		pool:   pool,
		logger: logger,
	}
}

func (r *PlayerRepositoryImpl) Create(ctx context.Context, player *domain.Player) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO players (id, name, role, team, total_points, base_cost)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		player.ID, player.Name, player.Role, player.Team, player.TotalPoints, player.BaseCost,
	)
	if err != nil {
		r.logger.Error("failed to create player",
			slog.String("player_id", player.ID.String()),
			slog.String("error", err.Error()),
		)
		return dbErr("create player", err)
	}

	r.logger.Info("player created",
		slog.String("player_id", player.ID.String()),
		slog.String("name", player.Name),
	)
	return nil
}

// GetByID retrieves a player by id
func (r *PlayerRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	player, err := scanPlayer(r.pool.QueryRow(ctx,
		`SELECT id, name, role, team, total_points, base_cost FROM players WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		r.logger.Error("failed to get player",
			slog.String("player_id", id.String()),
			slog.String("error", err.Error()),
		)
		return nil, dbErr("get player", err)
	}
	return player, nil
}

// GetByIDs retrieves players for a set of ids
func (r *PlayerRepositoryImpl) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role, team, total_points, base_cost FROM players WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		r.logger.Error("failed to get players", slog.String("error", err.Error()))
		return nil, dbErr("get players", err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

// List retrieves all catalog players sorted by name
func (r *PlayerRepositoryImpl) List(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role, team, total_points, base_cost FROM players ORDER BY name`,
	)
	if err != nil {
		r.logger.Error("failed to list players", slog.String("error", err.Error()))
		return nil, dbErr("list players", err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

// Count returns the total number of players
func (r *PlayerRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		r.logger.Error("failed to count players", slog.String("error", err.Error()))
		return 0, dbErr("count players", err)
	}
	return count, nil
}

func collectPlayers(rows pgx.Rows) ([]domain.Player, error) {
	var players []domain.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, dbErr("scan player", err)
		}
		players = append(players, *player)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("read players", err)
	}
	return players, nil
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var player domain.Player
	err := row.Scan(
		&player.ID, &player.Name, &player.Role,
		&player.Team, &player.TotalPoints, &player.BaseCost,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}
