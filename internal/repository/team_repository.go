// Имплементация репозитория для работы с командами в базе данных postgresql
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fantasy_cricket/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const txTimeout = 10 * time.Second

type TeamRepositoryImpl struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewTeamRepository(pool *pgxpool.Pool, logger *slog.Logger) *TeamRepositoryImpl {
	return &TeamRepositoryImpl{
		pool:   pool,
		logger: logger,
	}
}

func (r *TeamRepositoryImpl) Create(ctx context.Context, team *domain.FantasyTeam) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fantasy_teams (id, owner_id, name, balance, total_points, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		team.ID, team.OwnerID, team.Name, team.Balance, team.TotalPoints, team.Status, team.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create team",
			slog.String("team_id", team.ID.String()),
			slog.String("error", err.Error()),
		)
		return dbErr("create team", err)
	}

	r.logger.Info("team created",
		slog.String("team_id", team.ID.String()),
		slog.String("team_name", team.Name),
	)
	return nil
}

// GetByID retrieves a team with its roster
func (r *TeamRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.FantasyTeam, error) {
	team, err := scanTeam(r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, balance, total_points, status, created_at
		 FROM fantasy_teams WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		r.logger.Error("failed to get team",
			slog.String("team_id", id.String()),
			slog.String("error", err.Error()),
		)
		return nil, dbErr("get team", err)
	}

	team.PlayerIDs, err = r.loadRoster(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}

	return team, nil
}

// GetByOwner retrieves all teams belonging to an owner
func (r *TeamRepositoryImpl) GetByOwner(ctx context.Context, ownerID string) ([]domain.FantasyTeam, error) {
	return r.queryTeams(ctx,
		`SELECT id, owner_id, name, balance, total_points, status, created_at
		 FROM fantasy_teams WHERE owner_id = $1 ORDER BY name`, ownerID)
}

// List retrieves all teams sorted by name
func (r *TeamRepositoryImpl) List(ctx context.Context) ([]domain.FantasyTeam, error) {
	return r.queryTeams(ctx,
		`SELECT id, owner_id, name, balance, total_points, status, created_at
		 FROM fantasy_teams ORDER BY name`)
}

// AddPlayer appends a player to the roster and debits the balance in a single
// transaction. The team row is locked FOR UPDATE first, so two concurrent adds
// to the same team observe each other's effect; adds to different teams do not
// contend. Precondition order: team exists and caller owns it, team not
// finalized, player exists, no duplicate, roster below cap, balance covers the
// cost. A rejected call leaves the stored state untouched.
func (r *TeamRepositoryImpl) AddPlayer(ctx context.Context, teamID uuid.UUID, callerID string, playerID uuid.UUID) (*domain.FantasyTeam, error) {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.pool.Begin(txCtx)
	if err != nil {
		r.logger.Error("failed to begin transaction",
			slog.String("team_id", teamID.String()),
			slog.String("error", err.Error()),
		)
		return nil, dbErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	team, err := r.lockTeam(txCtx, tx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsOwnedBy(callerID) {
		return nil, domain.ErrUnauthorized
	}
	if team.IsFinalized() {
		return nil, domain.ErrTeamLocked
	}

	player, err := scanPlayer(tx.QueryRow(txCtx,
		`SELECT id, name, role, team, total_points, base_cost FROM players WHERE id = $1`, playerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, dbErr("get player", err)
	}

	if err := team.AddPlayer(player); err != nil {
		return nil, err
	}

	_, err = tx.Exec(txCtx,
		`INSERT INTO team_players (team_id, player_id, position) VALUES ($1, $2, $3)`,
		teamID, playerID, len(team.PlayerIDs)-1,
	)
	if err != nil {
		return nil, dbErr("insert roster entry", err)
	}

	_, err = tx.Exec(txCtx,
		`UPDATE fantasy_teams SET balance = $2, total_points = $3 WHERE id = $1`,
		teamID, team.Balance, team.TotalPoints,
	)
	if err != nil {
		return nil, dbErr("update team", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		r.logger.Error("failed to commit transaction",
			slog.String("team_id", teamID.String()),
			slog.String("error", err.Error()),
		)
		return nil, dbErr("commit transaction", err)
	}

	r.logger.Info("player added to team",
		slog.String("team_id", teamID.String()),
		slog.String("player_id", playerID.String()),
		slog.Int64("balance", team.Balance),
		slog.Int("roster_size", len(team.PlayerIDs)),
	)
	return team, nil
}

// Finalize validates the stored roster and flips the team to FINALIZED in a
// single transaction, with the team row locked FOR UPDATE. Validation failure
// changes nothing; a finalized team stays finalized forever. The roster is
// resolved against the catalog inside the same transaction, so a successful
// call always carries the full summary.
func (r *TeamRepositoryImpl) Finalize(ctx context.Context, teamID uuid.UUID, callerID string) (*domain.FantasyTeam, []domain.Player, error) {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.pool.Begin(txCtx)
	if err != nil {
		r.logger.Error("failed to begin transaction",
			slog.String("team_id", teamID.String()),
			slog.String("error", err.Error()),
		)
		return nil, nil, dbErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	team, err := r.lockTeam(txCtx, tx, teamID)
	if err != nil {
		return nil, nil, err
	}
	if !team.IsOwnedBy(callerID) {
		return nil, nil, domain.ErrUnauthorized
	}
	if team.IsFinalized() {
		return nil, nil, domain.ErrTeamLocked
	}
	if !team.IsComplete() {
		return nil, nil, fmt.Errorf("%w: have %d of %d players", domain.ErrIncompleteRoster, len(team.PlayerIDs), domain.SquadSize)
	}
	if err := team.ValidateForFinalize(); err != nil {
		return nil, nil, err
	}

	rows, err := tx.Query(txCtx,
		`SELECT id, name, role, team, total_points, base_cost FROM players WHERE id = ANY($1)`,
		team.PlayerIDs,
	)
	if err != nil {
		return nil, nil, dbErr("resolve roster", err)
	}
	roster, err := collectPlayers(rows)
	rows.Close()
	if err != nil {
		return nil, nil, dbErr("resolve roster", err)
	}

	team.Finalize()

	_, err = tx.Exec(txCtx,
		`UPDATE fantasy_teams SET status = $2 WHERE id = $1`,
		teamID, team.Status,
	)
	if err != nil {
		return nil, nil, dbErr("update team status", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		r.logger.Error("failed to commit transaction",
			slog.String("team_id", teamID.String()),
			slog.String("error", err.Error()),
		)
		return nil, nil, dbErr("commit transaction", err)
	}

	r.logger.Info("team finalized",
		slog.String("team_id", teamID.String()),
		slog.Int64("balance", team.Balance),
		slog.Int64("total_points", team.TotalPoints),
	)
	return team, roster, nil
}

// Count returns the total number of teams
func (r *TeamRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fantasy_teams`).Scan(&count); err != nil {
		r.logger.Error("failed to count teams", slog.String("error", err.Error()))
		return 0, dbErr("count teams", err)
	}
	return count, nil
}

// CountFinalized returns the number of finalized teams
func (r *TeamRepositoryImpl) CountFinalized(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM fantasy_teams WHERE status = $1`, domain.TeamStatusFinalized,
	).Scan(&count)
	if err != nil {
		r.logger.Error("failed to count finalized teams", slog.String("error", err.Error()))
		return 0, dbErr("count finalized teams", err)
	}
	return count, nil
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// lockTeam loads the team row under FOR UPDATE together with its roster
func (r *TeamRepositoryImpl) lockTeam(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.FantasyTeam, error) {
	team, err := scanTeam(tx.QueryRow(ctx,
		`SELECT id, owner_id, name, balance, total_points, status, created_at
		 FROM fantasy_teams WHERE id = $1 FOR UPDATE`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, dbErr("lock team", err)
	}

	team.PlayerIDs, err = r.loadRoster(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *TeamRepositoryImpl) loadRoster(ctx context.Context, q querier, teamID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx,
		`SELECT player_id FROM team_players WHERE team_id = $1 ORDER BY position`, teamID,
	)
	if err != nil {
		return nil, dbErr("load roster", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, domain.SquadSize)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, dbErr("scan roster entry", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("read roster", err)
	}
	return ids, nil
}

func (r *TeamRepositoryImpl) queryTeams(ctx context.Context, sql string, args ...any) ([]domain.FantasyTeam, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error("failed to query teams", slog.String("error", err.Error()))
		return nil, dbErr("query teams", err)
	}
	defer rows.Close()

	var teams []domain.FantasyTeam
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, dbErr("scan team", err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("read teams", err)
	}

	for i := range teams {
		teams[i].PlayerIDs, err = r.loadRoster(ctx, r.pool, teams[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func scanTeam(row pgx.Row) (*domain.FantasyTeam, error) {
	var team domain.FantasyTeam
	err := row.Scan(
		&team.ID, &team.OwnerID, &team.Name,
		&team.Balance, &team.TotalPoints, &team.Status, &team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}
