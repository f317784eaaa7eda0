package service

import (
	"context"
	"fmt"
	"log/slog"

	"fantasy_cricket/internal/domain"
	"fantasy_cricket/internal/repository"

	"github.com/google/uuid"
)

type TeamService struct {
	teamRepo   repository.TeamRepository
	playerRepo repository.PlayerRepository
	budget     int64
	logger     *slog.Logger
}

func NewTeamService(
	teamRepo repository.TeamRepository,
	playerRepo repository.PlayerRepository,
	budget int64,
	logger *slog.Logger,
) *TeamService {
	if budget <= 0 {
		budget = domain.InitialBudget
	}
	return &TeamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		budget:     budget,
		logger:     logger,
	}
}

// CreateTeam creates an empty team for the caller with the full budget
func (s *TeamService) CreateTeam(ctx context.Context, ownerID, name string) (*domain.FantasyTeam, error) {
	team, err := domain.NewFantasyTeam(ownerID, name, s.budget)
	if err != nil {
		return nil, err
	}

	s.logger.Info("creating team",
		slog.String("team_id", team.ID.String()),
		slog.String("owner_id", ownerID),
		slog.String("team_name", team.Name),
	)

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// AddPlayer adds a catalog player to the caller's team. All precondition
// checks and the roster/balance update happen inside one repository
// transaction, so a rejected call never leaves a partial update behind.
func (s *TeamService) AddPlayer(ctx context.Context, teamID, playerID uuid.UUID, callerID string) (*domain.FantasyTeam, error) {
	if callerID == "" {
		return nil, domain.ErrMissingIdentity
	}

	team, err := s.teamRepo.AddPlayer(ctx, teamID, callerID, playerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player added",
		slog.String("team_id", teamID.String()),
		slog.String("player_id", playerID.String()),
		slog.Int("roster_size", len(team.PlayerIDs)),
		slog.Int64("balance", team.Balance),
	)
	return team, nil
}

// Finalize runs the validation gate and locks the team. The roster summary is
// resolved inside the repository transaction, so a successful response is
// atomic with the status flip.
func (s *TeamService) Finalize(ctx context.Context, teamID uuid.UUID, callerID string) (*domain.FantasyTeam, []domain.Player, error) {
	if callerID == "" {
		return nil, nil, domain.ErrMissingIdentity
	}

	team, roster, err := s.teamRepo.Finalize(ctx, teamID, callerID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("team finalized",
		slog.String("team_id", teamID.String()),
		slog.Int64("total_points", team.TotalPoints),
		slog.Int64("balance", team.Balance),
	)
	return team, roster, nil
}

// GetTeam retrieves a single team. Total points are recomputed from the
// catalog on every read so the stored copy can never drift.
func (s *TeamService) GetTeam(ctx context.Context, teamID uuid.UUID) (*domain.FantasyTeam, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.recomputePoints(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeamsByOwner retrieves all teams belonging to an owner
func (s *TeamService) GetTeamsByOwner(ctx context.Context, ownerID string) ([]domain.FantasyTeam, error) {
	if ownerID == "" {
		return nil, domain.ErrMissingIdentity
	}

	teams, err := s.teamRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	for i := range teams {
		if err := s.recomputePoints(ctx, &teams[i]); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

// ListTeams retrieves all teams sorted by name
func (s *TeamService) ListTeams(ctx context.Context) ([]domain.FantasyTeam, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range teams {
		if err := s.recomputePoints(ctx, &teams[i]); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (s *TeamService) recomputePoints(ctx context.Context, team *domain.FantasyTeam) error {
	if len(team.PlayerIDs) == 0 {
		team.TotalPoints = 0
		return nil
	}

	players, err := s.playerRepo.GetByIDs(ctx, team.PlayerIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve roster: %w", err)
	}

	var total int64
	for _, p := range players {
		total += p.TotalPoints
	}
	team.TotalPoints = total
	return nil
}
