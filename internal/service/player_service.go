package service

import (
	"context"
	"fmt"
	"log/slog"

	"fantasy_cricket/internal/domain"
	"fantasy_cricket/internal/repository"

	"github.com/google/uuid"
)

// PlayerService manages the player catalog. Catalog records are immutable to
// the assembly engine; only admins may add players.
type PlayerService struct {
	playerRepo  repository.PlayerRepository
	profileRepo repository.ProfileRepository
	logger      *slog.Logger
}

func NewPlayerService(
	playerRepo repository.PlayerRepository,
	profileRepo repository.ProfileRepository,
	logger *slog.Logger,
) *PlayerService {
	return &PlayerService{
		playerRepo:  playerRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// CreatePlayer adds a new player to the catalog. Admin only.
func (s *PlayerService) CreatePlayer(ctx context.Context, callerID, name, roleStr, teamName string, totalPoints, baseCost int64) (*domain.Player, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, err
	}

	player := domain.NewPlayer(name, role, teamName, baseCost)
	player.TotalPoints = totalPoints
	if err := player.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("creating catalog player",
		slog.String("player_id", player.ID.String()),
		slog.String("name", player.Name),
		slog.String("role", string(player.Role)),
	)

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

// GetPlayer retrieves a catalog player by id
func (s *PlayerService) GetPlayer(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	return s.playerRepo.GetByID(ctx, id)
}

// ListPlayers retrieves all catalog players sorted by name
func (s *PlayerService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	return s.playerRepo.List(ctx)
}

func (s *PlayerService) requireAdmin(ctx context.Context, callerID string) error {
	if callerID == "" {
		return domain.ErrMissingIdentity
	}

	role, err := s.profileRepo.GetRole(ctx, callerID)
	if err != nil {
		return fmt.Errorf("failed to get caller role: %w", err)
	}
	if role != domain.UserRoleAdmin {
		s.logger.Warn("catalog mutation denied", slog.String("caller_id", callerID))
		return domain.ErrUnauthorized
	}
	return nil
}
