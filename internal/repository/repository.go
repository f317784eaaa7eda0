// Интерфейсы репозиториев для работы с данными
package repository

import (
	"context"
	"fmt"

	"fantasy_cricket/internal/domain"

	"github.com/google/uuid"
)

// dbErr marks an infrastructure failure so the API layer maps it to
// INTERNAL_ERROR instead of leaking driver detail to the client.
func dbErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, op, err)
}

type TeamRepository interface {
	// Create persists a new empty team
	Create(ctx context.Context, team *domain.FantasyTeam) error
	// GetByID retrieves a team with its roster
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FantasyTeam, error)
	// GetByOwner retrieves all teams belonging to an owner
	GetByOwner(ctx context.Context, ownerID string) ([]domain.FantasyTeam, error)
	// List retrieves all teams sorted by name
	List(ctx context.Context) ([]domain.FantasyTeam, error)
	// AddPlayer appends a player to the roster and debits the balance in one
	// transaction; the team row is locked for the duration so concurrent adds
	// to the same team serialize
	AddPlayer(ctx context.Context, teamID uuid.UUID, callerID string, playerID uuid.UUID) (*domain.FantasyTeam, error)
	// Finalize validates the stored roster and flips the team to FINALIZED in
	// one transaction; the team row is locked for the duration and the roster
	// is resolved against the catalog before commit, so the returned summary
	// is atomic with the status flip
	Finalize(ctx context.Context, teamID uuid.UUID, callerID string) (*domain.FantasyTeam, []domain.Player, error)
	// Count returns the total number of teams
	Count(ctx context.Context) (int, error)
	// CountFinalized returns the number of finalized teams
	CountFinalized(ctx context.Context) (int, error)
}

type PlayerRepository interface {
	// Create persists a new catalog player
	Create(ctx context.Context, player *domain.Player) error
	// GetByID retrieves a player by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	// GetByIDs retrieves players for a set of ids
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Player, error)
	// List retrieves all catalog players sorted by name
	List(ctx context.Context) ([]domain.Player, error)
	// Count returns the total number of players
	Count(ctx context.Context) (int, error)
}

type ProfileRepository interface {
	// Upsert creates or updates a user profile
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	// GetByUserID retrieves a profile by user id
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
	// SetRole assigns a role to a user
	SetRole(ctx context.Context, userID string, role domain.UserRole) error
	// GetRole returns the user's role, defaulting to "user" when unassigned
	GetRole(ctx context.Context, userID string) (domain.UserRole, error)
	// Count returns the total number of profiles
	Count(ctx context.Context) (int, error)
}

type StatsRepository interface {
	// GetStats retrieves overall statistics
	GetStats(ctx context.Context) (*Stats, error)
}

// Stats represents overall system statistics
type Stats struct {
	TotalTeams     int `json:"total_teams"`
	FinalizedTeams int `json:"finalized_teams"`
	TotalPlayers   int `json:"total_players"`
	TotalProfiles  int `json:"total_profiles"`
}
