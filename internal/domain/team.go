package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// SquadSize is the exact number of players a finalized squad must have
	SquadSize = 11

	// InitialBudget default starting balance in minor currency units
	InitialBudget int64 = 100_000_000
)

type TeamStatus string

const (
	TeamStatusDraft     TeamStatus = "DRAFT"
	TeamStatusFinalized TeamStatus = "FINALIZED"
)

// FantasyTeam is the ledger of one squad: roster, balance and points move
// together, every mutation either fully applies or fully fails.
type FantasyTeam struct {
	ID          uuid.UUID   `json:"team_id"`
	OwnerID     string      `json:"owner_id"`
	Name        string      `json:"team_name"`
	PlayerIDs   []uuid.UUID `json:"player_ids"`
	Balance     int64       `json:"balance"`
	TotalPoints int64       `json:"total_points"`
	Status      TeamStatus  `json:"status"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
}

func NewFantasyTeam(ownerID, name string, budget int64) (*FantasyTeam, error) {
	if ownerID == "" {
		return nil, ErrMissingIdentity
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	now := time.Now()
	return &FantasyTeam{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		PlayerIDs: make([]uuid.UUID, 0, SquadSize),
		Balance:   budget,
		Status:    TeamStatusDraft,
		CreatedAt: &now,
	}, nil
}

func (t *FantasyTeam) IsFinalized() bool {
	return t.Status == TeamStatusFinalized
}

// IsComplete reports whether the roster has the full squad. Completeness is
// necessary but not sufficient for finalization.
func (t *FantasyTeam) IsComplete() bool {
	return len(t.PlayerIDs) == SquadSize
}

func (t *FantasyTeam) HasPlayer(playerID uuid.UUID) bool {
	for _, id := range t.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (t *FantasyTeam) IsOwnedBy(userID string) bool {
	return t.OwnerID == userID
}

// AddPlayer applies the one roster mutation allowed before finalization.
// Preconditions are checked in a fixed order, first violation wins; on success
// roster, balance and points update together.
func (t *FantasyTeam) AddPlayer(p *Player) error {
	if t.IsFinalized() {
		return ErrTeamLocked
	}
	if t.HasPlayer(p.ID) {
		return ErrDuplicatePlayer
	}
	if len(t.PlayerIDs) >= SquadSize {
		return ErrRosterFull
	}
	if t.Balance-p.BaseCost < 0 {
		return fmt.Errorf("%w: balance=%d cost=%d", ErrInsufficientBalance, t.Balance, p.BaseCost)
	}

	t.PlayerIDs = append(t.PlayerIDs, p.ID)
	t.Balance -= p.BaseCost
	t.TotalPoints += p.TotalPoints
	return nil
}

// ValidateForFinalize is the authoritative finalization gate. It recomputes the
// invariants from the stored roster regardless of how the team was assembled,
// so drift between client-perceived and stored state cannot slip through.
func (t *FantasyTeam) ValidateForFinalize() error {
	if len(t.PlayerIDs) != SquadSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrWrongRosterSize, SquadSize, len(t.PlayerIDs))
	}
	seen := make(map[uuid.UUID]struct{}, len(t.PlayerIDs))
	for _, id := range t.PlayerIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayers, id)
		}
		seen[id] = struct{}{}
	}
	if t.Balance < 0 {
		return fmt.Errorf("%w: balance=%d", ErrNegativeBalance, t.Balance)
	}
	return nil
}

// Finalize flips the one-way status flag after validation succeeded.
func (t *FantasyTeam) Finalize() {
	t.Status = TeamStatusFinalized
}
