package service

import (
	"context"
	"fmt"
	"sync"

	"fantasy_cricket/internal/domain"
	"fantasy_cricket/internal/repository"

	"github.com/google/uuid"
)

// fakeTeamRepo keeps teams in memory and mirrors the transactional semantics
// of the postgres repository: mutations take a lock, run the precondition
// checks in the same order and either fully apply or fully fail.
type fakeTeamRepo struct {
	mu      sync.Mutex
	teams   map[uuid.UUID]*domain.FantasyTeam
	players *fakePlayerRepo
}

func newFakeTeamRepo(players *fakePlayerRepo) *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[uuid.UUID]*domain.FantasyTeam),
		players: players,
	}
}

func (f *fakeTeamRepo) clone(t *domain.FantasyTeam) *domain.FantasyTeam {
	cp := *t
	cp.PlayerIDs = append([]uuid.UUID(nil), t.PlayerIDs...)
	return &cp
}

func (f *fakeTeamRepo) Create(_ context.Context, team *domain.FantasyTeam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams[team.ID] = f.clone(team)
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	team, ok := f.teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	return f.clone(team), nil
}

func (f *fakeTeamRepo) GetByOwner(_ context.Context, ownerID string) ([]domain.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var teams []domain.FantasyTeam
	for _, t := range f.teams {
		if t.OwnerID == ownerID {
			teams = append(teams, *f.clone(t))
		}
	}
	return teams, nil
}

func (f *fakeTeamRepo) List(_ context.Context) ([]domain.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var teams []domain.FantasyTeam
	for _, t := range f.teams {
		teams = append(teams, *f.clone(t))
	}
	return teams, nil
}

func (f *fakeTeamRepo) AddPlayer(_ context.Context, teamID uuid.UUID, callerID string, playerID uuid.UUID) (*domain.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	team, ok := f.teams[teamID]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	if !team.IsOwnedBy(callerID) {
		return nil, domain.ErrUnauthorized
	}
	if team.IsFinalized() {
		return nil, domain.ErrTeamLocked
	}

	player, ok := f.players.get(playerID)
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}

	candidate := f.clone(team)
	if err := candidate.AddPlayer(player); err != nil {
		return nil, err
	}

	f.teams[teamID] = candidate
	return f.clone(candidate), nil
}

func (f *fakeTeamRepo) Finalize(_ context.Context, teamID uuid.UUID, callerID string) (*domain.FantasyTeam, []domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	team, ok := f.teams[teamID]
	if !ok {
		return nil, nil, domain.ErrTeamNotFound
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

	// Состав резолвится под тем же локом, что и смена статуса
	roster := make([]domain.Player, 0, len(team.PlayerIDs))
	for _, id := range team.PlayerIDs {
		if p, ok := f.players.get(id); ok {
			roster = append(roster, *p)
		}
	}

	team.Finalize()
	return f.clone(team), roster, nil
}

func (f *fakeTeamRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.teams), nil
}

func (f *fakeTeamRepo) CountFinalized(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.teams {
		if t.IsFinalized() {
			count++
		}
	}
	return count, nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[uuid.UUID]domain.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[uuid.UUID]domain.Player)}
}

func (f *fakePlayerRepo) get(id uuid.UUID) (*domain.Player, bool) {
	p, ok := f.players[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (f *fakePlayerRepo) Create(_ context.Context, player *domain.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[player.ID] = *player
	return nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.get(id)
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return p, nil
}

func (f *fakePlayerRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var players []domain.Player
	for _, id := range ids {
		if p, ok := f.players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (f *fakePlayerRepo) List(_ context.Context) ([]domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var players []domain.Player
	for _, p := range f.players {
		players = append(players, p)
	}
	return players, nil
}

func (f *fakePlayerRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.players), nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.UserProfile
	roles    map[string]domain.UserRole
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[string]domain.UserProfile),
		roles:    make(map[string]domain.UserRole),
	}
}

func (f *fakeProfileRepo) Upsert(_ context.Context, profile *domain.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[profile.UserID] = *profile
	return nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfileRepo) SetRole(_ context.Context, userID string, role domain.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = role
	return nil
}

func (f *fakeProfileRepo) GetRole(_ context.Context, userID string) (domain.UserRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	return domain.UserRoleUser, nil
}

func (f *fakeProfileRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.profiles), nil
}

type fakeStatsRepo struct {
	stats repository.Stats
	err   error
}

func (f *fakeStatsRepo) GetStats(_ context.Context) (*repository.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.stats, nil
}

// interface conformance checks
var (
	_ repository.TeamRepository    = (*fakeTeamRepo)(nil)
	_ repository.PlayerRepository  = (*fakePlayerRepo)(nil)
	_ repository.ProfileRepository = (*fakeProfileRepo)(nil)
	_ repository.StatsRepository   = (*fakeStatsRepo)(nil)
)
