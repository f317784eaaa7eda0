package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fantasy_cricket/internal/api/middleware"
	"fantasy_cricket/internal/domain"
	"fantasy_cricket/internal/repository"
	"fantasy_cricket/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories backing the handler tests. They mirror the
// transactional semantics of the postgres implementations closely enough for
// routing and status-mapping checks.
type memStore struct {
	mu       sync.Mutex
	teams    map[uuid.UUID]*domain.FantasyTeam
	players  map[uuid.UUID]domain.Player
	profiles map[string]domain.UserProfile
	roles    map[string]domain.UserRole
}

func newMemStore() *memStore {
	return &memStore{
		teams:    make(map[uuid.UUID]*domain.FantasyTeam),
		players:  make(map[uuid.UUID]domain.Player),
		profiles: make(map[string]domain.UserProfile),
		roles:    make(map[string]domain.UserRole),
	}
}

type memTeamRepo struct{ s *memStore }

func (r memTeamRepo) Create(_ context.Context, team *domain.FantasyTeam) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *team
	cp.PlayerIDs = append([]uuid.UUID(nil), team.PlayerIDs...)
	r.s.teams[team.ID] = &cp
	return nil
}

func (r memTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.FantasyTeam, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	cp := *team
	cp.PlayerIDs = append([]uuid.UUID(nil), team.PlayerIDs...)
	return &cp, nil
}

func (r memTeamRepo) GetByOwner(_ context.Context, ownerID string) ([]domain.FantasyTeam, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var teams []domain.FantasyTeam
	for _, t := range r.s.teams {
		if t.OwnerID == ownerID {
			teams = append(teams, *t)
		}
	}
	return teams, nil
}

func (r memTeamRepo) List(_ context.Context) ([]domain.FantasyTeam, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var teams []domain.FantasyTeam
	for _, t := range r.s.teams {
		teams = append(teams, *t)
	}
	return teams, nil
}

func (r memTeamRepo) AddPlayer(_ context.Context, teamID uuid.UUID, callerID string, playerID uuid.UUID) (*domain.FantasyTeam, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[teamID]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	if !team.IsOwnedBy(callerID) {
		return nil, domain.ErrUnauthorized
	}
	if team.IsFinalized() {
		return nil, domain.ErrTeamLocked
	}
	player, ok := r.s.players[playerID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	if err := team.AddPlayer(&player); err != nil {
		return nil, err
	}
	cp := *team
	cp.PlayerIDs = append([]uuid.UUID(nil), team.PlayerIDs...)
	return &cp, nil
}

func (r memTeamRepo) Finalize(_ context.Context, teamID uuid.UUID, callerID string) (*domain.FantasyTeam, []domain.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[teamID]
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
	roster := make([]domain.Player, 0, len(team.PlayerIDs))
	for _, id := range team.PlayerIDs {
		if p, ok := r.s.players[id]; ok {
			roster = append(roster, p)
		}
	}
	team.Finalize()
	cp := *team
	return &cp, roster, nil
}

func (r memTeamRepo) Count(_ context.Context) (int, error) { return len(r.s.teams), nil }
func (r memTeamRepo) CountFinalized(_ context.Context) (int, error) {
	count := 0
	for _, t := range r.s.teams {
		if t.IsFinalized() {
			count++
		}
	}
	return count, nil
}

type memPlayerRepo struct{ s *memStore }

func (r memPlayerRepo) Create(_ context.Context, player *domain.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.players[player.ID] = *player
	return nil
}

func (r memPlayerRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return &p, nil
}

func (r memPlayerRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var players []domain.Player
	for _, id := range ids {
		if p, ok := r.s.players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (r memPlayerRepo) List(_ context.Context) ([]domain.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var players []domain.Player
	for _, p := range r.s.players {
		players = append(players, p)
	}
	return players, nil
}

func (r memPlayerRepo) Count(_ context.Context) (int, error) { return len(r.s.players), nil }

type memProfileRepo struct{ s *memStore }

func (r memProfileRepo) Upsert(_ context.Context, profile *domain.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profiles[profile.UserID] = *profile
	return nil
}

func (r memProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r memProfileRepo) SetRole(_ context.Context, userID string, role domain.UserRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.roles[userID] = role
	return nil
}

func (r memProfileRepo) GetRole(_ context.Context, userID string) (domain.UserRole, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if role, ok := r.s.roles[userID]; ok {
		return role, nil
	}
	return domain.UserRoleUser, nil
}

func (r memProfileRepo) Count(_ context.Context) (int, error) { return len(r.s.profiles), nil }

type memStatsRepo struct{ s *memStore }

func (r memStatsRepo) GetStats(_ context.Context) (*repository.Stats, error) {
	return &repository.Stats{
		TotalTeams:    len(r.s.teams),
		TotalPlayers:  len(r.s.players),
		TotalProfiles: len(r.s.profiles),
	}, nil
}

func newTestRouter(store *memStore) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	teamService := service.NewTeamService(memTeamRepo{store}, memPlayerRepo{store}, domain.InitialBudget, logger)
	playerService := service.NewPlayerService(memPlayerRepo{store}, memProfileRepo{store}, logger)
	profileService := service.NewProfileService(memProfileRepo{store}, logger)
	statsService := service.NewStatsService(memStatsRepo{store}, logger)

	handler := NewHandler(teamService, playerService, profileService, statsService, logger)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity())
	handler.RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, router *gin.Engine, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), w.Body.String())
	return result
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	result := decodeBody(t, w)
	require.Contains(t, result, "error")
	return result["error"].(map[string]interface{})["code"].(string)
}

func TestHealthRoute(t *testing.T) {
	router := newTestRouter(newMemStore())

	w := doRequest(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestTeamCreateRoute(t *testing.T) {
	router := newTestRouter(newMemStore())

	t.Run("Created", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/teams", "owner1", gin.H{"team_name": "Super Kings"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		result := decodeBody(t, w)
		assert.Equal(t, "Super Kings", result["team_name"])
		assert.Equal(t, float64(domain.InitialBudget), result["balance"])
		assert.Equal(t, "DRAFT", result["status"])
	})

	t.Run("MissingIdentity", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/teams", "", gin.H{"team_name": "Super Kings"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "MISSING_IDENTITY", errorCode(t, w))
	})

	t.Run("EmptyName", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/teams", "owner1", gin.H{"team_name": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTeamAssemblyRoutes(t *testing.T) {
	store := newMemStore()
	store.roles["admin1"] = domain.UserRoleAdmin
	router := newTestRouter(store)

	// Seed catalog through the admin endpoint
	playerIDs := make([]string, 0, 12)
	for i := 0; i < 11; i++ {
		w := doRequest(t, router, http.MethodPost, "/players", "admin1", gin.H{
			"name":      fmt.Sprintf("Player %d", i),
			"role":      "batsman",
			"team":      "Chennai",
			"base_cost": 9_000_000,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		playerIDs = append(playerIDs, decodeBody(t, w)["player_id"].(string))
	}
	w := doRequest(t, router, http.MethodPost, "/players", "admin1", gin.H{
		"name":      "Star",
		"role":      "batsman",
		"team":      "Mumbai",
		"base_cost": 15_000_000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	expensiveID := decodeBody(t, w)["player_id"].(string)

	w = doRequest(t, router, http.MethodPost, "/teams", "owner1", gin.H{"team_name": "Super Kings"})
	require.Equal(t, http.StatusCreated, w.Code)
	teamID := decodeBody(t, w)["team_id"].(string)

	addPath := "/teams/" + teamID + "/players"
	finalizePath := "/teams/" + teamID + "/finalize"

	t.Run("FinalizeIncomplete", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, finalizePath, "owner1", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INCOMPLETE_ROSTER", errorCode(t, w))
	})

	t.Run("AddTen", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			w := doRequest(t, router, http.MethodPost, addPath, "owner1", gin.H{"player_id": playerIDs[i]})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, addPath, "owner1", gin.H{"player_id": expensiveID})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INSUFFICIENT_BALANCE", errorCode(t, w))
	})

	t.Run("Duplicate", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, addPath, "owner1", gin.H{"player_id": playerIDs[0]})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_PLAYER", errorCode(t, w))
	})

	t.Run("ForeignCaller", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, addPath, "intruder", gin.H{"player_id": playerIDs[10]})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
	})

	t.Run("UnknownPlayer", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, addPath, "owner1", gin.H{"player_id": uuid.NewString()})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("CompleteAndFinalize", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, addPath, "owner1", gin.H{"player_id": playerIDs[10]})
		require.Equal(t, http.StatusOK, w.Code)
		result := decodeBody(t, w)
		assert.Equal(t, float64(1_000_000), result["balance"])

		w = doRequest(t, router, http.MethodPost, finalizePath, "owner1", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result = decodeBody(t, w)
		team := result["team"].(map[string]interface{})
		assert.Equal(t, "FINALIZED", team["status"])
		assert.Len(t, result["roster"], 11)
	})

	t.Run("SecondFinalize", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, finalizePath, "owner1", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "TEAM_LOCKED", errorCode(t, w))
	})

	t.Run("GetTeam", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/teams/"+teamID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		result := decodeBody(t, w)
		assert.Len(t, result["player_ids"], 11)
	})

	t.Run("GetUnknownTeam", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/teams/"+uuid.NewString(), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ListByOwner", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/teams?owner_id=owner1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody(t, w)["teams"], 1)
	})
}

func TestCatalogRoutes(t *testing.T) {
	store := newMemStore()
	store.roles["admin1"] = domain.UserRoleAdmin
	router := newTestRouter(store)

	t.Run("NonAdminDenied", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/players", "user1", gin.H{
			"name": "Kohli", "role": "batsman", "team": "Bangalore", "base_cost": 1,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("BadRole", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/players", "admin1", gin.H{
			"name": "Kohli", "role": "coach", "team": "Bangalore", "base_cost": 1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ListPlayers", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/players", "admin1", gin.H{
			"name": "Kohli", "role": "batsman", "team": "Bangalore", "base_cost": 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, router, http.MethodGet, "/players", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody(t, w)["players"], 1)
	})
}

func TestProfileRoutes(t *testing.T) {
	router := newTestRouter(newMemStore())

	w := doRequest(t, router, http.MethodPut, "/profile", "user1", gin.H{"name": "Rohit"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/profile/user1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rohit", decodeBody(t, w)["name"])

	w = doRequest(t, router, http.MethodGet, "/profile/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoleRoutes(t *testing.T) {
	store := newMemStore()
	store.roles["admin1"] = domain.UserRoleAdmin
	router := newTestRouter(store)

	w := doRequest(t, router, http.MethodPost, "/roles", "admin1", gin.H{"user_id": "user1", "role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPost, "/roles", "user2", gin.H{"user_id": "user3", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
