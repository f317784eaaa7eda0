package integration

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"fantasy_cricket/internal/database"
	"fantasy_cricket/internal/domain"
	"fantasy_cricket/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Tests in this package run against a real postgres instance and are skipped
// unless TEST_DATABASE_URL points at a disposable database.
func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("integration test requires TEST_DATABASE_URL")
	}
	return dsn
}

// setupTestDB creates a new database connection pool for testing
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, getTestDSN(t))
	require.NoError(t, err, "Failed to connect to test database")

	// Verify connection
	err = pool.Ping(ctx)
	require.NoError(t, err, "Failed to ping test database")

	require.NoError(t, database.ApplySchema(ctx, pool))

	// Cleanup function
	cleanup := func() {
		cleanupTestData(t, pool)
		pool.Close()
	}

	// Clean up before test
	cleanupTestData(t, pool)

	return pool, cleanup
}

// setupTestRepos wires the repositories the same way cmd/server does
func setupTestRepos(t *testing.T) (*pgxpool.Pool, *repository.TeamRepositoryImpl, *repository.PlayerRepositoryImpl, func()) {
	t.Helper()

	pool, cleanup := setupTestDB(t)

	// Create logger for tests (only log errors)
	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	teamRepo := repository.NewTeamRepository(pool, testLogger)
	playerRepo := repository.NewPlayerRepository(pool, testLogger)

	return pool, teamRepo, playerRepo, cleanup
}

// cleanupTestData deletes all test data in correct order
func cleanupTestData(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	// Delete in correct order due to foreign keys
	_, _ = pool.Exec(ctx, "DELETE FROM team_players")
	_, _ = pool.Exec(ctx, "DELETE FROM fantasy_teams")
	_, _ = pool.Exec(ctx, "DELETE FROM players")
	_, _ = pool.Exec(ctx, "DELETE FROM user_roles")
	_, _ = pool.Exec(ctx, "DELETE FROM user_profiles")
}

// Helper to create unique test IDs
func testID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// Helper to seed a catalog player with a given cost
func seedCatalogPlayer(t *testing.T, ctx context.Context, players *repository.PlayerRepositoryImpl, cost int64) *domain.Player {
	t.Helper()

	p := domain.NewPlayer(testID("player"), domain.RoleBatsman, "Chennai", cost)
	p.TotalPoints = 10
	require.NoError(t, players.Create(ctx, p))
	return p
}

// Helper to create an empty draft team with the default budget
func newDraftTeam(t *testing.T, ctx context.Context, teams *repository.TeamRepositoryImpl, ownerID string) *domain.FantasyTeam {
	t.Helper()

	team, err := domain.NewFantasyTeam(ownerID, testID("team"), domain.InitialBudget)
	require.NoError(t, err)
	require.NoError(t, teams.Create(ctx, team))
	return team
}

// Helper to fill a team with n affordable players
func fillRoster(t *testing.T, ctx context.Context, teams *repository.TeamRepositoryImpl, players *repository.PlayerRepositoryImpl, team *domain.FantasyTeam, ownerID string, n int, cost int64) {
	t.Helper()

	for i := 0; i < n; i++ {
		p := seedCatalogPlayer(t, ctx, players, cost)
		_, err := teams.AddPlayer(ctx, team.ID, ownerID, p.ID)
		require.NoError(t, err)
	}
}
