package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/test-go/testify/require"

	"github.com/devpage/statsync/internal/statsync/models"
	"github.com/devpage/statsync/internal/statsync/repository"
	"github.com/devpage/statsync/internal/statsync/repository/postgres"
)

var connStr = os.Getenv("STATSYNC_TEST_DATABASE_URL")

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if connStr == "" {
		t.Skip("STATSYNC_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	conn, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	return conn
}

func teardownDB(t *testing.T, conn *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	_, err := conn.Exec(ctx, "TRUNCATE TABLE git_stats, connections RESTART IDENTITY CASCADE")
	require.NoError(t, err)
	conn.Close()
}

func sampleStats(userID int64) models.ProcessedStats {
	return models.ProcessedStats{
		UserID:                userID,
		Repos:                 12,
		PrivateRepos:          3,
		Commits:               420,
		Stars:                 77,
		Followers:             15,
		Following:             8,
		TotalContributions:    1001,
		ContributionsThisYear: 400,
		ContributionsNotOwned: 5,
		AccountAge:            1500,
		CommitHistory: []models.DayContribution{
			{Date: "2025-01-01", Count: 3},
			{Date: "2025-01-02", Count: 0},
			{Date: "2025-01-03", Count: 7},
		},
		Languages: []models.LanguageShare{
			{Name: "Go", Color: "#00ADD8", Percent: 62.5},
			{Name: "Rust", Color: "#DEA584", Percent: 37.5},
		},
		OSContributions: []models.RepoContribution{
			{Owner: "alice", Name: "bigproject", Stars: 900, PRCount: 4},
			{Owner: "bob", Name: "smalltool", Stars: 12, PRCount: 1},
		},
		SyncedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestUpsertAndGetStats(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	defer teardownDB(t, conn)

	store, err := postgres.NewStatsStore(ctx, connStr)
	require.NoError(t, err)

	stats := sampleStats(1)
	saved, err := store.UpsertStats(ctx, stats)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, stats.Repos, saved.Repos)

	fetched, err := store.GetStats(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, stats.CommitHistory, fetched.CommitHistory)
	require.Equal(t, stats.Languages, fetched.Languages)
	require.Equal(t, stats.OSContributions, fetched.OSContributions)
}

func TestUpsertReplacesRecord(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	defer teardownDB(t, conn)

	store, err := postgres.NewStatsStore(ctx, connStr)
	require.NoError(t, err)

	first := sampleStats(1)
	_, err = store.UpsertStats(ctx, first)
	require.NoError(t, err)

	second := sampleStats(1)
	second.Repos = 13
	second.Languages = []models.LanguageShare{{Name: "Zig", Percent: 100.0}}
	_, err = store.UpsertStats(ctx, second)
	require.NoError(t, err)

	fetched, err := store.GetStats(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 13, fetched.Repos)
	require.Equal(t, second.Languages, fetched.Languages)
}

func TestGetStatsNotFound(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	defer teardownDB(t, conn)

	store, err := postgres.NewStatsStore(ctx, connStr)
	require.NoError(t, err)

	_, err = store.GetStats(ctx, 999)
	require.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestFindStatsFilter(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	defer teardownDB(t, conn)

	store, err := postgres.NewStatsStore(ctx, connStr)
	require.NoError(t, err)

	popular := sampleStats(1)
	popular.Followers = 100
	_, err = store.UpsertStats(ctx, popular)
	require.NoError(t, err)

	quiet := sampleStats(2)
	quiet.Followers = 1
	_, err = store.UpsertStats(ctx, quiet)
	require.NoError(t, err)

	minFollowers := 50
	page, err := store.FindStats(ctx, models.StatsFilter{MinFollowers: &minFollowers}, repository.Pagination{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Data, 1)
	require.Equal(t, int64(1), page.Data[0].UserID)
}

func TestConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	defer teardownDB(t, conn)

	store, err := postgres.NewStatsStore(ctx, connStr)
	require.NoError(t, err)

	link := models.Connection{
		ID:          uuid.New(),
		UserID:      1,
		Provider:    "github",
		Login:       "octocat",
		AccessToken: "gho_secret",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	saved, err := store.SaveConnection(ctx, link)
	require.NoError(t, err)
	require.Equal(t, link.Login, saved.Login)

	fetched, err := store.GetConnection(ctx, 1, "github")
	require.NoError(t, err)
	require.Equal(t, "gho_secret", fetched.AccessToken)

	all, err := store.FindConnections(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, store.DeleteConnection(ctx, 1, "github"))

	_, err = store.GetConnection(ctx, 1, "github")
	require.True(t, errors.Is(err, repository.ErrNotFound))
}
