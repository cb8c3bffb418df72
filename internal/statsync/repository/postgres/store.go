package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/devpage/statsync/internal/statsync/models"
	"github.com/devpage/statsync/internal/statsync/repository"
)

type pgStore struct {
	conn *pgxpool.Pool
}

//go:embed migrations/*.sql
var migrations embed.FS

func NewStatsStore(ctx context.Context, connStr string) (repository.StatsStore, error) {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	store := &pgStore{conn: conn}

	log.Println("running database migrations...")
	if err := store.runMigrate(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (p *pgStore) runMigrate(conn *pgxpool.Pool) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		log.Printf("failed to set goose dialect: %v", err)
		return err
	}

	db := conn.Config().ConnConfig.ConnString()

	dbConn, err := goose.OpenDBWithDriver("pgx", db)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer dbConn.Close()

	if err := goose.Up(dbConn, "migrations"); err != nil {
		log.Printf("failed to run goose migrations: %v", err)
		return err
	}

	return nil
}

const upsertStatsSQL = `
INSERT INTO git_stats (
	user_id, repos, private_repos, commits, stars, followers, following,
	total_contributions, contributions_this_year, contributions_not_owned,
	account_age, commit_history, languages, os_contributions, synced_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (user_id) DO UPDATE SET
	repos = EXCLUDED.repos,
	private_repos = EXCLUDED.private_repos,
	commits = EXCLUDED.commits,
	stars = EXCLUDED.stars,
	followers = EXCLUDED.followers,
	following = EXCLUDED.following,
	total_contributions = EXCLUDED.total_contributions,
	contributions_this_year = EXCLUDED.contributions_this_year,
	contributions_not_owned = EXCLUDED.contributions_not_owned,
	account_age = EXCLUDED.account_age,
	commit_history = EXCLUDED.commit_history,
	languages = EXCLUDED.languages,
	os_contributions = EXCLUDED.os_contributions,
	synced_at = EXCLUDED.synced_at
RETURNING user_id, repos, private_repos, commits, stars, followers, following,
	total_contributions, contributions_this_year, contributions_not_owned,
	account_age, commit_history, languages, os_contributions, synced_at`

const getStatsSQL = `
SELECT user_id, repos, private_repos, commits, stars, followers, following,
	total_contributions, contributions_this_year, contributions_not_owned,
	account_age, commit_history, languages, os_contributions, synced_at
FROM git_stats WHERE user_id = $1`

func (p *pgStore) UpsertStats(ctx context.Context, stats models.ProcessedStats) (*models.ProcessedStats, error) {
	history, err := json.Marshal(stats.CommitHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to encode commit history: %w", err)
	}
	languages, err := json.Marshal(stats.Languages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode languages: %w", err)
	}
	contributions, err := json.Marshal(stats.OSContributions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contributions: %w", err)
	}

	row := p.conn.QueryRow(ctx, upsertStatsSQL,
		stats.UserID, stats.Repos, stats.PrivateRepos, stats.Commits,
		stats.Stars, stats.Followers, stats.Following,
		stats.TotalContributions, stats.ContributionsThisYear,
		stats.ContributionsNotOwned, stats.AccountAge,
		history, languages, contributions, stats.SyncedAt,
	)
	return scanStats(row)
}

func (p *pgStore) GetStats(ctx context.Context, userID int64) (*models.ProcessedStats, error) {
	stats, err := scanStats(p.conn.QueryRow(ctx, getStatsSQL, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return stats, nil
}

func scanStats(row pgx.Row) (*models.ProcessedStats, error) {
	var stats models.ProcessedStats
	var history, languages, contributions []byte

	err := row.Scan(
		&stats.UserID, &stats.Repos, &stats.PrivateRepos, &stats.Commits,
		&stats.Stars, &stats.Followers, &stats.Following,
		&stats.TotalContributions, &stats.ContributionsThisYear,
		&stats.ContributionsNotOwned, &stats.AccountAge,
		&history, &languages, &contributions, &stats.SyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(history, &stats.CommitHistory); err != nil {
		return nil, fmt.Errorf("failed to decode commit history: %w", err)
	}
	if err := json.Unmarshal(languages, &stats.Languages); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}
	if err := json.Unmarshal(contributions, &stats.OSContributions); err != nil {
		return nil, fmt.Errorf("failed to decode contributions: %w", err)
	}

	return &stats, nil
}

func (p *pgStore) FindStats(ctx context.Context, filter models.StatsFilter, pag repository.Pagination) (repository.Paginated[models.ProcessedStats], error) {
	sb := squirrel.Select(
		"s.user_id",
		"s.repos",
		"s.private_repos",
		"s.commits",
		"s.stars",
		"s.followers",
		"s.following",
		"s.total_contributions",
		"s.contributions_this_year",
		"s.contributions_not_owned",
		"s.account_age",
		"s.commit_history",
		"s.languages",
		"s.os_contributions",
		"s.synced_at",
	).From("git_stats s")

	if filter.MinFollowers != nil {
		sb = sb.Where(squirrel.GtOrEq{"s.followers": *filter.MinFollowers})
	}
	if filter.SyncedAfter != nil {
		sb = sb.Where(squirrel.Gt{"s.synced_at": *filter.SyncedAfter})
	}

	countBuilder := sb.PlaceholderFormat(squirrel.Dollar).Prefix("SELECT COUNT(*) FROM (").Suffix(") AS subquery")
	totalCountSQL, args, err := countBuilder.ToSql()
	if err != nil {
		return repository.Paginated[models.ProcessedStats]{}, fmt.Errorf("failed to build count SQL: %w", err)
	}

	var totalCount int64
	err = p.conn.QueryRow(ctx, totalCountSQL, args...).Scan(&totalCount)
	if err != nil {
		return repository.Paginated[models.ProcessedStats]{}, fmt.Errorf("failed to get total count: %w", err)
	}

	sb = sb.OrderBy("s.user_id").
		Offset(uint64((pag.Page - 1) * pag.PerPage)).
		Limit(uint64(pag.PerPage)).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := sb.ToSql()
	if err != nil {
		return repository.Paginated[models.ProcessedStats]{}, fmt.Errorf("failed to build SQL: %w", err)
	}

	rows, err := p.conn.Query(ctx, sql, args...)
	if err != nil {
		return repository.Paginated[models.ProcessedStats]{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	records := []models.ProcessedStats{}
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return repository.Paginated[models.ProcessedStats]{}, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, *stats)
	}

	return repository.Paginated[models.ProcessedStats]{
		Data:       records,
		TotalCount: totalCount,
		Page:       pag.Page,
		PerPage:    pag.PerPage,
	}, nil
}

func (p *pgStore) SaveConnection(ctx context.Context, conn models.Connection) (*models.Connection, error) {
	const query = `
INSERT INTO connections (id, user_id, provider, login, access_token, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, provider) DO UPDATE SET
	login = EXCLUDED.login,
	access_token = EXCLUDED.access_token
RETURNING id, user_id, provider, login, access_token, created_at`

	var saved models.Connection
	err := p.conn.QueryRow(ctx, query,
		conn.ID, conn.UserID, conn.Provider, conn.Login, conn.AccessToken, conn.CreatedAt,
	).Scan(&saved.ID, &saved.UserID, &saved.Provider, &saved.Login, &saved.AccessToken, &saved.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (p *pgStore) GetConnection(ctx context.Context, userID int64, provider string) (*models.Connection, error) {
	const query = `
SELECT id, user_id, provider, login, access_token, created_at
FROM connections WHERE user_id = $1 AND provider = $2`

	var conn models.Connection
	err := p.conn.QueryRow(ctx, query, userID, provider).
		Scan(&conn.ID, &conn.UserID, &conn.Provider, &conn.Login, &conn.AccessToken, &conn.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (p *pgStore) FindConnections(ctx context.Context, userID int64) ([]models.Connection, error) {
	const query = `
SELECT id, user_id, provider, login, access_token, created_at
FROM connections WHERE user_id = $1 ORDER BY provider`

	rows, err := p.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conns := []models.Connection{}
	for rows.Next() {
		var conn models.Connection
		if err := rows.Scan(&conn.ID, &conn.UserID, &conn.Provider, &conn.Login, &conn.AccessToken, &conn.CreatedAt); err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}

func (p *pgStore) DeleteConnection(ctx context.Context, userID int64, provider string) error {
	tag, err := p.conn.Exec(ctx, `DELETE FROM connections WHERE user_id = $1 AND provider = $2`, userID, provider)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
