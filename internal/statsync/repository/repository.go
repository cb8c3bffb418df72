package repository

import (
	"context"
	"errors"

	"github.com/devpage/statsync/internal/statsync/models"
)

// ErrNotFound is returned for lookups with no matching row.
var ErrNotFound = errors.New("record not found")

type Paginated[T any] struct {
	Data       []T
	TotalCount int64
	Page       int
	PerPage    int
}

type Pagination struct {
	Page    int
	PerPage int
}

// StatsStore persists one ProcessedStats record per user plus the provider
// connections used by the credential resolver. UpsertStats replaces the
// whole record atomically; there is no field-level merge.
type StatsStore interface {
	UpsertStats(ctx context.Context, stats models.ProcessedStats) (*models.ProcessedStats, error)
	GetStats(ctx context.Context, userID int64) (*models.ProcessedStats, error)
	FindStats(ctx context.Context, filter models.StatsFilter, pag Pagination) (Paginated[models.ProcessedStats], error)
	SaveConnection(ctx context.Context, conn models.Connection) (*models.Connection, error)
	GetConnection(ctx context.Context, userID int64, provider string) (*models.Connection, error)
	FindConnections(ctx context.Context, userID int64) ([]models.Connection, error)
	DeleteConnection(ctx context.Context, userID int64, provider string) error
}
