package statsync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/devpage/statsync/internal/events"
	"github.com/devpage/statsync/internal/pkg/config"
	"github.com/devpage/statsync/internal/statsync/cache"
	"github.com/devpage/statsync/internal/statsync/models"
	"github.com/devpage/statsync/internal/statsync/repository"
)

const ProviderGitHub = "github"

// GitHubClient is the upstream API surface the orchestrator needs: the
// batched stats query and token verification for account linking.
type GitHubClient interface {
	FetchViewerStats(ctx context.Context, token string) (*models.RawStats, error)
	AuthenticatedLogin(ctx context.Context, token string) (string, error)
}

// Locker serializes refreshes per user. A nil Locker disables the guard;
// the store's atomic upsert still keeps the record consistent.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishStatsSynced(ctx context.Context, ev events.StatsSynced) error
}

// Service coordinates the sync pipeline: resolve credential, fetch,
// aggregate, persist. Each call is a fresh run; nothing carries over
// between invocations.
type Service struct {
	store     repository.StatsStore
	gh        GitHubClient
	creds     CredentialResolver
	locks     Locker
	publisher EventPublisher
	cache     *cache.Cache
	cfg       *config.StatsConfig
}

func NewService(store repository.StatsStore, gh GitHubClient, creds CredentialResolver, cfg *config.StatsConfig) *Service {
	return &Service{
		store: store,
		gh:    gh,
		creds: creds,
		cfg:   cfg,
	}
}

func (svc *Service) UseLocker(l Locker) {
	svc.locks = l
}

func (svc *Service) UsePublisher(p EventPublisher) {
	svc.publisher = p
}

func (svc *Service) UseCache(c *cache.Cache) {
	svc.cache = c
}

// Refresh runs the full write path for a user and returns the persisted
// record. The whole record is replaced on every call; back-to-back
// refreshes against unchanged upstream data persist identical records.
func (svc *Service) Refresh(ctx context.Context, userID int64, sessionToken string) (*models.ProcessedStats, error) {
	token, err := svc.creds.Resolve(ctx, userID, sessionToken)
	if err != nil {
		return nil, err
	}

	if svc.locks != nil {
		key := fmt.Sprintf("statsync:lock:%d", userID)
		ok, err := svc.locks.Acquire(ctx, key, svc.lockTTL())
		if err != nil {
			log.Printf("failed to acquire sync lock for user %d: %v", userID, err)
		} else if !ok {
			return nil, ErrSyncInProgress
		} else {
			defer func() {
				if err := svc.locks.Release(ctx, key); err != nil {
					log.Printf("failed to release sync lock for user %d: %v", userID, err)
				}
			}()
		}
	}

	raw, err := svc.gh.FetchViewerStats(ctx, token)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	now := time.Now().UTC()
	stats, err := Process(raw, now)
	if err != nil {
		return nil, err
	}
	stats.UserID = userID
	stats.SyncedAt = now

	saved, err := svc.store.UpsertStats(ctx, *stats)
	if err != nil {
		return nil, fmt.Errorf("persist stats: %w", err)
	}

	if svc.publisher != nil {
		ev := events.StatsSynced{
			UserID:             userID,
			Login:              raw.Login,
			TotalContributions: saved.TotalContributions,
			SyncedAt:           saved.SyncedAt,
		}
		if err := svc.publisher.PublishStatsSynced(ctx, ev); err != nil {
			log.Printf("failed to publish synced event for user %d: %v", userID, err)
		}
	}

	if svc.cache != nil {
		svc.cache.SetStats(userID, saved)
	}

	return saved, nil
}

// Read returns the persisted record for a user without touching the
// upstream API.
func (svc *Service) Read(ctx context.Context, userID int64) (*models.ProcessedStats, error) {
	if svc.cache != nil {
		if stats, ok := svc.cache.GetStats(userID); ok {
			return stats, nil
		}
	}

	stats, err := svc.store.GetStats(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStatsNotSynced
		}
		return nil, fmt.Errorf("read stats: %w", err)
	}

	if svc.cache != nil {
		svc.cache.SetStats(userID, stats)
	}
	return stats, nil
}

func (svc *Service) ListStats(ctx context.Context, filter models.StatsFilter, page, perPage int) (repository.Paginated[models.ProcessedStats], error) {
	pagination := repository.Pagination{
		Page:    page,
		PerPage: perPage,
	}
	return svc.store.FindStats(ctx, filter, pagination)
}

// LinkAccount verifies the token against the provider and stores the
// connection the credential resolver reads from.
func (svc *Service) LinkAccount(ctx context.Context, userID int64, provider, accessToken string) (*models.Connection, error) {
	if provider != ProviderGitHub {
		return nil, ErrUnknownProvider
	}

	login, err := svc.gh.AuthenticatedLogin(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	conn := models.Connection{
		ID:          uuid.New(),
		UserID:      userID,
		Provider:    provider,
		Login:       login,
		AccessToken: accessToken,
		CreatedAt:   time.Now().UTC(),
	}

	saved, err := svc.store.SaveConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("save connection: %w", err)
	}
	return saved, nil
}

func (svc *Service) Connections(ctx context.Context, userID int64) ([]models.Connection, error) {
	return svc.store.FindConnections(ctx, userID)
}

func (svc *Service) UnlinkAccount(ctx context.Context, userID int64, provider string) error {
	return svc.store.DeleteConnection(ctx, userID, provider)
}

func (svc *Service) lockTTL() time.Duration {
	if svc.cfg != nil && svc.cfg.SyncLockTTL > 0 {
		return svc.cfg.SyncLockTTL
	}
	return 2 * time.Minute
}
