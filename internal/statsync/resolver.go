package statsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/devpage/statsync/internal/statsync/repository"
)

// CredentialResolver maps a user to a usable GitHub access token.
// Implementations return ErrAccountNotLinked when no credential exists.
type CredentialResolver interface {
	Resolve(ctx context.Context, userID int64, sessionToken string) (string, error)
}

type storeResolver struct {
	store repository.StatsStore
}

// NewCredentialResolver resolves tokens the way the login layer documents:
// a session-scoped token attached to the active login wins, otherwise the
// stored GitHub connection for the user is used.
func NewCredentialResolver(store repository.StatsStore) CredentialResolver {
	return &storeResolver{store: store}
}

func (r *storeResolver) Resolve(ctx context.Context, userID int64, sessionToken string) (string, error) {
	if sessionToken != "" {
		return sessionToken, nil
	}

	conn, err := r.store.GetConnection(ctx, userID, ProviderGitHub)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAccountNotLinked
		}
		return "", fmt.Errorf("lookup connection: %w", err)
	}
	if conn.AccessToken == "" {
		return "", ErrAccountNotLinked
	}
	return conn.AccessToken, nil
}
