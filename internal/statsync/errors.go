package statsync

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotLinked = errors.New("github account not linked")
	ErrStatsNotSynced   = errors.New("stats not synced yet")
	ErrSyncInProgress   = errors.New("sync already in progress")
	ErrInvalidToken     = errors.New("access token rejected by provider")
	ErrUnknownProvider  = errors.New("unknown provider")
)

// UpstreamError wraps any failure of the external stats API so callers can
// distinguish it from credential and storage problems. The upstream message
// is preserved verbatim.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ValidationError reports a fetched payload missing a structurally required
// field. Optional fields never trigger it; aggregation degrades to zero
// values instead.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payload missing required field %q", e.Field)
}
