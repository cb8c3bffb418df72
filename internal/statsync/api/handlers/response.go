package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/devpage/statsync/internal/statsync"
	"github.com/devpage/statsync/internal/statsync/repository"
)

// Response is the envelope shared by every route.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondOK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func respondError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Response{Success: false, Error: code, Message: message})
}

// respondServiceError maps the service error taxonomy onto status codes and
// stable machine-readable error strings.
func respondServiceError(c echo.Context, err error) error {
	var upstream *statsync.UpstreamError
	var validation *statsync.ValidationError

	switch {
	case errors.Is(err, statsync.ErrAccountNotLinked):
		return respondError(c, http.StatusUnauthorized, "account_not_linked", err.Error())
	case errors.Is(err, statsync.ErrInvalidToken):
		return respondError(c, http.StatusUnauthorized, "invalid_token", err.Error())
	case errors.Is(err, statsync.ErrStatsNotSynced):
		return respondError(c, http.StatusNotFound, "not_synced", "stats not synced yet, trigger a sync first")
	case errors.Is(err, statsync.ErrSyncInProgress):
		return respondError(c, http.StatusConflict, "sync_in_progress", err.Error())
	case errors.Is(err, statsync.ErrUnknownProvider):
		return respondError(c, http.StatusBadRequest, "unknown_provider", err.Error())
	case errors.As(err, &validation):
		return respondError(c, http.StatusBadGateway, "invalid_payload", err.Error())
	case errors.As(err, &upstream):
		return respondError(c, http.StatusBadGateway, "upstream_error", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return respondError(c, http.StatusNotFound, "not_found", err.Error())
	default:
		log.Printf("unexpected service error: %v", err)
		return respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// viewerID extracts the caller identity attached by the auth proxy.
func viewerID(c echo.Context) (int64, bool) {
	raw := c.Request().Header.Get("X-User-ID")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func sessionToken(c echo.Context) string {
	return c.Request().Header.Get("X-GitHub-Token")
}
