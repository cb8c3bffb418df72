package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devpage/statsync/internal/statsync"
)

type SyncHandler struct {
	service *statsync.Service
}

func NewSyncHandler(service *statsync.Service) *SyncHandler {
	return &SyncHandler{service: service}
}

// TriggerSync runs the full refresh pipeline for the calling user and
// returns the freshly persisted record.
func (h *SyncHandler) TriggerSync(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized", "missing user identity")
	}

	stats, err := h.service.Refresh(c.Request().Context(), userID, sessionToken(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, stats)
}

// FetchOwnStats returns the calling user's last synced record without
// contacting the upstream API.
func (h *SyncHandler) FetchOwnStats(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized", "missing user identity")
	}

	stats, err := h.service.Read(c.Request().Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, stats)
}
