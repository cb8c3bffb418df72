package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/devpage/statsync/internal/statsync"
	"github.com/devpage/statsync/internal/statsync/models"
)

type StatsHandler struct {
	service   *statsync.Service
	validator *validator.Validate
}

func NewStatsHandler(service *statsync.Service) *StatsHandler {
	return &StatsHandler{
		service:   service,
		validator: validator.New(),
	}
}

// FetchUserStats is the public read path: anyone can look at a synced
// profile by user id.
func (h *StatsHandler) FetchUserStats(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return respondError(c, http.StatusBadRequest, "invalid_user_id", "user_id must be a positive integer")
	}

	stats, svcErr := h.service.Read(c.Request().Context(), userID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return respondOK(c, http.StatusOK, stats)
}

// FetchStatsListRequest represents the query parameters for listing synced stats
type FetchStatsListRequest struct {
	MinFollowers *int    `query:"min_followers" validate:"omitempty,min=0"`
	SyncedAfter  *string `query:"synced_after" validate:"omitempty"`
	Page         int     `query:"page" validate:"required,min=1"`
	PerPage      int     `query:"per_page" validate:"required,min=1,max=100"`
}

func (h *StatsHandler) FetchStatsList(c echo.Context) error {
	var request FetchStatsListRequest
	if err := c.Bind(&request); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_query", "invalid query parameters")
	}

	if err := h.validator.Struct(request); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_query", err.Error())
	}

	filter := models.StatsFilter{
		MinFollowers: request.MinFollowers,
	}
	if request.SyncedAfter != nil {
		syncedAfter, err := time.Parse(time.RFC3339, *request.SyncedAfter)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid_query", "synced_after must be RFC3339")
		}
		filter.SyncedAfter = &syncedAfter
	}

	page, err := h.service.ListStats(c.Request().Context(), filter, request.Page, request.PerPage)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, PaginatedResponse{
		Data:       page.Data,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PerPage:    page.PerPage,
	})
}

// PaginatedResponse represents a paginated response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
}
