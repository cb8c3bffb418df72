package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/devpage/statsync/internal/statsync"
)

type ConnectionHandler struct {
	service   *statsync.Service
	validator *validator.Validate
}

func NewConnectionHandler(service *statsync.Service) *ConnectionHandler {
	return &ConnectionHandler{
		service:   service,
		validator: validator.New(),
	}
}

// LinkAccountRequest represents the request body for linking a provider account
type LinkAccountRequest struct {
	Provider    string `json:"provider" validate:"required,oneof=github"`
	AccessToken string `json:"access_token" validate:"required"`
}

func (h *ConnectionHandler) LinkAccount(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized", "missing user identity")
	}

	var request LinkAccountRequest
	if err := c.Bind(&request); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_body", "invalid request body")
	}

	if err := h.validator.Struct(request); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_body", err.Error())
	}

	conn, err := h.service.LinkAccount(c.Request().Context(), userID, request.Provider, request.AccessToken)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusCreated, conn)
}

func (h *ConnectionHandler) FetchConnections(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized", "missing user identity")
	}

	conns, err := h.service.Connections(c.Request().Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, conns)
}

func (h *ConnectionHandler) UnlinkAccount(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized", "missing user identity")
	}

	if err := h.service.UnlinkAccount(c.Request().Context(), userID, c.Param("provider")); err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, nil)
}
