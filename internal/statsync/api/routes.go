package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/devpage/statsync/internal/statsync"
	"github.com/devpage/statsync/internal/statsync/api/handlers"
)

func SetupRoutes(service *statsync.Service, e *echo.Echo) *echo.Echo {

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: true,
	}))

	syncHandler := handlers.NewSyncHandler(service)
	e.POST("/sync", syncHandler.TriggerSync)
	e.GET("/sync", syncHandler.FetchOwnStats)

	statsHandler := handlers.NewStatsHandler(service)
	e.GET("/stats", statsHandler.FetchStatsList)
	e.GET("/stats/:user_id", statsHandler.FetchUserStats)

	connHandler := handlers.NewConnectionHandler(service)
	e.POST("/connections", connHandler.LinkAccount)
	e.GET("/connections", connHandler.FetchConnections)
	e.DELETE("/connections/:provider", connHandler.UnlinkAccount)

	return e
}
