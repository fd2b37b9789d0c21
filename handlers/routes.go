package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/padraicbc/keibadb/middleware"
)

// Register mounts the public and the JWT protected routes on e.
func (h *Handler) Register(e *echo.Echo) {
	// Public
	e.GET("/healthz", h.Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/api/signin", h.Signin)

	// Protected routes require a valid JWT in the Authorization header.
	api := e.Group("/api", mw.JWT(h.JWTKey))
	api.GET("/races", h.Races)
	api.GET("/races/:id", h.Race)
	api.DELETE("/races/:id", h.DeleteRace)
	api.GET("/horses/:id/history", h.HorseHistory)
	api.GET("/horses/:id/relations", h.HorseRelations)
	api.GET("/stats", h.Stats)
	api.POST("/password-hash", h.PasswordHash)
}
