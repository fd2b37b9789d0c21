package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HorseHistory returns every stored result of a horse, newest race first.
func (h *Handler) HorseHistory(c echo.Context) error {
	history, err := h.store.HorseHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, history)
}

// HorseRelations returns the pedigree edges that touch a horse.
func (h *Handler) HorseRelations(c echo.Context) error {
	rels, err := h.store.Relations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rels)
}

// Stats reports row counts and the latest stored race.
func (h *Handler) Stats(c echo.Context) error {
	st, err := h.store.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

// Healthz pings the database.
func (h *Handler) Healthz(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
