package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/storage"
)

func dateParam(c echo.Context, name string) (string, error) {
	d := c.QueryParam(name)
	if d == "" {
		return "", nil
	}
	if _, err := time.Parse(time.DateOnly, d); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, name+" must be YYYY-MM-DD")
	}
	return d, nil
}

// Races lists stored races newest first, filtered by from/to date and grade.
func (h *Handler) Races(c echo.Context) error {
	var (
		f   storage.RaceFilter
		err error
	)
	if f.From, err = dateParam(c, "from"); err != nil {
		return err
	}
	if f.To, err = dateParam(c, "to"); err != nil {
		return err
	}
	if g := c.QueryParam("grade"); g != "" {
		grade := models.Grade(g)
		f.Grade = &grade
	}
	if l := c.QueryParam("limit"); l != "" {
		if f.Limit, err = strconv.Atoi(l); err != nil || f.Limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive number")
		}
	}

	races, err := h.store.Races(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, races)
}

// Race returns one race with its results and payouts.
func (h *Handler) Race(c echo.Context) error {
	card, err := h.store.Race(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "race not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, card)
}

// DeleteRace removes a race with its results and payouts so it can be
// scraped again. Admin users only.
func (h *Handler) DeleteRace(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	if err := h.store.DeleteRace(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "race not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
