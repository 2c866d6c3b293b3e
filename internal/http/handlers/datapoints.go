package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"
)

// HandleDataPoints returns the best available data-point stats. The
// source field tells callers whether the counts are confirmed or derived
// from an estimate tier.
func (h *Handlers) HandleDataPoints(c *echo.Context) error {
	return c.JSON(http.StatusOK, h.Orch.DataPoints())
}
