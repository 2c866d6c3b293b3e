package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"
)

// HandleListProviders returns the provider catalog, optionally filtered
// by the category query parameter.
func (h *Handlers) HandleListProviders(c *echo.Context) error {
	list, err := h.Orch.ListProviders(c.Request().Context(), h.Session(c), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"providers": list})
}
