package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/adbridge/adbridge/internal/apperrors"
	"github.com/adbridge/adbridge/internal/providers"
)

type connectPayload struct {
	Name        string                  `json:"name"`
	Credentials providers.CredentialSet `json:"credentials"`
}

// HandleListIntegrations returns the cached integration list.
func (h *Handlers) HandleListIntegrations(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"integrations": h.Orch.Integrations()})
}

// HandleConnect runs a full connect flow for the provider in the path and
// returns the resulting connection summary.
func (h *Handlers) HandleConnect(c *echo.Context) error {
	var payload connectPayload
	if err := c.Bind(&payload); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, apperrors.StepTesting, "invalid request body", err)
	}
	summary, err := h.Orch.Connect(c.Request().Context(), h.Session(c), c.Param("provider"), payload.Credentials, payload.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, summary)
}

// HandleDisconnect removes the integration in the path.
func (h *Handlers) HandleDisconnect(c *echo.Context) error {
	if err := h.Orch.Disconnect(c.Request().Context(), h.Session(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
