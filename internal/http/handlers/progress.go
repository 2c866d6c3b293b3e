package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/sync"
)

const statusIdle = "idle"

type progressEntry struct {
	IntegrationID string         `json:"integration_id"`
	Provider      string         `json:"provider,omitempty"`
	Name          string         `json:"name,omitempty"`
	Status        string         `json:"status"`
	Progress      *sync.Progress `json:"progress,omitempty"`
}

func progressEntryFor(integration backend.Integration, p sync.Progress, known bool) progressEntry {
	entry := progressEntry{
		IntegrationID: integration.ID,
		Provider:      integration.Provider,
		Name:          integration.Name,
		Status:        statusIdle,
	}
	if known {
		entry.Status = string(p.OverallStatus)
		entry.Progress = &p
	}
	return entry
}

// HandleIntegrationProgress returns the last-known sync progress for one
// integration. An integration without an observed sync reports idle.
func (h *Handlers) HandleIntegrationProgress(c *echo.Context) error {
	id := c.Param("id")
	for _, integration := range h.Orch.Integrations() {
		if integration.ID != id {
			continue
		}
		p, known := h.Orch.Progress(id)
		return c.JSON(http.StatusOK, progressEntryFor(integration, p, known))
	}
	return echo.ErrNotFound
}

// HandleSyncProgress returns the last-known progress for every cached
// integration in one response.
func (h *Handlers) HandleSyncProgress(c *echo.Context) error {
	integrations := h.Orch.Integrations()
	entries := make([]progressEntry, 0, len(integrations))
	for _, integration := range integrations {
		p, known := h.Orch.Progress(integration.ID)
		entries = append(entries, progressEntryFor(integration, p, known))
	}
	return c.JSON(http.StatusOK, map[string]any{"syncs": entries})
}
