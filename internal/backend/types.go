package backend

import (
	"encoding/json"
	"time"
)

// IntegrationStatus is the backend-owned connection status.
type IntegrationStatus string

const (
	StatusConnected    IntegrationStatus = "connected"
	StatusDisconnected IntegrationStatus = "disconnected"
	StatusSyncing      IntegrationStatus = "syncing"
	StatusError        IntegrationStatus = "error"
)

// Provider is one catalog entry as served by the backend.
type Provider struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Capabilities    []string `json:"capabilities"`
	SetupComplexity string   `json:"setup_complexity"`
	DataTypes       []string `json:"data_types"`
}

// Integration is the durable connection record. The backend owns it; this
// process only ever holds read-only copies.
type Integration struct {
	ID               string            `json:"id"`
	Provider         string            `json:"provider"`
	Name             string            `json:"name"`
	Status           IntegrationStatus `json:"status"`
	LastSync         *time.Time        `json:"last_sync,omitempty"`
	DataPointsSynced int64             `json:"data_points_synced"`
	HealthScore      int               `json:"health_score"`
}

// TestResult is the outcome of one credential test. The backend reports
// permission flags as loose top-level booleans alongside valid/error, so
// decoding collects them into PermissionFlags.
type TestResult struct {
	Valid           bool
	Error           string
	PermissionFlags map[string]bool
}

// UnmarshalJSON collects unknown boolean fields into PermissionFlags.
func (r *TestResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := TestResult{PermissionFlags: make(map[string]bool)}
	for key, value := range raw {
		switch key {
		case "valid":
			if err := json.Unmarshal(value, &out.Valid); err != nil {
				return err
			}
		case "error":
			// The backend sends null when there is no error.
			var s *string
			if err := json.Unmarshal(value, &s); err != nil {
				return err
			}
			if s != nil {
				out.Error = *s
			}
		default:
			var b bool
			if err := json.Unmarshal(value, &b); err == nil {
				out.PermissionFlags[key] = b
			}
		}
	}
	*r = out
	return nil
}

// SaveResult is the saved Integration plus any permission flags the save
// endpoint reports alongside it.
type SaveResult struct {
	Integration     Integration
	PermissionFlags map[string]bool
}

// UnmarshalJSON splits the integration record from the loose permission booleans.
func (r *SaveResult) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.Integration); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.PermissionFlags = make(map[string]bool)
	for key, value := range raw {
		switch key {
		case "id", "provider", "name", "status", "last_sync", "data_points_synced", "health_score":
			continue
		}
		var b bool
		if err := json.Unmarshal(value, &b); err == nil {
			r.PermissionFlags[key] = b
		}
	}
	return nil
}

// ProbeResult is the outcome of the optional analytics-events capability probe.
type ProbeResult struct {
	Events         int64    `json:"events"`
	RealTimeEvents int64    `json:"real_time_events"`
	Conversions    int64    `json:"conversions"`
	Errors         []string `json:"errors"`
}

// DataPointsStats is the authoritative data-point count read.
type DataPointsStats struct {
	TotalDataPoints        int64            `json:"total_data_points"`
	BreakdownByIntegration map[string]int64 `json:"breakdown_by_integration"`
}

// ConnectRequest is the normalized body shared by the test-credentials and
// save endpoints. Credential field names are provider-specific and produced
// by the provider adapters.
type ConnectRequest struct {
	IntegrationName string            `json:"integrationName"`
	Credentials     map[string]string `json:"credentials"`
}

// ProbeRequest is the body for the analytics-events probe endpoint.
type ProbeRequest struct {
	Credentials map[string]string `json:"credentials"`
	PropertyID  string            `json:"property_id"`
}
