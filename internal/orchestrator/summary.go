package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/providers"
)

// PermissionLevel classifies how much of a provider's capability surface
// the supplied credentials unlock.
type PermissionLevel string

const (
	PermissionFull     PermissionLevel = "full"
	PermissionBusiness PermissionLevel = "business"
	PermissionLimited  PermissionLevel = "limited"
)

// NextSteps groups operator guidance by urgency.
type NextSteps struct {
	Immediate   []string `json:"immediate"`
	Recommended []string `json:"recommended"`
	Advanced    []string `json:"advanced"`
}

// ConnectionSummary is the one-shot outcome of a connect flow. It is built
// once per successful save and not persisted.
type ConnectionSummary struct {
	Integration     backend.Integration  `json:"integration"`
	PermissionLevel PermissionLevel      `json:"permission_level"`
	Capabilities    []string             `json:"capabilities"`
	Limitations     []string             `json:"limitations"`
	NextSteps       NextSteps            `json:"next_steps"`
	AnalyticsTest   *backend.ProbeResult `json:"analytics_test,omitempty"`
}

const stepViewSyncedData = "View synced data once the first sync completes"

// BuildSummary classifies a finished connect flow. It is a pure function
// of the test, save, and probe outcomes.
func BuildSummary(def providers.Definition, test backend.TestResult, save backend.SaveResult, probe *backend.ProbeResult, probeErr error) ConnectionSummary {
	missing := missingPermissions(test.PermissionFlags, save.PermissionFlags)

	limitations := make([]string, 0, len(missing)+2)
	for _, flag := range missing {
		limitations = append(limitations, fmt.Sprintf("credentials authenticate but lack the %s permission", humanizeFlag(flag)))
	}
	if probeErr != nil {
		limitations = append(limitations, "analytics events access could not be verified: "+probeErr.Error())
	}
	if probe != nil {
		for _, msg := range probe.Errors {
			if msg = strings.TrimSpace(msg); msg != "" {
				limitations = append(limitations, "analytics events: "+msg)
			}
		}
	}

	level := PermissionLimited
	switch {
	case len(limitations) == 0:
		level = PermissionFull
	case def.Category() == providers.CategoryCustomerIntelligence && test.Valid && len(missing) == 1:
		// A CRM connection that reads core records but lacks one advanced
		// capability still covers the business-level surface.
		level = PermissionBusiness
	}

	summary := ConnectionSummary{
		Integration:     save.Integration,
		PermissionLevel: level,
		Capabilities:    grantedCapabilities(def, missing),
		Limitations:     limitations,
		NextSteps: NextSteps{
			Immediate: []string{stepViewSyncedData},
		},
		AnalyticsTest: probe,
	}

	if len(limitations) > 0 {
		summary.NextSteps.Recommended = []string{
			fmt.Sprintf("Re-authorize %s with a credential that grants the missing permissions", def.DisplayName()),
		}
		summary.NextSteps.Advanced = []string{
			fmt.Sprintf("Create a dedicated system credential scoped to all %s capabilities and reconnect", def.DisplayName()),
		}
	}
	return summary
}

// missingPermissions returns the union of flags reported false by the test
// and save steps, sorted for stable output.
func missingPermissions(sets ...map[string]bool) []string {
	seen := make(map[string]struct{})
	for _, set := range sets {
		for flag, granted := range set {
			if !granted {
				seen[flag] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for flag := range seen {
		out = append(out, flag)
	}
	sort.Strings(out)
	return out
}

func grantedCapabilities(def providers.Definition, missing []string) []string {
	blocked := make(map[string]struct{}, len(missing))
	for _, flag := range missing {
		blocked[normalizeFlag(flag)] = struct{}{}
	}
	caps := def.Capabilities()
	out := make([]string, 0, len(caps))
	for _, capability := range caps {
		if _, ok := blocked[normalizeFlag(capability)]; ok {
			continue
		}
		out = append(out, capability)
	}
	return out
}

func normalizeFlag(flag string) string {
	flag = strings.ToLower(strings.TrimSpace(flag))
	flag = strings.TrimSuffix(flag, "_access")
	flag = strings.TrimSuffix(flag, "_read")
	return flag
}

func humanizeFlag(flag string) string {
	return strings.ReplaceAll(strings.TrimSpace(flag), "_", " ")
}
