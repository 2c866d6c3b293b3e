// Package providers holds the per-provider adapters the connect flow
// dispatches over. Providers differ in field sets, endpoints, and payload
// shapes, not behavior, so each adapter is a data-driven definition rather
// than a subclass hierarchy.
package providers

// Category is the fixed provider taxonomy.
type Category string

const (
	CategoryAdIntelligence       Category = "ad-intelligence"
	CategoryCustomerIntelligence Category = "customer-intelligence"
	CategoryBehaviorIntelligence Category = "behavior-intelligence"
)

// SetupComplexity rates how involved connecting a provider is.
type SetupComplexity string

const (
	SetupSimple   SetupComplexity = "simple"
	SetupModerate SetupComplexity = "moderate"
	SetupAdvanced SetupComplexity = "advanced"
)

// Definition describes one connectable provider: its catalog metadata and
// how to shape credentials for the backend's test and save endpoints.
type Definition interface {
	// Identity
	Kind() string        // stable slug, e.g. "facebook_ads"
	DisplayName() string // e.g. "Facebook Ads"
	Category() Category
	SetupComplexity() SetupComplexity
	Capabilities() []string
	DataTypes() []string

	// Fail-fast credential checks, run before any network call.
	ValidateCredentials(creds CredentialSet) *Rejection

	// Payload shaping for the backend's test-credentials and save endpoints.
	// Both use the same normalized body; adapters own the field mapping.
	CredentialFields(creds CredentialSet) map[string]string

	// ProbeProperty returns the optional property identifier that gates the
	// secondary analytics-events probe, and whether the provider supports
	// probing at all. An empty identifier on a probe-capable provider means
	// the operator skipped the optional field and no probe runs.
	ProbeProperty(creds CredentialSet) (string, bool)
}

// Rejection is a failed client-side pre-check. Reason is a stable token
// used for metrics; Message is operator-facing.
type Rejection struct {
	Field   string
	Reason  string
	Message string
}

const (
	RejectEmpty       = "empty_field"
	RejectTooShort    = "too_short"
	RejectPlaceholder = "placeholder"
)
