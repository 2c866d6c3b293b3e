package providers

import "strings"

// CredentialSet carries the user-entered secrets for one connect attempt.
// It lives only for the duration of the attempt and must never be persisted
// or logged; use Redacted for anything operator-facing.
type CredentialSet struct {
	AccessToken string `json:"access_token,omitempty"`
	APIKey      string `json:"api_key,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	PixelID     string `json:"pixel_id,omitempty"`
	LocationID  string `json:"location_id,omitempty"`
	PropertyID  string `json:"property_id,omitempty"`
	CustomerID  string `json:"customer_id,omitempty"`
}

// Normalized trims surrounding whitespace from every field.
func (c CredentialSet) Normalized() CredentialSet {
	out := c
	out.AccessToken = strings.TrimSpace(out.AccessToken)
	out.APIKey = strings.TrimSpace(out.APIKey)
	out.AccountID = strings.TrimSpace(out.AccountID)
	out.PixelID = strings.TrimSpace(out.PixelID)
	out.LocationID = strings.TrimSpace(out.LocationID)
	out.PropertyID = strings.TrimSpace(out.PropertyID)
	out.CustomerID = strings.TrimSpace(out.CustomerID)
	return out
}

// AccountKey is the account-identifying value used by the backend to keep
// repeated saves idempotent. Which field identifies the account varies by
// provider; the first non-empty identifier wins.
func (c CredentialSet) AccountKey() string {
	c = c.Normalized()
	for _, v := range []string{c.AccountID, c.CustomerID, c.LocationID, c.PixelID} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Redacted returns a copy safe for logs and summaries.
func (c CredentialSet) Redacted() CredentialSet {
	out := c.Normalized()
	out.AccessToken = MaskSecret(out.AccessToken)
	out.APIKey = MaskSecret(out.APIKey)
	return out
}

// MaskSecret hides all but the last four characters of a secret, keeping a
// short recognizable prefix when the secret is prefixed (e.g. "EAAB...").
func MaskSecret(secret string) string {
	s := strings.TrimSpace(secret)
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	tail := s[len(s)-4:]
	prefix := ""
	if idx := strings.Index(s, "_"); idx > 0 && idx <= 6 {
		prefix = s[:idx+1]
	}
	return prefix + "****" + tail
}
