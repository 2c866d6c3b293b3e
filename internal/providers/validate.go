package providers

import (
	"fmt"
	"strings"
)

// MinBearerSecretLength is the heuristic floor for bearer-token-style
// credentials. Real platform tokens are long; anything shorter is almost
// certainly a typo or a test string, and rejecting it locally avoids
// burning API quota on the provider side.
const MinBearerSecretLength = 50

var placeholderValues = []string{
	"test",
	"test_token",
	"test_key",
	"your_token_here",
	"your_api_key_here",
	"changeme",
	"xxx",
}

// IsPlaceholder reports whether the value is a well-known placeholder string.
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, p := range placeholderValues {
		if v == p {
			return true
		}
	}
	return false
}

// checkSecret runs the shared fail-fast checks for a secret field. minLen
// of zero skips the length check (for short identifier-style keys).
func checkSecret(field, value string, minLen int) *Rejection {
	v := strings.TrimSpace(value)
	if v == "" {
		return &Rejection{
			Field:   field,
			Reason:  RejectEmpty,
			Message: fmt.Sprintf("%s is required", field),
		}
	}
	if IsPlaceholder(v) {
		return &Rejection{
			Field:   field,
			Reason:  RejectPlaceholder,
			Message: fmt.Sprintf("%s looks like a placeholder value; paste the real credential", field),
		}
	}
	if minLen > 0 && len(v) < minLen {
		return &Rejection{
			Field:   field,
			Reason:  RejectTooShort,
			Message: fmt.Sprintf("%s is too short to be a real credential (got %d characters, expected at least %d)", field, len(v), minLen),
		}
	}
	return nil
}

// checkIdentifier validates a required non-secret identifier field.
func checkIdentifier(field, value string) *Rejection {
	v := strings.TrimSpace(value)
	if v == "" {
		return &Rejection{
			Field:   field,
			Reason:  RejectEmpty,
			Message: fmt.Sprintf("%s is required", field),
		}
	}
	if IsPlaceholder(v) {
		return &Rejection{
			Field:   field,
			Reason:  RejectPlaceholder,
			Message: fmt.Sprintf("%s looks like a placeholder value", field),
		}
	}
	return nil
}
