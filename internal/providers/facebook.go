package providers

import "strings"

// FacebookAds connects a Meta ad account via a long-lived system-user token.
// The optional pixel ID additionally unlocks the analytics-events probe
// against the Conversions API surface.
type FacebookAds struct{}

func (FacebookAds) Kind() string                     { return "facebook_ads" }
func (FacebookAds) DisplayName() string              { return "Facebook Ads" }
func (FacebookAds) Category() Category               { return CategoryAdIntelligence }
func (FacebookAds) SetupComplexity() SetupComplexity { return SetupModerate }

func (FacebookAds) Capabilities() []string {
	return []string{"campaigns", "insights", "audiences", "conversions"}
}

func (FacebookAds) DataTypes() []string {
	return []string{"ad_spend", "impressions", "clicks", "conversions"}
}

func (FacebookAds) ValidateCredentials(creds CredentialSet) *Rejection {
	creds = creds.Normalized()
	if r := checkSecret("access token", creds.AccessToken, MinBearerSecretLength); r != nil {
		return r
	}
	if r := checkIdentifier("ad account ID", creds.AccountID); r != nil {
		return r
	}
	// Pixel ID is optional; when present it must at least not be a placeholder.
	if creds.PixelID != "" && IsPlaceholder(creds.PixelID) {
		return &Rejection{Field: "pixel ID", Reason: RejectPlaceholder, Message: "pixel ID looks like a placeholder value"}
	}
	return nil
}

func (FacebookAds) CredentialFields(creds CredentialSet) map[string]string {
	creds = creds.Normalized()
	fields := map[string]string{
		"access_token": creds.AccessToken,
		"ad_account_id": func() string {
			id := creds.AccountID
			if id != "" && !strings.HasPrefix(id, "act_") {
				id = "act_" + id
			}
			return id
		}(),
	}
	if creds.PixelID != "" {
		fields["pixel_id"] = creds.PixelID
	}
	return fields
}

func (FacebookAds) ProbeProperty(creds CredentialSet) (string, bool) {
	return creds.Normalized().PixelID, true
}
