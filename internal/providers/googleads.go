package providers

import "strings"

// GoogleAds connects a Google Ads customer account via an OAuth refresh
// token and a developer token.
type GoogleAds struct{}

func (GoogleAds) Kind() string                     { return "google_ads" }
func (GoogleAds) DisplayName() string              { return "Google Ads" }
func (GoogleAds) Category() Category               { return CategoryAdIntelligence }
func (GoogleAds) SetupComplexity() SetupComplexity { return SetupAdvanced }

func (GoogleAds) Capabilities() []string {
	return []string{"campaigns", "insights", "keywords"}
}

func (GoogleAds) DataTypes() []string {
	return []string{"ad_spend", "impressions", "clicks", "search_terms"}
}

func (GoogleAds) ValidateCredentials(creds CredentialSet) *Rejection {
	creds = creds.Normalized()
	if r := checkSecret("refresh token", creds.AccessToken, MinBearerSecretLength); r != nil {
		return r
	}
	// Developer tokens are short fixed-length keys; no length heuristic.
	if r := checkSecret("developer token", creds.APIKey, 0); r != nil {
		return r
	}
	if r := checkIdentifier("customer ID", creds.CustomerID); r != nil {
		return r
	}
	return nil
}

func (GoogleAds) CredentialFields(creds CredentialSet) map[string]string {
	creds = creds.Normalized()
	return map[string]string{
		"refresh_token":   creds.AccessToken,
		"developer_token": creds.APIKey,
		"customer_id":     strings.ReplaceAll(creds.CustomerID, "-", ""),
	}
}

func (GoogleAds) ProbeProperty(CredentialSet) (string, bool) { return "", false }
