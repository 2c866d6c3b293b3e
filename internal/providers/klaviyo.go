package providers

// Klaviyo connects a Klaviyo account via a private API key.
type Klaviyo struct{}

func (Klaviyo) Kind() string                     { return "klaviyo" }
func (Klaviyo) DisplayName() string              { return "Klaviyo" }
func (Klaviyo) Category() Category               { return CategoryBehaviorIntelligence }
func (Klaviyo) SetupComplexity() SetupComplexity { return SetupSimple }

func (Klaviyo) Capabilities() []string {
	return []string{"events", "flows", "campaigns", "segments"}
}

func (Klaviyo) DataTypes() []string {
	return []string{"email_events", "sms_events", "revenue"}
}

func (Klaviyo) ValidateCredentials(creds CredentialSet) *Rejection {
	creds = creds.Normalized()
	// Klaviyo private keys are "pk_"-prefixed and shorter than bearer tokens.
	return checkSecret("private API key", creds.APIKey, 30)
}

func (Klaviyo) CredentialFields(creds CredentialSet) map[string]string {
	return map[string]string{
		"api_key": creds.Normalized().APIKey,
	}
}

func (Klaviyo) ProbeProperty(CredentialSet) (string, bool) { return "", false }
