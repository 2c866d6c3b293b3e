package providers

// GoHighLevel connects a GoHighLevel CRM location via an agency or
// location API key.
type GoHighLevel struct{}

func (GoHighLevel) Kind() string                     { return "gohighlevel" }
func (GoHighLevel) DisplayName() string              { return "GoHighLevel" }
func (GoHighLevel) Category() Category               { return CategoryCustomerIntelligence }
func (GoHighLevel) SetupComplexity() SetupComplexity { return SetupSimple }

func (GoHighLevel) Capabilities() []string {
	return []string{"contacts", "pipelines", "appointments", "attribution"}
}

func (GoHighLevel) DataTypes() []string {
	return []string{"contacts", "opportunities", "appointments"}
}

func (GoHighLevel) ValidateCredentials(creds CredentialSet) *Rejection {
	creds = creds.Normalized()
	if r := checkSecret("API key", creds.APIKey, MinBearerSecretLength); r != nil {
		return r
	}
	if r := checkIdentifier("location ID", creds.LocationID); r != nil {
		return r
	}
	return nil
}

func (GoHighLevel) CredentialFields(creds CredentialSet) map[string]string {
	creds = creds.Normalized()
	return map[string]string{
		"api_key":     creds.APIKey,
		"location_id": creds.LocationID,
	}
}

func (GoHighLevel) ProbeProperty(CredentialSet) (string, bool) { return "", false }
