package config

// ProviderCredentials holds one OAuth provider's client configuration. Values
// are read straight from the environment; empty strings mean the provider is
// not configured and linking must be refused before any redirect happens.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Configured reports whether every required value is a non-empty string. A key
// that is set but empty counts as misconfiguration, same as an unset one.
func (c ProviderCredentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}

type ProviderConfig interface {
	GetGoogleCredentials() ProviderCredentials
	GetMicrosoftCredentials() ProviderCredentials
	GetMicrosoftTenant() string
}

type Providers struct{}

var _ ProviderConfig = Providers{}

func (Providers) GetGoogleCredentials() ProviderCredentials {
	return ProviderCredentials{
		ClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURI:  GetEnv("GOOGLE_REDIRECT_URI", ""),
	}
}

func (Providers) GetMicrosoftCredentials() ProviderCredentials {
	return ProviderCredentials{
		ClientID:     GetEnv("MICROSOFT_CLIENT_ID", ""),
		ClientSecret: GetEnv("MICROSOFT_CLIENT_SECRET", ""),
		RedirectURI:  GetEnv("MICROSOFT_REDIRECT_URI", ""),
	}
}

func (Providers) GetMicrosoftTenant() string {
	return GetEnv("MICROSOFT_TENANT", "common")
}
