package emaillink

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"

	"github.com/flyodesk/agency-console/internal/config"
	apperrors "github.com/flyodesk/agency-console/internal/errors"
)

// Provider identifies which mailbox provider a linking flow targets.
type Provider string

const (
	ProviderGmail   Provider = "gmail"
	ProviderOutlook Provider = "outlook"
)

func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGmail:
		return ProviderGmail, nil
	case ProviderOutlook:
		return ProviderOutlook, nil
	default:
		return "", apperrors.ErrUnknownProvider
	}
}

var googleScopes = []string{
	"openid",
	"email",
	"https://mail.google.com/",
}

var microsoftScopes = []string{
	"openid",
	"email",
	"offline_access",
	"https://graph.microsoft.com/Mail.ReadWrite",
	"https://graph.microsoft.com/Mail.Send",
}

func googleOAuthConfig(creds config.ProviderCredentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       googleScopes,
	}
}

func microsoftOAuthConfig(creds config.ProviderCredentials, tenant string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Endpoint:     microsoft.AzureADEndpoint(tenant),
		Scopes:       microsoftScopes,
	}
}

// consentURL builds the provider's authorization URL. Google needs
// access_type=offline together with prompt=consent to force refresh-token
// issuance on repeat links; Microsoft only needs the consent prompt.
func consentURL(provider Provider, creds config.ProviderCredentials, tenant, state string) string {
	switch provider {
	case ProviderGmail:
		return googleOAuthConfig(creds).AuthCodeURL(state,
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "consent"),
		)
	default:
		return microsoftOAuthConfig(creds, tenant).AuthCodeURL(state,
			oauth2.SetAuthURLParam("prompt", "consent"),
		)
	}
}
