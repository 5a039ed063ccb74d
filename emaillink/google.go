package emaillink

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/flyodesk/agency-console/internal/config"
)

const googleIssuer = "https://accounts.google.com"

// GoogleTokens is the outcome of a client-side Google code exchange. Email is
// taken from the verified id_token and identifies the mailbox being linked.
type GoogleTokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	Email        string
}

// GoogleExchanger exchanges an authorization code against Google's token
// endpoint. It is an interface so the flow service can be tested without
// touching the network.
type GoogleExchanger interface {
	Exchange(ctx context.Context, code string) (GoogleTokens, error)
}

type googleExchanger struct {
	conf     *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleExchanger resolves Google's OIDC discovery document and returns a
// production exchanger. The exchange uses the configured client secret
// directly with no PKCE, matching how the console has always talked to
// Google's token endpoint.
func NewGoogleExchanger(ctx context.Context, creds config.ProviderCredentials) (GoogleExchanger, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewGoogleExchanger] resolve Google OIDC provider")
	}
	return &googleExchanger{
		conf:     googleOAuthConfig(creds),
		verifier: provider.Verifier(&oidc.Config{ClientID: creds.ClientID}),
	}, nil
}

func (g *googleExchanger) Exchange(ctx context.Context, code string) (GoogleTokens, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return GoogleTokens{}, errors.Wrap(err, "[Exchange] google token exchange")
	}

	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		return GoogleTokens{}, errors.New("[Exchange] no id_token in Google response")
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return GoogleTokens{}, errors.Wrap(err, "[Exchange] id_token verification")
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return GoogleTokens{}, errors.Wrap(err, "[Exchange] extract id_token claims")
	}

	return GoogleTokens{
		AccessToken:  tok.AccessToken,
		IDToken:      rawIDToken,
		RefreshToken: tok.RefreshToken,
		Email:        claims.Email,
	}, nil
}
