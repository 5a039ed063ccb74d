package emaillink_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flyodesk/agency-console/coreapi"
	"github.com/flyodesk/agency-console/emaillink"
	"github.com/flyodesk/agency-console/emaillink/flowstate"
	"github.com/flyodesk/agency-console/internal/config"
	apperrors "github.com/flyodesk/agency-console/internal/errors"
)

type fakeConfig struct {
	google    config.ProviderCredentials
	microsoft config.ProviderCredentials
}

func (c fakeConfig) GetGoogleCredentials() config.ProviderCredentials    { return c.google }
func (c fakeConfig) GetMicrosoftCredentials() config.ProviderCredentials { return c.microsoft }
func (c fakeConfig) GetMicrosoftTenant() string                          { return "common" }
func (c fakeConfig) GetFlowStateTimeout() time.Duration                  { return 15 * time.Minute }

func configuredFake() fakeConfig {
	return fakeConfig{
		google:    config.ProviderCredentials{ClientID: "gid", ClientSecret: "gsecret", RedirectURI: "https://console.test/email/callback"},
		microsoft: config.ProviderCredentials{ClientID: "mid", ClientSecret: "msecret", RedirectURI: "https://console.test/email/callback"},
	}
}

type fakeLinker struct {
	calls  []coreapi.AddEmailBoxRequest
	result coreapi.LinkedEmail
	err    error
}

func (l *fakeLinker) AddEmailBox(_ context.Context, _ string, req coreapi.AddEmailBoxRequest) (coreapi.LinkedEmail, error) {
	l.calls = append(l.calls, req)
	if l.err != nil {
		return coreapi.LinkedEmail{}, l.err
	}
	return l.result, nil
}

type fakeGoogle struct {
	tokens emaillink.GoogleTokens
	err    error
	calls  int
}

func (g *fakeGoogle) Exchange(context.Context, string) (emaillink.GoogleTokens, error) {
	g.calls++
	return g.tokens, g.err
}

func newService(t *testing.T, cfg emaillink.Config, linker *fakeLinker, google emaillink.GoogleExchanger, opts ...emaillink.ServiceOption) (*emaillink.Service, flowstate.Repo) {
	t.Helper()
	flows := flowstate.NewInMemoryRepo()
	svc, err := emaillink.NewService(cfg, flows, linker, google, opts...)
	require.NoError(t, err)
	return svc, flows
}

func beginFlow(t *testing.T, svc *emaillink.Service, flows flowstate.Repo, session string, provider emaillink.Provider) string {
	t.Helper()
	_, err := svc.Begin(context.Background(), session, provider)
	require.NoError(t, err)
	flow, err := flows.Get(context.Background(), session)
	require.NoError(t, err)
	return flow.State
}

func TestBegin_BuildsConsentURL(t *testing.T) {
	svc, flows := newService(t, configuredFake(), &fakeLinker{}, &fakeGoogle{})

	t.Run("gmail forces refresh token issuance", func(t *testing.T) {
		consent, err := svc.Begin(context.Background(), "sess-1", emaillink.ProviderGmail)
		require.NoError(t, err)

		u, err := url.Parse(consent)
		require.NoError(t, err)
		require.Equal(t, "accounts.google.com", u.Host)
		q := u.Query()
		require.Equal(t, "code", q.Get("response_type"))
		require.Equal(t, "offline", q.Get("access_type"))
		require.Equal(t, "consent", q.Get("prompt"))
		require.Equal(t, "gid", q.Get("client_id"))

		flow, err := flows.Get(context.Background(), "sess-1")
		require.NoError(t, err)
		require.Equal(t, q.Get("state"), flow.State)
		require.True(t, strings.HasPrefix(flow.State, "email-gmail-"))
		require.True(t, flow.AddingEmail)
		require.Equal(t, flowstate.StatusAwaitingCallback, flow.Status,
			"stored flow waits on the callback once the consent URL is handed back")
	})

	t.Run("outlook prompts for consent only", func(t *testing.T) {
		consent, err := svc.Begin(context.Background(), "sess-2", emaillink.ProviderOutlook)
		require.NoError(t, err)

		u, err := url.Parse(consent)
		require.NoError(t, err)
		require.Equal(t, "login.microsoftonline.com", u.Host)
		q := u.Query()
		require.Equal(t, "consent", q.Get("prompt"))
		require.Empty(t, q.Get("access_type"))
	})
}

func TestBegin_MisconfiguredProviderRefusesRedirect(t *testing.T) {
	cfg := configuredFake()
	cfg.google.ClientSecret = "" // set-but-empty counts as misconfigured
	svc, _ := newService(t, cfg, &fakeLinker{}, &fakeGoogle{})

	_, err := svc.Begin(context.Background(), "sess", emaillink.ProviderGmail)
	require.ErrorIs(t, err, apperrors.ErrProviderNotConfigured)
}

func TestHandleCallback_OutlookForwardsRawCode(t *testing.T) {
	linker := &fakeLinker{result: coreapi.LinkedEmail{Email: "ops@agency.test", Provider: "outlook"}}
	svc, flows := newService(t, configuredFake(), linker, &fakeGoogle{})
	state := beginFlow(t, svc, flows, "sess", emaillink.ProviderOutlook)

	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "the-code", state, "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeSuccess, res.Outcome)
	require.Equal(t, "ops@agency.test", res.Linked.Email)
	require.Equal(t, emaillink.SuccessRedirectDelay, res.RedirectDelay)

	require.Len(t, linker.calls, 1)
	require.Equal(t, "the-code", linker.calls[0].Code)
	require.Empty(t, linker.calls[0].RefreshToken, "backend owns the outlook exchange")
}

func TestHandleCallback_IsIdempotent(t *testing.T) {
	linker := &fakeLinker{result: coreapi.LinkedEmail{Email: "ops@agency.test", Provider: "outlook"}}
	svc, flows := newService(t, configuredFake(), linker, &fakeGoogle{})
	state := beginFlow(t, svc, flows, "sess", emaillink.ProviderOutlook)

	// Simulate the remount race: the flow is still marked processed when the
	// second invocation arrives.
	flow, err := flows.Get(context.Background(), "sess")
	require.NoError(t, err)
	flow.CallbackProcessed = true
	require.NoError(t, flows.Upsert(context.Background(), "sess", flow))

	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "the-code", state, "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeAlreadyProcessed, res.Outcome)
	require.Empty(t, linker.calls, "second invocation must not exchange the code again")

	// The guard also clears the context, so a third hit is not-linking.
	res, err = svc.HandleCallback(context.Background(), "sess", "agent-jwt", "the-code", state, "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeNotLinking, res.Outcome)
}

func TestHandleCallback_GmailRequiresRefreshToken(t *testing.T) {
	linker := &fakeLinker{}
	google := &fakeGoogle{tokens: emaillink.GoogleTokens{
		AccessToken: "at",
		IDToken:     "idt",
		// RefreshToken deliberately absent
	}}
	svc, flows := newService(t, configuredFake(), linker, google)
	state := beginFlow(t, svc, flows, "sess", emaillink.ProviderGmail)

	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "the-code", state, "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeError, res.Outcome)
	require.Contains(t, res.Message, "refresh token")
	require.Equal(t, emaillink.ErrorRedirectDelay, res.RedirectDelay)
	require.Empty(t, linker.calls, "backend must not be called without a refresh token")
}

func TestHandleCallback_GmailForwardsRefreshAndIDTokenOnly(t *testing.T) {
	linker := &fakeLinker{result: coreapi.LinkedEmail{Provider: "gmail"}}
	google := &fakeGoogle{tokens: emaillink.GoogleTokens{
		AccessToken:  "at",
		IDToken:      "idt",
		RefreshToken: "rt",
		Email:        "shared@agency.test",
	}}
	svc, flows := newService(t, configuredFake(), linker, google)
	state := beginFlow(t, svc, flows, "sess", emaillink.ProviderGmail)

	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "the-code", state, "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeSuccess, res.Outcome)
	require.Equal(t, "shared@agency.test", res.Linked.Email)

	require.Len(t, linker.calls, 1)
	req := linker.calls[0]
	require.Equal(t, "rt", req.RefreshToken)
	require.Equal(t, "idt", req.IDToken)
	require.Empty(t, req.Code, "the raw code never reaches the backend for gmail")
}

func TestHandleCallback_StateMismatch(t *testing.T) {
	linker := &fakeLinker{}
	svc, flows := newService(t, configuredFake(), linker, &fakeGoogle{})
	beginFlow(t, svc, flows, "sess", emaillink.ProviderOutlook)

	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "the-code", "email-outlook-0-forged", "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeError, res.Outcome)
	require.Contains(t, res.Message, "state mismatch")
	require.Empty(t, linker.calls)
}

func TestHandleCallback_ProviderErrorParam(t *testing.T) {
	svc, flows := newService(t, configuredFake(), &fakeLinker{}, &fakeGoogle{})
	state := beginFlow(t, svc, flows, "sess", emaillink.ProviderOutlook)

	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "", state, "access_denied")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeError, res.Outcome)
	require.Contains(t, res.Message, "access_denied")
}

func TestHandleCallback_UnauthenticatedDiscardsFlow(t *testing.T) {
	svc, flows := newService(t, configuredFake(), &fakeLinker{}, &fakeGoogle{})
	state := beginFlow(t, svc, flows, "sess", emaillink.ProviderOutlook)

	_, err := svc.HandleCallback(context.Background(), "sess", "", "the-code", state, "")
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = flows.Get(context.Background(), "sess")
	require.ErrorIs(t, err, apperrors.ErrFlowNotFound)
}

func TestHandleCallback_NoFlowIsSilent(t *testing.T) {
	svc, _ := newService(t, configuredFake(), &fakeLinker{}, &fakeGoogle{})

	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "code", "state", "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeNotLinking, res.Outcome)
}

func TestHandleCallback_ExpiredFlow(t *testing.T) {
	now := time.Now()
	linker := &fakeLinker{}
	flows := flowstate.NewInMemoryRepo()
	svc, err := emaillink.NewService(configuredFake(), flows, linker, &fakeGoogle{},
		emaillink.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	_, err = svc.Begin(context.Background(), "sess", emaillink.ProviderOutlook)
	require.NoError(t, err)
	flow, err := flows.Get(context.Background(), "sess")
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)
	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "code", flow.State, "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeError, res.Outcome)
	require.Contains(t, res.Message, "expired")
	require.Empty(t, linker.calls)
}

func TestHandleCallback_BackendRejectionSurfacesLiteralMessage(t *testing.T) {
	linker := &fakeLinker{err: &coreapi.APIError{StatusCode: 409, Message: "email box already linked"}}
	svc, flows := newService(t, configuredFake(), linker, &fakeGoogle{})
	state := beginFlow(t, svc, flows, "sess", emaillink.ProviderOutlook)

	res, err := svc.HandleCallback(context.Background(), "sess", "agent-jwt", "code", state, "")
	require.NoError(t, err)
	require.Equal(t, emaillink.OutcomeError, res.Outcome)
	require.Equal(t, "email box already linked", res.Message)
}
