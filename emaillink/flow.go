package emaillink

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flyodesk/agency-console/coreapi"
	"github.com/flyodesk/agency-console/emaillink/flowstate"
	"github.com/flyodesk/agency-console/internal/config"
	apperrors "github.com/flyodesk/agency-console/internal/errors"
)

// MailboxLinker is the slice of the core API the flow needs: the "add email
// box" endpoint. *coreapi.Client satisfies it.
type MailboxLinker interface {
	AddEmailBox(ctx context.Context, token string, req coreapi.AddEmailBoxRequest) (coreapi.LinkedEmail, error)
}

// Config is the slice of application configuration the flow needs. The main
// config.Config satisfies it.
type Config interface {
	config.ProviderConfig
	GetFlowStateTimeout() time.Duration
}

// Service drives the mailbox-linking state machine:
//
//	idle -> redirecting -> awaiting_callback -> exchanging_tokens -> success|error
//
// Everything between Begin and HandleCallback crosses a full browser redirect
// to an external origin, so the whole context is serialized into the flow
// store and nothing is kept in memory.
type Service struct {
	cfg     Config
	flows   flowstate.Repo
	linker  MailboxLinker
	google  GoogleExchanger
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(cfg Config, flows flowstate.Repo, linker MailboxLinker, google GoogleExchanger, options ...ServiceOption) (*Service, error) {
	if flows == nil {
		return nil, fmt.Errorf("[NewService] flow repo is required")
	}
	if linker == nil {
		return nil, fmt.Errorf("[NewService] mailbox linker is required")
	}
	s := &Service{
		cfg:     cfg,
		flows:   flows,
		linker:  linker,
		google:  google,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Begin starts a linking flow for the given browser session and returns the
// provider consent URL to redirect to. Configuration is checked for non-empty
// values first: a client ID that is set but empty is misconfiguration, and no
// redirect happens.
func (s *Service) Begin(ctx context.Context, sessionID string, provider Provider) (string, error) {
	creds, err := s.credentials(provider)
	if err != nil {
		return "", err
	}

	state := newStateToken(provider, s.nowTime())
	flow := &flowstate.FlowContext{
		SessionID:   sessionID,
		Provider:    string(provider),
		State:       state,
		AddingEmail: true,
		Status:      flowstate.StatusRedirecting,
		CreatedAt:   s.nowTime(),
	}
	if err := s.flows.Upsert(ctx, sessionID, flow); err != nil {
		return "", fmt.Errorf("[Begin] store flow context: %w", err)
	}

	consent := consentURL(provider, creds, s.cfg.GetMicrosoftTenant(), state)

	// Each edge is persisted: once the consent URL is handed back, the next
	// event for this flow is the provider callback.
	flow.Status = flowstate.StatusAwaitingCallback
	if err := s.flows.Upsert(ctx, sessionID, flow); err != nil {
		return "", fmt.Errorf("[Begin] advance flow status: %w", err)
	}

	return consent, nil
}

func (s *Service) credentials(provider Provider) (config.ProviderCredentials, error) {
	var creds config.ProviderCredentials
	switch provider {
	case ProviderGmail:
		creds = s.cfg.GetGoogleCredentials()
	case ProviderOutlook:
		creds = s.cfg.GetMicrosoftCredentials()
	default:
		return config.ProviderCredentials{}, apperrors.ErrUnknownProvider
	}
	if !creds.Configured() {
		return config.ProviderCredentials{}, apperrors.ErrProviderNotConfigured
	}
	return creds, nil
}

// newStateToken builds the CSRF state in the console's historical format.
func newStateToken(provider Provider, now time.Time) string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("email-%s-%d-%s", provider, now.UnixMilli(), base64.RawURLEncoding.EncodeToString(b))
}

// Outcome summarizes how a callback ended for the UI layer.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeError            Outcome = "error"
	OutcomeAlreadyProcessed Outcome = "already_processed"
	OutcomeNotLinking       Outcome = "not_linking"
)

// Redirect delays shown on the confirmation/error screens before navigating
// back to the email-management view.
const (
	SuccessRedirectDelay = 2 * time.Second
	ErrorRedirectDelay   = 3 * time.Second
)

// CallbackResult is what the callback handler renders. Protocol and exchange
// failures land in the Error outcome with the message to display; only
// infrastructure failures (flow store unreachable) surface as an error return.
type CallbackResult struct {
	Outcome       Outcome
	Linked        coreapi.LinkedEmail
	Message       string
	RedirectDelay time.Duration
}

// HandleCallback processes the provider redirect for the given browser
// session. It is idempotent per flow: the first invocation marks the context
// processed before exchanging, so a second invocation (component remount,
// double navigation) finds the marker and exits without touching the one-time
// authorization code again.
func (s *Service) HandleCallback(ctx context.Context, sessionID, agentToken, code, state, errParam string) (CallbackResult, error) {
	flow, err := s.flows.Get(ctx, sessionID)
	if apperrors.Is(err, apperrors.ErrFlowNotFound) {
		// Not a linking callback for this session; exit silently.
		return CallbackResult{Outcome: OutcomeNotLinking}, nil
	}
	if err != nil {
		return CallbackResult{}, fmt.Errorf("[HandleCallback] load flow context: %w", err)
	}

	// Duplicate-processing guard: clear and route away, no second exchange.
	if flow.CallbackProcessed {
		if err := s.flows.Delete(ctx, sessionID); err != nil {
			return CallbackResult{}, fmt.Errorf("[HandleCallback] clear processed flow: %w", err)
		}
		return CallbackResult{Outcome: OutcomeAlreadyProcessed}, nil
	}

	// The agent must still be authenticated; otherwise discard the attempt
	// entirely and send them to login.
	if agentToken == "" {
		_ = s.flows.Delete(ctx, sessionID)
		return CallbackResult{}, apperrors.ErrNotAuthenticated
	}

	if !flow.AddingEmail {
		return CallbackResult{Outcome: OutcomeNotLinking}, nil
	}

	if s.nowTime().Sub(flow.CreatedAt) > s.cfg.GetFlowStateTimeout() {
		_ = s.flows.Delete(ctx, sessionID)
		return s.fail(ctx, sessionID, apperrors.ErrFlowExpired.Error()), nil
	}

	// Mark the flow processed before exchanging anything. Providers
	// invalidate an authorization code after first use, so a re-entrant
	// callback must never reach the token endpoint.
	flow.CallbackProcessed = true
	flow.Status = flowstate.StatusExchangingTokens
	if err := s.flows.Upsert(ctx, sessionID, flow); err != nil {
		return CallbackResult{}, fmt.Errorf("[HandleCallback] mark flow processed: %w", err)
	}

	if errParam != "" {
		return s.fail(ctx, sessionID, "provider returned error: "+errParam), nil
	}
	if state != flow.State {
		return s.fail(ctx, sessionID, apperrors.ErrStateMismatch.Error()), nil
	}
	if code == "" {
		return s.fail(ctx, sessionID, "missing authorization code"), nil
	}

	linked, err := s.exchange(ctx, Provider(flow.Provider), agentToken, code)
	if err != nil {
		log.Warn().Err(err).Str("provider", flow.Provider).Msg("email linking failed")
		return s.fail(ctx, sessionID, err.Error()), nil
	}

	if err := s.flows.Delete(ctx, sessionID); err != nil {
		return CallbackResult{}, fmt.Errorf("[HandleCallback] clear completed flow: %w", err)
	}
	return CallbackResult{
		Outcome:       OutcomeSuccess,
		Linked:        linked,
		RedirectDelay: SuccessRedirectDelay,
	}, nil
}

// exchange performs the provider-specific leg of the flow.
func (s *Service) exchange(ctx context.Context, provider Provider, agentToken, code string) (coreapi.LinkedEmail, error) {
	switch provider {
	case ProviderOutlook:
		// The backend owns the Microsoft token exchange; forward the raw code.
		return s.linker.AddEmailBox(ctx, agentToken, coreapi.AddEmailBoxRequest{
			Provider: string(ProviderOutlook),
			Code:     code,
		})

	case ProviderGmail:
		if s.google == nil {
			return coreapi.LinkedEmail{}, apperrors.ErrProviderNotConfigured
		}
		tokens, err := s.google.Exchange(ctx, code)
		if err != nil {
			return coreapi.LinkedEmail{}, err
		}
		if tokens.AccessToken == "" || tokens.IDToken == "" {
			return coreapi.LinkedEmail{}, fmt.Errorf("incomplete token response from Google")
		}
		// Google only issues a refresh token on first consent or when
		// prompt=consent forces re-consent. Without one the linked mailbox
		// would die when the access token expires, so this is a hard failure
		// and the backend is never called.
		if tokens.RefreshToken == "" {
			return coreapi.LinkedEmail{}, apperrors.ErrMissingRefreshToken
		}
		linked, err := s.linker.AddEmailBox(ctx, agentToken, coreapi.AddEmailBoxRequest{
			Provider:     string(ProviderGmail),
			RefreshToken: tokens.RefreshToken,
			IDToken:      tokens.IDToken,
		})
		if err != nil {
			return coreapi.LinkedEmail{}, err
		}
		if linked.Email == "" {
			linked.Email = tokens.Email
		}
		return linked, nil

	default:
		return coreapi.LinkedEmail{}, apperrors.ErrUnknownProvider
	}
}

// fail clears the flow markers and produces the error outcome; the message is
// displayed literally on the error screen.
func (s *Service) fail(ctx context.Context, sessionID, message string) CallbackResult {
	_ = s.flows.Delete(ctx, sessionID)
	return CallbackResult{
		Outcome:       OutcomeError,
		Message:       message,
		RedirectDelay: ErrorRedirectDelay,
	}
}
