package flowstate

import (
	"context"
	"time"
)

// Status tracks where a live linking attempt is in its lifecycle. The
// redirect to the provider crosses a full page navigation, so the whole
// context lives in a store rather than in memory on one request. Terminal
// outcomes are never stored: the flow record is cleared and the result
// reported through the callback outcome.
type Status string

const (
	StatusRedirecting      Status = "redirecting"
	StatusAwaitingCallback Status = "awaiting_callback"
	StatusExchangingTokens Status = "exchanging_tokens"
)

// FlowContext is the serialized state of one email-linking attempt, keyed by
// the browser session that started it. One flow per session at a time.
type FlowContext struct {
	SessionID         string    `json:"sessionId"`
	Provider          string    `json:"provider"`
	State             string    `json:"state"` // CSRF token echoed back by the provider
	AddingEmail       bool      `json:"addingEmail"`
	CallbackProcessed bool      `json:"callbackProcessed"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Repo interface {
	Upsert(ctx context.Context, sessionID string, flow *FlowContext) error
	Get(ctx context.Context, sessionID string) (*FlowContext, error)
	Delete(ctx context.Context, sessionID string) error
}
