package flowstate

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/flyodesk/agency-console/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface. Suitable for a single instance; with multiple instances behind a
// load balancer the Redis repo must be used so the callback can land anywhere.
type InMemoryRepo struct {
	mu    sync.RWMutex
	flows map[string]*FlowContext
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		flows: make(map[string]*FlowContext),
	}
}

func (r *InMemoryRepo) Upsert(_ context.Context, sessionID string, flow *FlowContext) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}
	if flow == nil {
		return errors.New("flow cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	copied := *flow
	r.flows[sessionID] = &copied
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, sessionID string) (*FlowContext, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	flow, exists := r.flows[sessionID]
	if !exists {
		return nil, apperrors.ErrFlowNotFound
	}

	copied := *flow
	return &copied, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.flows, sessionID)
	return nil
}
