package flowstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/flyodesk/agency-console/internal/errors"
)

// RedisRepo stores flow contexts in Redis with a TTL, so an abandoned linking
// attempt expires on its own and the callback can be served by any instance.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, ttl: ttl}
}

func flowKey(sessionID string) string {
	return "emaillink:flow:" + sessionID
}

func (r *RedisRepo) Upsert(ctx context.Context, sessionID string, flow *FlowContext) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}
	if flow == nil {
		return errors.New("flow cannot be nil")
	}

	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("[Upsert] marshal flow context: %w", err)
	}
	if err := r.client.Set(ctx, flowKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("[Upsert] redis set: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, sessionID string) (*FlowContext, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}

	data, err := r.client.Get(ctx, flowKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[Get] redis get: %w", err)
	}

	var flow FlowContext
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, fmt.Errorf("[Get] unmarshal flow context: %w", err)
	}
	return &flow, nil
}

func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}
	if err := r.client.Del(ctx, flowKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("[Delete] redis del: %w", err)
	}
	return nil
}
