package agentsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/flyodesk/agency-console/internal/errors"
)

// RedisRepo stores sessions in Redis so any instance behind a load balancer
// can serve an authenticated browser.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "agentsession:" + sessionID
}

func (r *RedisRepo) Upsert(ctx context.Context, sessionID string, session Session) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}

	session.ID = sessionID
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[Upsert] marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("[Upsert] redis set: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.New("sessionID cannot be empty")
	}

	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("[Get] redis get: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("[Get] unmarshal session: %w", err)
	}
	return session, nil
}

func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("[Delete] redis del: %w", err)
	}
	return nil
}
