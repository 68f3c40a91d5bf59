// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/constants"
)

// RedisSessionStore implements [SessionStore] with one JSON value per session.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed [SessionStore].
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

/*
Create stores a session with its TTL.

Parameters:
  - ctx: context.Context
  - session: *Session
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisSessionStore) Create(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves a session.

Description: Returns apperr.NotFound if the session is absent or expired.
*/
func (store *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := store.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	return &session, nil
}

// Delete removes the session from Redis.
func (store *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return constants.RedisPrefixSession + id
}
