// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translation

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

// RedisJobStore implements [JobStore] with one JSON value per job.
type RedisJobStore struct {
	client *redis.Client
}

// NewRedisJobStore creates a Redis-backed [JobStore].
func NewRedisJobStore(client *redis.Client) *RedisJobStore {
	return &RedisJobStore{client: client}
}

func (store *RedisJobStore) Save(ctx context.Context, job *Job, ttl time.Duration) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("redis_translation_job_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, key(job.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_translation_job_set_failed: %w", err)
	}
	return nil
}

func (store *RedisJobStore) Get(ctx context.Context, id string) (*Job, error) {
	return store.decode(store.client.Get(ctx, key(id)).Bytes())
}

// Take uses GETDEL, so the read and the delete are one atomic command.
func (store *RedisJobStore) Take(ctx context.Context, id string) (*Job, error) {
	return store.decode(store.client.GetDel(ctx, key(id)).Bytes())
}

func (store *RedisJobStore) decode(payload []byte, err error) (*Job, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Translation job")
		}
		return nil, fmt.Errorf("redis_translation_job_get_failed: %w", err)
	}

	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("redis_translation_job_decode_failed: %w", err)
	}
	return &job, nil
}

func key(id string) string {
	return constants.RedisPrefixTranslationJob + id
}
