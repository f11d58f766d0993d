package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/redis/go-redis/v9"
)

const (
	projectKeyPrefix = "lp:project:" // lp:project:{project_id} -> record JSON
	projectIndexKey  = "lp:projects" // set of project ids
)

// RedisBackend stores each record as a JSON string with an optional TTL.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend creates a backend. A zero ttl keeps records until evicted.
func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (b *RedisBackend) Load(ctx context.Context, projectID string) (*domain.Record, error) {
	data, err := b.client.Get(ctx, b.projectKey(projectID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project data: %w", err)
	}
	return &rec, nil
}

func (b *RedisBackend) Save(ctx context.Context, rec *domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal project data: %w", err)
	}

	pipe := b.client.Pipeline()
	pipe.Set(ctx, b.projectKey(rec.ProjectID), data, b.ttl)
	pipe.SAdd(ctx, projectIndexKey, rec.ProjectID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (b *RedisBackend) List(ctx context.Context) ([]*domain.Record, error) {
	ids, err := b.client.SMembers(ctx, projectIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = b.projectKey(id)
	}
	values, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}

	var (
		out     []*domain.Record
		expired []interface{}
	)
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			continue
		}
		out = append(out, &rec)
	}
	if len(expired) > 0 {
		b.client.SRem(ctx, projectIndexKey, expired...)
	}
	return out, nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBackend) projectKey(projectID string) string {
	return projectKeyPrefix + projectID
}
