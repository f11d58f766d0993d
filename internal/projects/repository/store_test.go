package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())

	return client, mr
}

type brokenBackend struct{}

func (brokenBackend) Load(ctx context.Context, id string) (*domain.Record, error) {
	return nil, errors.New("read-only filesystem")
}
func (brokenBackend) Save(ctx context.Context, rec *domain.Record) error {
	return errors.New("read-only filesystem")
}
func (brokenBackend) List(ctx context.Context) ([]*domain.Record, error) {
	return nil, errors.New("read-only filesystem")
}

func backends(t *testing.T) map[string]Backend {
	client, mr := setupTestRedis(t)
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return map[string]Backend{
		"redis": NewRedisBackend(client, time.Hour),
		"file":  NewFileBackend(t.TempDir()),
	}
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			clk := clock.Fake(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
			store := NewStore(backend, clk)

			saved, err := store.Put(ctx, &domain.Record{
				ProjectID: "p1",
				BasicInfo: domain.Fields{"company_name": "Acme"},
			})
			require.NoError(t, err)
			require.NotNil(t, saved.CreatedAt)
			assert.Equal(t, *saved.CreatedAt, *saved.UpdatedAt)

			clk.Advance(time.Minute)
			again, err := store.Put(ctx, &domain.Record{ProjectID: "p1", BasicInfo: domain.Fields{"company_name": "Acme Inc"}})
			require.NoError(t, err)
			assert.Equal(t, *saved.CreatedAt, *again.CreatedAt)
			assert.True(t, again.UpdatedAt.After(*again.CreatedAt))

			// a fresh process only sees what reached the backend
			fresh := NewStore(backend, clk)
			got, err := fresh.Get(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "Acme Inc", got.BasicInfo["company_name"])

			_, err = fresh.Get(ctx, "missing")
			assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		})
	}
}

func TestStore_Merge(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(backend, clock.Fake(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)))

			_, err := store.Merge(ctx, "nope", &domain.Record{})
			assert.ErrorIs(t, err, domain.ErrProjectNotFound)

			_, err = store.Put(ctx, &domain.Record{
				ProjectID:  "p1",
				BasicInfo:  domain.Fields{"company_name": "Acme", "service_name": "Widget"},
				TargetInfo: domain.Fields{"target_audience": "retail"},
			})
			require.NoError(t, err)

			merged, err := store.Merge(ctx, "p1", &domain.Record{
				ProjectID: "ignored",
				BasicInfo: domain.Fields{"service_name": "Widget Pro"},
			})
			require.NoError(t, err)

			assert.Equal(t, "p1", merged.ProjectID)
			assert.Equal(t, "Acme", merged.BasicInfo["company_name"])
			assert.Equal(t, "Widget Pro", merged.BasicInfo["service_name"])
			assert.Equal(t, "retail", merged.TargetInfo["target_audience"])
		})
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	clk := clock.Fake(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	store := NewStore(NewRedisBackend(client, time.Hour), clk)

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Put(ctx, &domain.Record{
			ProjectID:     id,
			BasicInfo:     domain.Fields{"service_name": id},
			GeneratedCopy: &domain.LPCopy{Hero: domain.Hero{Headline: "big payload"}},
		})
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ProjectID)
	assert.Equal(t, "a", list[2].ProjectID)
	assert.Equal(t, "b", list[1].BasicInfo["service_name"])
}

func TestStore_BackendFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := NewStore(brokenBackend{}, clock.Fake(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)))

	_, err := store.Put(ctx, &domain.Record{ProjectID: "p1", LPGoals: domain.Fields{"desired_cta": "Sign up"}})
	require.NoError(t, err)

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Sign up", got.LPGoals["desired_cta"])

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRedisBackend_ExpiredRecordsDropFromList(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	backend := NewRedisBackend(client, time.Minute)
	require.NoError(t, backend.Save(ctx, &domain.Record{ProjectID: "p1"}))

	mr.FastForward(2 * time.Minute)

	recs, err := backend.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	members, err := client.SMembers(ctx, projectIndexKey).Result()
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestFileBackend_RejectsPathLikeIDs(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileBackend(dir)

	err := backend.Save(context.Background(), &domain.Record{ProjectID: "../escape"})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json"))
	assert.True(t, os.IsNotExist(statErr))
}
