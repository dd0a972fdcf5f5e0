package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichat_backend/internal/cache"
	"aichat_backend/internal/models"
	"aichat_backend/internal/repositories"
)

// fakeCache - потокобезопасный кэш в памяти для тестов, TTL игнорирует
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *fakeCache) Close() error { return nil }

func TestModelCatalog_ListModels(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	fc := newFakeCache()
	service := NewModelCatalogService(repositories.NewAIModelRepository(db), fc, time.Minute)

	require.NoError(t, service.UpsertModel(ctx, &models.AIModel{Name: "gpt-4o", Provider: "openai", IsEnabled: true}))
	require.NoError(t, service.UpsertModel(ctx, &models.AIModel{Name: "llama-3", Provider: "meta", IsEnabled: true}))
	disabled := &models.AIModel{Name: "legacy", Provider: "openai", IsEnabled: false}
	require.NoError(t, db.Create(disabled).Error)

	// Первый вызов идет в БД и наполняет кэш
	listed, err := service.ListModels(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, 1, fc.sets)

	// Второй вызов отдается из кэша
	listed, err = service.ListModels(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, 1, fc.sets)

	// Upsert сбрасывает кэш, следующий вызов видит новую запись
	require.NoError(t, service.UpsertModel(ctx, &models.AIModel{Name: "claude-3", Provider: "anthropic", IsEnabled: true}))
	listed, err = service.ListModels(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.Equal(t, 2, fc.sets)
}

func TestModelCatalog_WorksWithoutCache(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	service := NewModelCatalogService(repositories.NewAIModelRepository(db), nil, 0)

	require.NoError(t, service.UpsertModel(ctx, &models.AIModel{Name: "gpt-4o", Provider: "openai", IsEnabled: true}))

	listed, err := service.ListModels(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
