package database

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
)

var errCacheMiss = errors.New("cache miss")

// memoryCache is an in-process CacheProvider for decorator tests.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	return nil
}

// countingRepo tracks how often the decorated source is consulted.
type countingRepo struct {
	clinic     *entities.Clinic
	getCalls   int
	fetchCalls int
}

func (r *countingRepo) Create(ctx context.Context, clinic *entities.Clinic) error { return nil }
func (r *countingRepo) Update(ctx context.Context, clinic *entities.Clinic) error { return nil }
func (r *countingRepo) Delete(ctx context.Context, id string) error               { return nil }
func (r *countingRepo) IncrementClicks(ctx context.Context, id, searchTerm string) error {
	return nil
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	r.getCalls++
	return r.clinic, nil
}

func (r *countingRepo) GetBySlug(ctx context.Context, slug string) (*entities.Clinic, error) {
	r.getCalls++
	return r.clinic, nil
}

func (r *countingRepo) FetchPage(ctx context.Context, query repositories.ClinicQuery, pageSize int, cursor string) (*repositories.ClinicPage, error) {
	r.fetchCalls++
	return &repositories.ClinicPage{Clinics: []*entities.Clinic{r.clinic}}, nil
}

func TestCachedClinicAdapter_GetByID(t *testing.T) {
	ctx := context.Background()
	clinic := &entities.Clinic{ID: "c-1", Name: "Austin Men's Health", Tier: "advanced"}

	t.Run("serves a valid cached entry without hitting the source", func(t *testing.T) {
		source := &countingRepo{clinic: clinic}
		cacheProvider := newMemoryCache()
		data, err := json.Marshal(clinic)
		require.NoError(t, err)
		require.NoError(t, cacheProvider.Set(ctx, clinicCacheKey("c-1"), data, 60))

		adapter := NewCachedClinicAdapter(source, cacheProvider)

		got, err := adapter.GetByID(ctx, "c-1")

		require.NoError(t, err)
		assert.Equal(t, "Austin Men's Health", got.Name)
		assert.Zero(t, source.getCalls)
	})

	t.Run("corrupt cached entry falls through to the source", func(t *testing.T) {
		source := &countingRepo{clinic: clinic}
		cacheProvider := newMemoryCache()
		require.NoError(t, cacheProvider.Set(ctx, clinicCacheKey("c-1"), []byte("{not json"), 60))

		adapter := NewCachedClinicAdapter(source, cacheProvider)

		got, err := adapter.GetByID(ctx, "c-1")

		require.NoError(t, err)
		assert.Equal(t, "Austin Men's Health", got.Name)
		assert.Equal(t, 1, source.getCalls)
	})
}

func TestCachedClinicAdapter_FetchPage(t *testing.T) {
	ctx := context.Background()
	clinic := &entities.Clinic{ID: "c-1", Name: "Austin Men's Health"}

	t.Run("corrupt cached page falls through to the source", func(t *testing.T) {
		source := &countingRepo{clinic: clinic}
		cacheProvider := newMemoryCache()
		query := repositories.ClinicQuery{ActiveOnly: true}
		require.NoError(t, cacheProvider.Set(ctx, clinicPageCacheKey(query, 10, ""), []byte("]["), 60))

		adapter := NewCachedClinicAdapter(source, cacheProvider)

		page, err := adapter.FetchPage(ctx, query, 10, "")

		require.NoError(t, err)
		require.Len(t, page.Clinics, 1)
		assert.Equal(t, 1, source.fetchCalls)
	})
}
