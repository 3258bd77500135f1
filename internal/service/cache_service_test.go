package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/academy-timetable-api/pkg/errors"
)

type mockCacheRepo struct {
	store    map[string][]byte
	patterns []string
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = payload
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	m.store = map[string][]byte{}
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := &mockCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	var missed []string
	assert.False(t, svc.Get(context.Background(), "weekly:teacher:1", &missed))

	svc.Set(context.Background(), "weekly:teacher:1", []string{"a", "b"})

	var hit []string
	require.True(t, svc.Get(context.Background(), "weekly:teacher:1", &hit))
	assert.Equal(t, []string{"a", "b"}, hit)
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := &mockCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	svc.Set(context.Background(), "weekly:teacher:1", "x")
	svc.Invalidate(context.Background(), "weekly:*")

	assert.Equal(t, []string{"weekly:*"}, repo.patterns)
	var out string
	assert.False(t, svc.Get(context.Background(), "weekly:teacher:1", &out))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := &mockCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)

	svc.Set(context.Background(), "weekly:teacher:1", "x")
	assert.Empty(t, repo.store)

	var out string
	assert.False(t, svc.Get(context.Background(), "weekly:teacher:1", &out))
}

func TestCacheServiceNilReceiverSafe(t *testing.T) {
	var svc *CacheService
	assert.False(t, svc.Enabled())

	var out string
	assert.False(t, svc.Get(context.Background(), "k", &out))
	svc.Set(context.Background(), "k", "v")
	svc.Invalidate(context.Background(), "*")
}
