package featureflag

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cloud-console/internal/cache"
)

type StoreMock struct{ mock.Mock }

func (m *StoreMock) GetFeatureFlag(ctx context.Context, key string) (bool, bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &cache.Cache{Db: client}, mr
}

func TestBool_OverrideWins(t *testing.T) {
	store := new(StoreMock)
	s := New(map[string]bool{NewTrialPolicy: true}, store, nil, time.Minute, newNoopLogger())

	assert.True(t, s.Bool(context.Background(), NewTrialPolicy, false))
	store.AssertNotCalled(t, "GetFeatureFlag", mock.Anything, mock.Anything)
}

func TestBool_StoreAndCache(t *testing.T) {
	c, mr := newTestCache(t)
	store := new(StoreMock)
	store.On("GetFeatureFlag", mock.Anything, NewWorkspacesUI).Return(true, true, nil).Once()

	s := New(nil, store, c, time.Minute, newNoopLogger())
	ctx := context.Background()

	assert.True(t, s.Bool(ctx, NewWorkspacesUI, false))
	assert.True(t, mr.Exists(cacheKey(NewWorkspacesUI)))

	// второе чтение обслуживается кэшем
	assert.True(t, s.Bool(ctx, NewWorkspacesUI, false))
	store.AssertExpectations(t)
}

func TestBool_NotFoundUsesDefault(t *testing.T) {
	store := new(StoreMock)
	store.On("GetFeatureFlag", mock.Anything, SpeedyConnection).Return(false, false, nil)

	s := New(nil, store, nil, time.Minute, newNoopLogger())

	assert.True(t, s.Bool(context.Background(), SpeedyConnection, true))
	assert.False(t, s.Bool(context.Background(), SpeedyConnection, false))
}

func TestBool_StoreErrorUsesDefault(t *testing.T) {
	c, mr := newTestCache(t)
	store := new(StoreMock)
	store.On("GetFeatureFlag", mock.Anything, NewTrialPolicy).Return(false, false, errors.New("db down"))

	s := New(nil, store, c, time.Minute, newNoopLogger())

	assert.True(t, s.Bool(context.Background(), NewTrialPolicy, true))
	assert.False(t, mr.Exists(cacheKey(NewTrialPolicy)), "errors must not be cached")
}

func TestBool_CacheErrorFallsThroughToStore(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(cacheKey(NewTrialPolicy), "not-json"))

	store := new(StoreMock)
	store.On("GetFeatureFlag", mock.Anything, NewTrialPolicy).Return(true, true, nil).Once()

	s := New(nil, store, c, time.Minute, newNoopLogger())

	assert.True(t, s.Bool(context.Background(), NewTrialPolicy, false))
	store.AssertExpectations(t)
}

func TestBool_NoStore(t *testing.T) {
	s := New(nil, nil, nil, time.Minute, newNoopLogger())
	assert.True(t, s.Bool(context.Background(), NewTrialPolicy, true))
}
