package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/offline_console/internal/tableview"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestSessionCacheViewRoundTrip(t *testing.T) {
	store := newMemStore()
	c := NewSessionCache(store, time.Hour)
	ctx := context.Background()

	_, err := c.LoadView(ctx, "s1", "stocks")
	assert.ErrorIs(t, err, ErrMiss)

	state := tableview.NewViewState("modelId", 10, true).WithFilter("red").WithToggled("AB12")
	require.NoError(t, c.SaveView(ctx, "s1", "stocks", state))
	assert.Equal(t, time.Hour, store.ttls["console:view:s1:stocks"])

	snap, err := c.LoadView(ctx, "s1", "stocks")
	require.NoError(t, err)
	assert.Equal(t, state, snap.State)

	require.NoError(t, c.DeleteViews(ctx, "s1", "stocks", "billing"))
	_, err = c.LoadView(ctx, "s1", "stocks")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSessionCacheTheme(t *testing.T) {
	c := NewSessionCache(newMemStore(), time.Hour)
	ctx := context.Background()

	theme, err := c.Theme(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	require.NoError(t, c.SetTheme(ctx, "admin@example.com", ThemeDark))
	theme, err = c.Theme(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	assert.Error(t, c.SetTheme(ctx, "admin@example.com", "neon"))
}

func TestSessionCacheRevocation(t *testing.T) {
	store := newMemStore()
	c := NewSessionCache(store, time.Hour)
	ctx := context.Background()

	revoked, err := c.SessionRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.RevokeSession(ctx, "s1", 20*time.Minute))
	revoked, err = c.SessionRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 20*time.Minute, store.ttls["console:revoked:s1"])

	require.NoError(t, c.RevokeSession(ctx, "s2", 0), "an expired token needs no entry")
	revoked, err = c.SessionRevoked(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
