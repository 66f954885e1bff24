package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a, err := Key("car", strategy.DefaultInputs())
	require.NoError(t, err)
	b, err := Key("car", strategy.DefaultInputs())
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical inputs should share a key")
	assert.Regexp(t, `^fincalc:car:[0-9a-f]{16}$`, a)

	changed := strategy.DefaultInputs()
	changed.TotalCash++
	c, err := Key("car", changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := Key("emi", strategy.DefaultInputs())
	require.NoError(t, err)
	assert.NotEqual(t, a, d, "tools should not share keys")

	_, err = Key("bad", func() {})
	assert.Error(t, err)
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	got[0] = 'x'
	again, _ := m.Get(ctx, "a")
	assert.Equal(t, []byte("1"), again, "callers must not alias stored values")

	require.NoError(t, m.Set(ctx, "a", []byte("2")))
	again, _ = m.Get(ctx, "a")
	assert.Equal(t, []byte("2"), again)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	require.NoError(t, m.Set(ctx, "b", []byte("2")))
	_, _ = m.Get(ctx, "a")
	require.NoError(t, m.Set(ctx, "c", []byte("3")))

	assert.Equal(t, 2, m.Len())
	_, err := m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss, "b was least recently used")
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(16)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (i+j)%32)
				_ = m.Set(ctx, key, []byte(key))
				_, _ = m.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.Len(), 16)
}

func TestNewMemoryDefaultSize(t *testing.T) {
	assert.Equal(t, 1024, NewMemory(0).maxEntries)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8)
	calls := 0
	compute := func() strategy.ComparisonResult {
		calls++
		return strategy.ProjectStrategies(strategy.DefaultInputs())
	}

	first, hit, err := Fetch(ctx, m, "car", compute)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := Fetch(ctx, m, "car", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second, "cached result should match the computed one")
}

type failingCache struct {
	getErr error
	setErr error
}

func (f failingCache) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f failingCache) Set(context.Context, string, []byte) error   { return f.setErr }

func TestFetchCacheFailuresKeepResult(t *testing.T) {
	tests := []struct {
		name  string
		cache Cache
	}{
		{"Read failure", failingCache{getErr: errors.New("connection refused")}},
		{"Write failure", failingCache{getErr: ErrMiss, setErr: errors.New("read only")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit, err := Fetch(context.Background(), tt.cache, "k", func() int { return 42 })
			assert.Error(t, err)
			assert.False(t, hit)
			assert.Equal(t, 42, got)
		})
	}
}

func TestFetchCorruptEntryRecomputes(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8)
	require.NoError(t, m.Set(ctx, "k", []byte("not json")))

	got, hit, err := Fetch(ctx, m, "k", func() int { return 7 })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, got)

	raw, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "7", string(raw))
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		conf      config.CacheConfig
		expectErr bool
		check     func(t *testing.T, c Cache)
	}{
		{"Memory", config.CacheConfig{Backend: config.CacheMemory, MaxEntries: 4}, false, func(t *testing.T, c Cache) {
			assert.IsType(t, &Memory{}, c)
		}},
		{"Default is memory", config.CacheConfig{}, false, func(t *testing.T, c Cache) {
			assert.IsType(t, &Memory{}, c)
		}},
		{"None", config.CacheConfig{Backend: config.CacheNone}, false, func(t *testing.T, c Cache) {
			assert.IsType(t, Nop{}, c)
		}},
		{"Unreachable redis", config.CacheConfig{Backend: config.CacheRedis, RedisAddr: "127.0.0.1:1"}, true, nil},
		{"Unknown", config.CacheConfig{Backend: "memcached"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(ctx, tt.conf, nil)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestRedisUnreachable(t *testing.T) {
	r := NewRedis("127.0.0.1:1", "", 0, 0)
	defer r.Close()

	_, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss), "connection errors are not misses")
	assert.Error(t, r.Set(context.Background(), "k", []byte("v")))
}
