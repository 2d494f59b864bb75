package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"phonebook/pkg/cache"
	"phonebook/pkg/logger"
	mock_metric "phonebook/pkg/metric/mock"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

const _cacheName = "test"

func newCacheMetrics(ctrl *gomock.Controller) *mock_metric.MockCache {
	m := mock_metric.NewMockCache(ctrl)
	m.EXPECT().Hit(_cacheName).AnyTimes()
	m.EXPECT().Miss(_cacheName).AnyTimes()
	m.EXPECT().Eviction(_cacheName, gomock.Any()).AnyTimes()
	m.EXPECT().Size(_cacheName, gomock.Any()).AnyTimes()
	return m
}

func newCache(t *testing.T, capacity int) *cache.LRUCache[string, string] {
	t.Helper()

	c, err := cache.NewLRUCache[string, string](_cacheName, capacity, logger.NewNop(),
		newCacheMetrics(gomock.NewController(t)))
	require.NoError(t, err)
	return c
}

func TestNewLRUCache(t *testing.T) {
	testCases := []struct {
		desc     string
		name     string
		capacity int
		wantErr  string
	}{
		{desc: "Valid", name: _cacheName, capacity: 1},
		{desc: "EmptyName", name: "", capacity: 1, wantErr: "name is required"},
		{desc: "ZeroCapacity", name: _cacheName, capacity: 0, wantErr: "capacity must be positive"},
		{desc: "NegativeCapacity", name: _cacheName, capacity: -5, wantErr: "capacity must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			c, err := cache.NewLRUCache[string, string](tc.name, tc.capacity, logger.NewNop(),
				mock_metric.NewMockCache(gomock.NewController(t)))
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				require.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.Zero(t, c.Len())
		})
	}
}

type cacheOp struct {
	op  string
	key string
	val string
}

func TestLRUCache_Recency(t *testing.T) {
	testCases := []struct {
		desc     string
		capacity int
		ops      []cacheOp
		expected map[string]string
	}{
		{
			desc:     "OldestEvicted",
			capacity: 2,
			ops: []cacheOp{
				{"put", "+1111111111", "a"},
				{"put", "+2222222222", "b"},
				{"put", "+3333333333", "c"},
			},
			expected: map[string]string{"+2222222222": "b", "+3333333333": "c"},
		},
		{
			desc:     "GetRefreshesRecency",
			capacity: 2,
			ops: []cacheOp{
				{"put", "+1111111111", "a"},
				{"put", "+2222222222", "b"},
				{"get", "+1111111111", ""},
				{"put", "+3333333333", "c"},
			},
			expected: map[string]string{"+1111111111": "a", "+3333333333": "c"},
		},
		{
			desc:     "OverwriteKeepsOthers",
			capacity: 2,
			ops: []cacheOp{
				{"put", "+1111111111", "a"},
				{"put", "+2222222222", "b"},
				{"put", "+1111111111", "a2"},
			},
			expected: map[string]string{"+1111111111": "a2", "+2222222222": "b"},
		},
		{
			desc:     "OverwriteRefreshesRecency",
			capacity: 2,
			ops: []cacheOp{
				{"put", "+1111111111", "a"},
				{"put", "+2222222222", "b"},
				{"put", "+1111111111", "a2"},
				{"put", "+3333333333", "c"},
			},
			expected: map[string]string{"+1111111111": "a2", "+3333333333": "c"},
		},
		{
			desc:     "DeleteFreesSlot",
			capacity: 2,
			ops: []cacheOp{
				{"put", "+1111111111", "a"},
				{"put", "+2222222222", "b"},
				{"delete", "+1111111111", ""},
				{"put", "+3333333333", "c"},
			},
			expected: map[string]string{"+2222222222": "b", "+3333333333": "c"},
		},
		{
			desc:     "SingleSlot",
			capacity: 1,
			ops: []cacheOp{
				{"put", "+1111111111", "a"},
				{"put", "+2222222222", "b"},
			},
			expected: map[string]string{"+2222222222": "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			c := newCache(t, tc.capacity)
			for _, op := range tc.ops {
				switch op.op {
				case "put":
					c.Put(op.key, op.val, 0)
				case "get":
					c.Get(op.key)
				case "delete":
					c.Delete(op.key)
				}
			}

			require.Equal(t, len(tc.expected), c.Len())
			for key, want := range tc.expected {
				got, ok := c.Get(key)
				require.True(t, ok, key)
				require.Equal(t, want, got)
			}
		})
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := newCache(t, 4)

	c.Put("+1111111111", "short", 20*time.Millisecond)
	c.Put("+2222222222", "forever", 0)
	require.Equal(t, 2, c.Len())

	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("+1111111111")
	require.False(t, ok)
	require.Equal(t, 1, c.Len())

	got, ok := c.Get("+2222222222")
	require.True(t, ok)
	require.Equal(t, "forever", got)
}

func TestLRUCache_PutResetsTTL(t *testing.T) {
	c := newCache(t, 1)

	c.Put("+1111111111", "v1", 20*time.Millisecond)
	c.Put("+1111111111", "v2", 0)
	time.Sleep(40 * time.Millisecond)

	got, ok := c.Get("+1111111111")
	require.True(t, ok)
	require.Equal(t, "v2", got)
}

func TestLRUCache_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mock_metric.NewMockCache(ctrl)

	gomock.InOrder(
		metrics.EXPECT().Size(_cacheName, 1),
		metrics.EXPECT().Size(_cacheName, 2),
		metrics.EXPECT().Eviction(_cacheName, "capacity"),
		metrics.EXPECT().Size(_cacheName, 1),
		metrics.EXPECT().Size(_cacheName, 2),
		metrics.EXPECT().Hit(_cacheName),
		metrics.EXPECT().Miss(_cacheName),
		metrics.EXPECT().Eviction(_cacheName, "deleted"),
		metrics.EXPECT().Size(_cacheName, 1),
	)

	c, err := cache.NewLRUCache[string, string](_cacheName, 2, logger.NewNop(), metrics)
	require.NoError(t, err)

	c.Put("+1111111111", "a", 0)
	c.Put("+2222222222", "b", 0)
	c.Put("+3333333333", "c", 0)
	c.Get("+3333333333")
	c.Get("+1111111111")
	require.True(t, c.Delete("+2222222222"))
	require.False(t, c.Delete("+2222222222"))
}

func TestLRUCache_OnEvicted(t *testing.T) {
	c := newCache(t, 2)

	var evicted []string
	c.SetOnEvicted(func(key, value string) {
		evicted = append(evicted, key+"="+value)
	})

	c.Put("+1111111111", "a", 0)
	c.Put("+2222222222", "b", 0)
	c.Put("+3333333333", "c", 0)
	c.Delete("+2222222222")

	require.Equal(t, []string{"+1111111111=a", "+2222222222=b"}, evicted)
}

func TestLRUCache_CleanupRemovesExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mock_metric.NewMockCache(ctrl)
	metrics.EXPECT().Size(_cacheName, gomock.Any()).AnyTimes()
	metrics.EXPECT().Eviction(_cacheName, "expired").Times(2)

	c, err := cache.NewLRUCache[string, string](_cacheName, 5, logger.NewNop(), metrics)
	require.NoError(t, err)

	c.Put("+1111111111", "a", 10*time.Millisecond)
	c.Put("+2222222222", "b", 10*time.Millisecond)
	c.Put("+3333333333", "c", 0)

	c.StartCleanup(5 * time.Millisecond)
	defer c.StopCleanup()

	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 5*time.Millisecond)
	_, ok := c.Get("+3333333333")
	require.True(t, ok)
}

func TestLRUCache_StopCleanupIsIdempotent(t *testing.T) {
	c := newCache(t, 1)

	c.StartCleanup(time.Millisecond)
	c.StartCleanup(time.Millisecond)
	c.StopCleanup()
	c.StopCleanup()
}

func TestLRUCache_Concurrent(t *testing.T) {
	const workers = 16

	c := newCache(t, 64)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := fmt.Sprintf("+1%09d", (w*200+i)%100)
				c.Put(key, key, time.Minute)
				if got, ok := c.Get(key); ok && got != key {
					t.Errorf("Get(%q) = %q", key, got)
				}
				if i%7 == 0 {
					c.Delete(key)
				}
			}
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, c.Len(), 64)
}
