package redis

import (
	"testing"
	"time"

	"phonebook/internal/config"
	"phonebook/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func stubNewUniversal(t *testing.T, fn func(opt *goredis.UniversalOptions) goredis.UniversalClient) {
	t.Helper()
	orig := NewUniversal
	NewUniversal = fn
	t.Cleanup(func() { NewUniversal = orig })
}

func TestNewRedis_PassesConfig(t *testing.T) {
	var captured *goredis.UniversalOptions
	calls := 0

	stubNewUniversal(t, func(opt *goredis.UniversalOptions) goredis.UniversalClient {
		captured = opt
		calls++
		return goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 20 * time.Millisecond})
	})

	cfg := &config.Redis{
		Host:         "redis.local",
		Port:         "6380",
		DB:           4,
		Password:     "secret",
		DialTimeout:  20 * time.Millisecond,
		ReadTimeout:  20 * time.Millisecond,
		WriteTimeout: 20 * time.Millisecond,
	}

	_, err := NewRedis(cfg, logger.NewNop(),
		PoolSize(7),
		MaxConnAttempts(2),
		BaseRetryDelay(time.Millisecond),
		MaxRetryDelay(2*time.Millisecond),
		PingTimeout(50*time.Millisecond),
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connect after 2 attempts")

	require.Equal(t, 1, calls)
	require.NotNil(t, captured)
	require.Equal(t, []string{"redis.local:6380"}, captured.Addrs)
	require.Equal(t, 4, captured.DB)
	require.Equal(t, "secret", captured.Password)
	require.Equal(t, 7, captured.PoolSize)
}

func TestNewRedis_InvalidOptions(t *testing.T) {
	testCases := []struct {
		desc string
		opts []Option
	}{
		{desc: "ZeroPool", opts: []Option{PoolSize(0)}},
		{desc: "ZeroAttempts", opts: []Option{MaxConnAttempts(0)}},
		{desc: "ZeroPingTimeout", opts: []Option{PingTimeout(0)}},
		{desc: "BaseAboveMax", opts: []Option{BaseRetryDelay(time.Second), MaxRetryDelay(time.Millisecond)}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := NewRedis(&config.Redis{}, logger.NewNop(), tc.opts...)
			require.ErrorContains(t, err, "validation")
		})
	}
}
