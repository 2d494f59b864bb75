package app_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"phonebook/internal/app"
	"phonebook/internal/config"
	"phonebook/pkg/logger"

	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return strconv.Itoa(port)
}

func TestRun_StoreFailureStopsMetricsServer(t *testing.T) {
	metricsPort := freePort(t)

	t.Setenv("METRICS_HOST", "127.0.0.1")
	t.Setenv("METRICS_PORT", metricsPort)
	t.Setenv("REDIS_HOST", "127.0.0.1")
	t.Setenv("REDIS_PORT", freePort(t))
	t.Setenv("REDIS_CONN_ATTEMPTS", "1")
	t.Setenv("REDIS_DIAL_TIMEOUT", "100ms")

	cfg, err := config.LoadEnv()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = app.Run(ctx, cfg, logger.NewNop())
	require.ErrorContains(t, err, "app.initStore")
	require.NoError(t, ctx.Err(), "Run must return on its own, not on the test deadline")

	// The metrics listener is released before Run returns.
	l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", metricsPort))
	require.NoError(t, err)
	require.NoError(t, l.Close())
}
