package clickhouse_test

import (
	"context"
	"testing"
	"time"

	"github.com/housekit/housekit/pkg/clickhouse"
	"github.com/stretchr/testify/require"
)

func TestNewClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Nothing listens on port 1; the ping must fail rather than hang.
	_, err := clickhouse.NewClient(ctx, "127.0.0.1:1")
	require.Error(t, err)
}

func TestNewClientBadDSNFallsBackToHostPort(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Not a parseable connection string; treated as host:port and the
	// connection attempt fails.
	_, err := clickhouse.NewClient(ctx, "not a dsn")
	require.Error(t, err)
}
