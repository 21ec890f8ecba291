// Package docker runs disposable ClickHouse server containers for
// integration testing. Analysis itself never needs Docker; only tests that
// want a real server do.
package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultVersion is the ClickHouse server version started when none is
	// requested.
	DefaultVersion = "25.7"

	// startDeadline bounds how long a container start may take, image pull
	// included.
	startDeadline = 5 * time.Minute
)

type (
	// Options configures the server container.
	Options struct {
		// Version is the ClickHouse server version tag (default: DefaultVersion)
		Version string
	}

	// Server is a running ClickHouse container.
	Server struct {
		options   Options
		container *clickhouse.ClickHouseContainer
	}
)

// NewServer creates an unstarted server with the given options.
//
// Example:
//
//	srv := docker.NewServer(docker.Options{})
//	if err := srv.Start(ctx); err != nil {
//		t.Skipf("docker unavailable: %v", err)
//	}
//	defer srv.Stop(ctx)
func NewServer(opts Options) *Server {
	return &Server{options: opts}
}

// Start launches the ClickHouse container and waits until its HTTP endpoint
// answers. Calling Start on a running server is an error.
func (s *Server) Start(ctx context.Context) error {
	if s.container != nil {
		return errors.New("server is already running")
	}

	version := s.options.Version
	if version == "" {
		version = DefaultVersion
	}

	container, err := clickhouse.Run(ctx,
		fmt.Sprintf("clickhouse/clickhouse-server:%s-alpine", version),
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword(""),
		testcontainers.WithEnv(map[string]string{"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1"}),
		testcontainers.WithWaitStrategyAndDeadline(
			startDeadline,
			wait.
				NewHTTPStrategy("/").
				WithPort(nat.Port("8123/tcp")).
				WithStatusCodeMatcher(func(status int) bool { return status == 200 }),
		),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start ClickHouse container")
	}

	s.container = container
	return nil
}

// Stop terminates and removes the container. Stopping a stopped server is a
// no-op.
func (s *Server) Stop(ctx context.Context) error {
	if s.container == nil {
		return nil
	}

	err := s.container.Terminate(ctx)
	s.container = nil

	return errors.Wrap(err, "failed to stop ClickHouse container")
}

// DSN returns the native-protocol connection string for the running server.
func (s *Server) DSN(ctx context.Context) (string, error) {
	if s.container == nil {
		return "", errors.New("server is not running")
	}

	dsn, err := s.container.ConnectionString(ctx)
	return dsn, errors.Wrap(err, "failed to get connection string")
}
