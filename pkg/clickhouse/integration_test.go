package clickhouse_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/housekit/housekit/pkg/clickhouse"
	"github.com/housekit/housekit/pkg/docker"
	"github.com/housekit/housekit/pkg/drift"
	"github.com/housekit/housekit/pkg/migrator"
	"github.com/housekit/housekit/pkg/parser"
	"github.com/housekit/housekit/pkg/schema"
	"github.com/housekit/housekit/pkg/utils"
	"github.com/stretchr/testify/require"
)

// skipIfNoDocker skips the test when Docker is not available
func skipIfNoDocker(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}
	if err := exec.Command("docker", "ps").Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}

// startServer boots a ClickHouse container and returns a connected client
func startServer(t *testing.T) *clickhouse.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)

	srv := docker.NewServer(docker.Options{})
	require.NoError(t, srv.Start(ctx))
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	dsn, err := srv.DSN(ctx)
	require.NoError(t, err)

	client, err := clickhouse.NewClient(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestClientIntegration(t *testing.T) {
	skipIfNoDocker(t)

	client := startServer(t)
	ctx := context.Background()

	local := &schema.Table{
		Name: "users",
		Columns: []schema.Column{
			{Name: "id", Type: "UInt64"},
			{Name: "name", Type: "String", Default: utils.Ptr("'n/a'")},
		},
		Options: schema.TableOptions{Engine: "MergeTree()", OrderBy: "id"},
	}

	t.Run("missing table", func(t *testing.T) {
		exists, err := client.TableExists(ctx, "users")
		require.NoError(t, err)
		require.False(t, exists)

		_, ok, err := client.Description(ctx, "users")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("create and describe", func(t *testing.T) {
		require.NoError(t, client.Exec(ctx, local.CreateDDL()))

		exists, err := client.TableExists(ctx, "users")
		require.NoError(t, err)
		require.True(t, exists)

		columns, err := client.DescribeTable(ctx, "users")
		require.NoError(t, err)
		require.Len(t, columns, 2)
		require.Equal(t, "id", columns[0].Name)
		require.Equal(t, "UInt64", columns[0].Type)

		typeText, ok, err := client.ColumnType(ctx, "users", "name")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "String", typeText)
	})

	t.Run("round trip has no drift", func(t *testing.T) {
		desc, ok, err := client.Description(ctx, "users")
		require.NoError(t, err)
		require.True(t, ok)

		a := drift.NewEngine().Diff(local, desc, drift.Options{})
		require.Equal(t, drift.ClassificationNoChanges, a.Classification, "plan: %v, reasons: %v, options: %v",
			a.Plan, a.DestructiveReasons, a.OptionChanges)
	})

	t.Run("pure append plans an add", func(t *testing.T) {
		grown := &schema.Table{
			Name:    local.Name,
			Columns: append(append([]schema.Column{}, local.Columns...), schema.Column{Name: "age", Type: "Int32"}),
			Options: local.Options,
		}

		desc, ok, err := client.Description(ctx, "users")
		require.NoError(t, err)
		require.True(t, ok)

		a := drift.NewEngine().Diff(grown, desc, drift.Options{})
		require.Equal(t, []string{"ALTER TABLE `users` ADD COLUMN `age` Int32"}, a.Plan)
		require.Nil(t, a.ShadowPlan)

		for _, stmt := range a.Plan {
			require.NoError(t, client.Exec(ctx, stmt))
		}

		desc, _, err = client.Description(ctx, "users")
		require.NoError(t, err)
		a = drift.NewEngine().Diff(grown, desc, drift.Options{})
		require.Equal(t, drift.ClassificationNoChanges, a.Classification)
	})

	t.Run("row count", func(t *testing.T) {
		require.NoError(t, client.Exec(ctx, "INSERT INTO `users` (`id`) VALUES (1), (2), (3)"))

		count, err := client.RowCount(ctx, "users")
		require.NoError(t, err)
		require.Equal(t, uint64(3), count)
	})

	t.Run("idempotency against live server", func(t *testing.T) {
		applied, err := migrator.IsApplied(ctx,
			parser.Classify("ALTER TABLE `users` ADD COLUMN `age` Int32"), client)
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = migrator.IsApplied(ctx,
			parser.Classify("ALTER TABLE `users` ADD COLUMN `email` String"), client)
		require.NoError(t, err)
		require.False(t, applied)
	})
}
