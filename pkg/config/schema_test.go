package config_test

import (
	"strings"
	"testing"

	"github.com/housekit/housekit/pkg/config"
	"github.com/housekit/housekit/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestLoadSchema(t *testing.T) {
	tables, err := config.LoadSchema(strings.NewReader(`
tables:
  - name: events
    engine: ReplacingMergeTree(ts)
    order_by: (id, ts)
    partition_by: toYYYYMM(ts)
    ttl: ts + INTERVAL 90 DAY
    on_cluster: prod
    version: 1.2.0
    append_only: true
    dedupe_by: [id]
    version_column: ts
    columns:
      - {name: id, type: UInt64}
      - {name: name, type: String, nullable: true, default: "'n/a'", comment: display name}
      - {name: ts, type: DateTime}
    indices:
      - {name: idx_ts, expression: ts, type: minmax, granularity: 4}
    projections:
      - {name: by_name, query: "SELECT name, count() GROUP BY name"}
  - name: legacy
    engine: MergeTree()
    order_by: id
    externally_managed: true
    columns:
      - {name: id, type: Int32}
`))
	require.NoError(t, err)
	require.Len(t, tables, 2)

	events := tables[0]
	require.Equal(t, "events", events.Name)
	require.Equal(t, "ReplacingMergeTree(ts)", events.Options.Engine)
	require.Equal(t, "(id, ts)", events.Options.OrderBy)
	require.Equal(t, "toYYYYMM(ts)", events.Options.PartitionBy)
	require.Equal(t, "ts + INTERVAL 90 DAY", events.Options.TTL)
	require.Equal(t, utils.Ptr("prod"), events.Options.OnCluster)
	require.Equal(t, "1.2.0", events.Options.MetadataVersion)
	require.True(t, events.Options.AppendOnly)
	require.Equal(t, []string{"id"}, events.Options.DeduplicateBy)
	require.Equal(t, utils.Ptr("ts"), events.Options.VersionColumn)

	require.Len(t, events.Columns, 3)
	name := events.Column("name")
	require.NotNil(t, name)
	require.True(t, name.Nullable)
	require.Equal(t, utils.Ptr("'n/a'"), name.Default)
	require.Equal(t, utils.Ptr("display name"), name.Comment)

	require.Len(t, events.Options.Indices, 1)
	require.Equal(t, 4, events.Options.Indices[0].Granularity)
	require.Len(t, events.Options.Projections, 1)

	require.True(t, tables[1].Options.ExternallyManaged)
}

func TestLoadSchemaNamelessTable(t *testing.T) {
	_, err := config.LoadSchema(strings.NewReader(`
tables:
  - engine: MergeTree()
    columns:
      - {name: id, type: Int32}
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema table without a name")
}

func TestLoadSchemaInvalidYAML(t *testing.T) {
	_, err := config.LoadSchema(strings.NewReader("tables: [oops"))
	require.Error(t, err)
}
