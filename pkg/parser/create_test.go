package parser_test

import (
	"testing"

	. "github.com/housekit/housekit/pkg/parser"
	"github.com/stretchr/testify/require"
)

const sampleCreate = "CREATE TABLE `events` ON CLUSTER prod (\n" +
	"  `id` UInt64,\n" +
	"  `ts` DateTime DEFAULT now(),\n" +
	"  `payload` String COMMENT 'raw, unparsed',\n" +
	"  INDEX idx_ts ts TYPE minmax GRANULARITY 4,\n" +
	"  PROJECTION by_payload (SELECT payload, count() GROUP BY payload)\n" +
	") ENGINE = ReplacingMergeTree(ts)\n" +
	"PARTITION BY toYYYYMM(ts)\n" +
	"ORDER BY (id, ts)\n" +
	"TTL ts + INTERVAL 90 DAY\n" +
	"COMMENT 'event log'"

func TestParseCreateOptions(t *testing.T) {
	opts := ParseCreateOptions(sampleCreate)

	require.Equal(t, "ReplacingMergeTree(ts)", opts.Engine)
	require.Equal(t, "prod", opts.OnCluster)
	require.Equal(t, "(id, ts)", opts.OrderBy)
	require.Equal(t, "toYYYYMM(ts)", opts.PartitionBy)
	require.Equal(t, "ts + INTERVAL 90 DAY", opts.TTL)
	require.Empty(t, opts.PrimaryKey)

	require.Equal(t, []IndexClause{
		{Name: "idx_ts", Expression: "ts", Type: "minmax", Granularity: 4},
	}, opts.Indices)
	require.Equal(t, []ProjectionClause{
		{Name: "by_payload", Query: "SELECT payload, count() GROUP BY payload"},
	}, opts.Projections)
}

func TestParseCreateOptionsDegrades(t *testing.T) {
	tests := []struct {
		name string
		ddl  string
	}{
		{name: "empty input", ddl: ""},
		{name: "no column list", ddl: "CREATE TABLE `t` ENGINE = Memory"},
		{name: "not a create", ddl: "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, CreateOptions{}, ParseCreateOptions(tt.ddl))
		})
	}
}

func TestParseCreateOptionsPrimaryKey(t *testing.T) {
	opts := ParseCreateOptions("CREATE TABLE `t` (`id` Int32) ENGINE = MergeTree() PRIMARY KEY id ORDER BY (id, ts)")
	require.Equal(t, "id", opts.PrimaryKey)
	require.Equal(t, "(id, ts)", opts.OrderBy)
	require.Equal(t, "MergeTree()", opts.Engine)
}

func TestParseCreateColumns(t *testing.T) {
	cols := ParseCreateColumns(sampleCreate)

	require.Equal(t, []ColumnClause{
		{Name: "id", RawType: "UInt64"},
		{Name: "ts", RawType: "DateTime DEFAULT now()"},
		{Name: "payload", RawType: "String COMMENT 'raw, unparsed'"},
	}, cols)
}

func TestParseCreateColumnsBareIdentifiers(t *testing.T) {
	cols := ParseCreateColumns("CREATE TABLE `t` (id Int32, name String) ENGINE = Memory")

	require.Equal(t, []ColumnClause{
		{Name: "id", RawType: "Int32"},
		{Name: "name", RawType: "String"},
	}, cols)
}

func TestParseCreateColumnsNoList(t *testing.T) {
	require.Nil(t, ParseCreateColumns("CREATE TABLE `t` ENGINE = Memory"))
}
