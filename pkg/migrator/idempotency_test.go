package migrator_test

import (
	"context"
	"testing"

	"github.com/housekit/housekit/pkg/migrator"
	"github.com/housekit/housekit/pkg/parser"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fakeLookup is an in-memory RemoteLookup: tables maps table name to its
// columns (name -> raw type), comments maps table name to its comment.
type fakeLookup struct {
	tables   map[string]map[string]string
	comments map[string]string
	err      error
}

func (f *fakeLookup) TableExists(_ context.Context, table string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.tables[table]
	return ok, nil
}

func (f *fakeLookup) ColumnType(_ context.Context, table, column string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	cols, ok := f.tables[table]
	if !ok {
		return "", false, nil
	}
	typeText, ok := cols[column]
	return typeText, ok, nil
}

func (f *fakeLookup) TableComment(_ context.Context, table string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	comment, ok := f.comments[table]
	if !ok {
		_, ok = f.tables[table]
	}
	return comment, ok, nil
}

func TestIsApplied(t *testing.T) {
	lookup := &fakeLookup{
		tables: map[string]map[string]string{
			"users": {
				"id":  "UInt64",
				"age": "Int32",
			},
		},
		comments: map[string]string{
			"users": `{"housekit":{"version":"1.0.0","appendOnly":false}}`,
		},
	}

	tests := []struct {
		name     string
		sql      string
		expected bool
	}{
		{
			name:     "create of existing table",
			sql:      "CREATE TABLE `users` (`id` UInt64) ENGINE = MergeTree() ORDER BY id",
			expected: true,
		},
		{
			name: "create of missing table",
			sql:  "CREATE TABLE `orders` (`id` UInt64) ENGINE = MergeTree() ORDER BY id",
		},
		{
			name:     "add of existing column",
			sql:      "ALTER TABLE `users` ADD COLUMN `age` Int32",
			expected: true,
		},
		{
			name: "add of missing column",
			sql:  "ALTER TABLE `users` ADD COLUMN `name` String",
		},
		{
			name:     "modify to current type",
			sql:      "ALTER TABLE `users` MODIFY COLUMN `age` Int32",
			expected: true,
		},
		{
			name: "modify to different type",
			sql:  "ALTER TABLE `users` MODIFY COLUMN `age` Int64",
		},
		{
			name: "modify of missing column",
			sql:  "ALTER TABLE `users` MODIFY COLUMN `ghost` Int32",
		},
		{
			name:     "comment already current",
			sql:      "ALTER TABLE `users` MODIFY COMMENT '{\"housekit\":{\"version\":\"1.0.0\",\"appendOnly\":false}}'",
			expected: true,
		},
		{
			name: "comment differs",
			sql:  "ALTER TABLE `users` MODIFY COMMENT '{\"housekit\":{\"version\":\"2.0.0\",\"appendOnly\":false}}'",
		},
		{
			name: "drop table never applied",
			sql:  "DROP TABLE `users`",
		},
		{
			name: "unrecognized never applied",
			sql:  "OPTIMIZE TABLE `users` FINAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := migrator.IsApplied(context.Background(), parser.Classify(tt.sql), lookup)
			require.NoError(t, err)
			require.Equal(t, tt.expected, applied)
		})
	}
}

func TestIsAppliedTypeNormalization(t *testing.T) {
	lookup := &fakeLookup{
		tables: map[string]map[string]string{
			"t": {"amount": "Decimal(18, 2) DEFAULT 0"},
		},
	}

	applied, err := migrator.IsApplied(context.Background(),
		parser.Classify("ALTER TABLE `t` MODIFY COLUMN `amount` Decimal(18,2)"), lookup)
	require.NoError(t, err)
	require.True(t, applied)
}

func TestIsAppliedLookupError(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("connection refused")}

	_, err := migrator.IsApplied(context.Background(),
		parser.Classify("CREATE TABLE `t` (`id` Int32) ENGINE = Memory"), lookup)
	require.Error(t, err)
}

func TestMigrationStatus(t *testing.T) {
	lookup := &fakeLookup{
		tables: map[string]map[string]string{
			"users": {"id": "UInt64"},
		},
	}

	migrations := []*migrator.Migration{
		{
			Version:    "001_create_users",
			Statements: migrator.SplitStatements("CREATE TABLE `users` (`id` UInt64) ENGINE = MergeTree() ORDER BY id;"),
		},
		{
			Version:    "002_add_age",
			Statements: migrator.SplitStatements("ALTER TABLE `users` ADD COLUMN `age` Int32;"),
		},
	}

	status, err := migrator.MigrationStatus(context.Background(), migrations, lookup)
	require.NoError(t, err)

	require.Equal(t, 2, status.Total)
	require.Equal(t, 1, status.Applied)
	require.Equal(t, 1, status.Pending)
	require.False(t, status.Fully())

	pending := status.PendingByVersion["002_add_age"]
	require.Len(t, pending, 1)
	require.Equal(t, "age", pending[0].Column)
	require.Empty(t, status.PendingByVersion["001_create_users"])
}

func TestMigrationStatusFullyApplied(t *testing.T) {
	lookup := &fakeLookup{
		tables: map[string]map[string]string{
			"users": {"id": "UInt64"},
		},
	}

	migrations := []*migrator.Migration{
		{
			Version:    "001_create_users",
			Statements: migrator.SplitStatements("CREATE TABLE `users` (`id` UInt64) ENGINE = MergeTree() ORDER BY id;"),
		},
	}

	status, err := migrator.MigrationStatus(context.Background(), migrations, lookup)
	require.NoError(t, err)
	require.True(t, status.Fully())
	require.Empty(t, status.PendingByVersion)
}
