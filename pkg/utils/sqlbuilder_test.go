package utils_test

import (
	"testing"

	"github.com/housekit/housekit/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestSQLBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() string
		expected string
	}{
		{
			name: "create table",
			build: func() string {
				return utils.NewSQLBuilder().
					Create("TABLE").
					IfNotExists().
					Name("events").
					Engine("MergeTree()").
					String()
			},
			expected: "CREATE TABLE IF NOT EXISTS `events` ENGINE = MergeTree()",
		},
		{
			name: "alter with raw clause",
			build: func() string {
				return utils.NewSQLBuilder().
					Alter("TABLE").
					Name("events").
					Raw("MODIFY ORDER BY (id, created_at)").
					String()
			},
			expected: "ALTER TABLE `events` MODIFY ORDER BY (id, created_at)",
		},
		{
			name: "rename with to",
			build: func() string {
				return utils.NewSQLBuilder().
					Rename("TABLE").
					Name("old").
					To("new").
					String()
			},
			expected: "RENAME TABLE `old` TO `new`",
		},
		{
			name: "on cluster",
			build: func() string {
				return utils.NewSQLBuilder().
					Create("TABLE").
					Name("events").
					OnCluster("prod").
					String()
			},
			expected: "CREATE TABLE `events` ON CLUSTER `prod`",
		},
		{
			name: "comment is escaped",
			build: func() string {
				return utils.NewSQLBuilder().
					Create("TABLE").
					Name("t").
					Comment("it's here").
					String()
			},
			expected: "CREATE TABLE `t` COMMENT 'it''s here'",
		},
		{
			name: "empty clauses are skipped",
			build: func() string {
				return utils.NewSQLBuilder().
					Create("TABLE").
					Name("t").
					OnCluster("").
					Engine("").
					Comment("").
					String()
			},
			expected: "CREATE TABLE `t`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.build())
		})
	}
}

func TestEscapeSQLString(t *testing.T) {
	require.Equal(t, "it''s", utils.EscapeSQLString("it's"))
	require.Equal(t, "plain", utils.EscapeSQLString("plain"))
	require.Equal(t, "", utils.EscapeSQLString(""))
}
