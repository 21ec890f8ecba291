package utils

import "strings"

// SQLBuilder provides a fluent interface for building ClickHouse DDL
// statements. It handles common patterns like cluster injection, identifier
// backticking, and conditional clause building to reduce duplication across
// the schema and drift packages.
//
// Example usage:
//
//	sql := utils.NewSQLBuilder().
//		Alter("TABLE").
//		Name("events").
//		Raw("MODIFY ORDER BY (id, created_at)").
//		String()
//	// Output: ALTER TABLE `events` MODIFY ORDER BY (id, created_at)
type SQLBuilder struct {
	parts []string
}

// NewSQLBuilder creates a new SQLBuilder instance.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{parts: make([]string, 0, 10)}
}

// Create adds a CREATE clause with the specified object type.
func (b *SQLBuilder) Create(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "CREATE", objectType)
	return b
}

// Alter adds an ALTER clause with the specified object type.
func (b *SQLBuilder) Alter(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "ALTER", objectType)
	return b
}

// Rename adds a RENAME clause with the specified object type.
func (b *SQLBuilder) Rename(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "RENAME", objectType)
	return b
}

// IfNotExists adds an IF NOT EXISTS clause. This should be called after
// Create.
func (b *SQLBuilder) IfNotExists() *SQLBuilder {
	b.parts = append(b.parts, "IF", "NOT", "EXISTS")
	return b
}

// Name adds a backticked object name.
//
// Example:
//
//	builder.Name("analytics")  // `analytics`
//	builder.Name("db.table")   // `db`.`table`
func (b *SQLBuilder) Name(name string) *SQLBuilder {
	if name != "" {
		b.parts = append(b.parts, BacktickIdentifier(name))
	}
	return b
}

// OnCluster adds an ON CLUSTER clause if cluster is not empty.
func (b *SQLBuilder) OnCluster(cluster string) *SQLBuilder {
	if cluster != "" {
		b.parts = append(b.parts, "ON", "CLUSTER", BacktickIdentifier(cluster))
	}
	return b
}

// Engine adds an ENGINE clause with the specified engine name.
//
// Example:
//
//	builder.Engine("MergeTree()")  // ENGINE = MergeTree()
func (b *SQLBuilder) Engine(engine string) *SQLBuilder {
	if engine != "" {
		b.parts = append(b.parts, "ENGINE", "=", engine)
	}
	return b
}

// Comment adds a COMMENT clause with the specified comment text. The
// comment is quoted and SQL-escaped by doubling embedded single quotes.
func (b *SQLBuilder) Comment(comment string) *SQLBuilder {
	if comment != "" {
		b.parts = append(b.parts, "COMMENT", "'"+EscapeSQLString(comment)+"'")
	}
	return b
}

// To adds a TO clause for rename operations.
func (b *SQLBuilder) To(name string) *SQLBuilder {
	if name != "" {
		b.parts = append(b.parts, "TO", BacktickIdentifier(name))
	}
	return b
}

// Raw adds arbitrary SQL text as-is.
func (b *SQLBuilder) Raw(sql string) *SQLBuilder {
	if sql != "" {
		b.parts = append(b.parts, sql)
	}
	return b
}

// String joins the accumulated parts into the final SQL statement.
func (b *SQLBuilder) String() string {
	return strings.Join(b.parts, " ")
}

// EscapeSQLString escapes single quotes in a SQL string literal by doubling
// them, matching the escaping the statement classifier undoes when parsing
// MODIFY COMMENT statements.
func EscapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
