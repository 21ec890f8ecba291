package schema

import (
	"strings"

	"github.com/housekit/housekit/pkg/normalize"
)

type (
	// Table is a code-declared table definition: the desired state the
	// drift engine reconciles the live database against. Instances are
	// owned by the schema loader and treated as immutable by the engine.
	Table struct {
		Name    string       // Table name (without database prefix)
		Columns []Column     // Column definitions in declared order
		Options TableOptions // Engine, sorting, partitioning, and housekit options
	}

	// Column is a single column declaration
	Column struct {
		Name     string  // Column name
		Type     string  // ClickHouse type, e.g. "Int32", "LowCardinality(String)"
		Nullable bool    // Wraps the type in Nullable(...) when set
		Default  *string // Default expression (nil when absent)
		Comment  *string // Column comment (nil when absent)
	}

	// TableOptions holds table-level clauses and housekit's own flags
	TableOptions struct {
		Engine            string                 // Table engine, e.g. "MergeTree()"
		OrderBy           string                 // ORDER BY expression
		PartitionBy       string                 // PARTITION BY expression
		TTL               string                 // Table-level TTL expression
		PrimaryKey        string                 // PRIMARY KEY expression
		OnCluster         *string                // ON CLUSTER target (nil when absent)
		Indices           []IndexDefinition      // Skip indices
		Projections       []ProjectionDefinition // Projections
		MetadataVersion   string                 // Declared housekit schema version
		AppendOnly        bool                   // Rows are only ever inserted
		ReadOnly          *bool                  // Explicit read-only override (nil = unset)
		ExternallyManaged bool                   // Schema owned by another system; report only
		DeduplicateBy     []string               // Columns used for dedup on load
		VersionColumn     *string                // Version column for ReplacingMergeTree-style engines
	}

	// IndexDefinition declares a data-skipping index
	IndexDefinition struct {
		Name        string // Index name
		Expression  string // Indexed expression
		Type        string // Index type, e.g. "minmax", "bloom_filter(0.01)"
		Granularity int    // GRANULARITY value (0 means unspecified)
	}

	// ProjectionDefinition declares a projection
	ProjectionDefinition struct {
		Name  string // Projection name
		Query string // Projection SELECT query
	}
)

// Column returns the column with the given name, or nil when absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the declared column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// TypeSQL returns the column's full type text, applying the Nullable wrapper
// when the column is declared nullable and the type isn't already wrapped.
func (c Column) TypeSQL() string {
	t := strings.TrimSpace(c.Type)
	if c.Nullable && !strings.HasPrefix(t, "Nullable(") {
		return "Nullable(" + t + ")"
	}
	return t
}

// CanonicalName returns the column's fuzzy-matching key.
func (c Column) CanonicalName() string {
	return normalize.CanonicalName(c.Name)
}

// CanonicalName returns the index's fuzzy-matching key.
func (i IndexDefinition) CanonicalName() string {
	return normalize.CanonicalName(i.Name)
}

// CanonicalName returns the projection's fuzzy-matching key.
func (p ProjectionDefinition) CanonicalName() string {
	return normalize.CanonicalName(p.Name)
}
