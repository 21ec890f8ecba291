package schema

import (
	"fmt"
	"strings"

	"github.com/housekit/housekit/pkg/utils"
)

// CreateDDL generates the full CREATE TABLE statement for the table,
// including columns, skip indices, projections, engine, sorting/partition
// clauses, and the housekit metadata envelope as the table comment.
//
// Example:
//
//	t := &schema.Table{
//		Name:    "events",
//		Columns: []schema.Column{{Name: "id", Type: "Int32"}},
//		Options: schema.TableOptions{Engine: "MergeTree()", OrderBy: "id"},
//	}
//	sql := t.CreateDDL()
//	// CREATE TABLE `events` (`id` Int32) ENGINE = MergeTree() ORDER BY id COMMENT '...'
func (t *Table) CreateDDL() string {
	return t.CreateDDLAs(t.Name)
}

// CreateDDLAs generates the CREATE TABLE statement under a different table
// name. This is how shadow tables are created during a rebuild-and-swap:
// same definition, distinct name.
func (t *Table) CreateDDLAs(name string) string {
	entries := make([]string, 0, len(t.Columns)+len(t.Options.Indices)+len(t.Options.Projections))
	for _, c := range t.Columns {
		entries = append(entries, c.DefinitionSQL())
	}
	for _, idx := range t.Options.Indices {
		entries = append(entries, idx.DefinitionSQL())
	}
	for _, proj := range t.Options.Projections {
		entries = append(entries, proj.DefinitionSQL())
	}

	b := utils.NewSQLBuilder().
		Create("TABLE").
		Name(name)

	if t.Options.OnCluster != nil {
		b.OnCluster(*t.Options.OnCluster)
	}

	b.Raw("(" + strings.Join(entries, ", ") + ")").
		Engine(t.Options.Engine)

	if t.Options.OrderBy != "" {
		b.Raw("ORDER BY " + t.Options.OrderBy)
	}
	if t.Options.PartitionBy != "" {
		b.Raw("PARTITION BY " + t.Options.PartitionBy)
	}
	if t.Options.PrimaryKey != "" {
		b.Raw("PRIMARY KEY " + t.Options.PrimaryKey)
	}
	if t.Options.TTL != "" {
		b.Raw("TTL " + t.Options.TTL)
	}

	if comment, err := t.TargetMetadata(nil).CommentString(); err == nil {
		b.Comment(comment)
	}

	return b.String()
}

// DefinitionSQL returns the column's definition as it appears in CREATE
// TABLE and ADD/MODIFY COLUMN statements: type with optional DEFAULT and
// COMMENT clauses.
func (c Column) DefinitionSQL() string {
	var b strings.Builder
	b.WriteString(utils.BacktickIdentifier(c.Name))
	b.WriteString(" ")
	b.WriteString(c.TypeSQL())

	if c.Default != nil && *c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(*c.Default)
	}
	if c.Comment != nil && *c.Comment != "" {
		b.WriteString(" COMMENT '")
		b.WriteString(utils.EscapeSQLString(*c.Comment))
		b.WriteString("'")
	}

	return b.String()
}

// DefinitionSQL returns the index's definition as used in CREATE TABLE and
// ADD INDEX statements.
func (i IndexDefinition) DefinitionSQL() string {
	s := fmt.Sprintf("INDEX %s %s", utils.BacktickIdentifier(i.Name), i.Expression)
	if i.Type != "" {
		s += " TYPE " + i.Type
	}
	if i.Granularity > 0 {
		s += fmt.Sprintf(" GRANULARITY %d", i.Granularity)
	}
	return s
}

// DefinitionSQL returns the projection's definition as used in CREATE TABLE
// and ADD PROJECTION statements.
func (p ProjectionDefinition) DefinitionSQL() string {
	return fmt.Sprintf("PROJECTION %s (%s)", utils.BacktickIdentifier(p.Name), p.Query)
}
