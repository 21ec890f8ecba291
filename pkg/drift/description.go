package drift

import (
	"strings"

	"github.com/housekit/housekit/pkg/normalize"
	"github.com/housekit/housekit/pkg/parser"
)

type (
	// RemoteTableDescription is the structured view of a live table, built
	// from introspection output on every analysis call. It is never cached
	// across invocations: each diff sees the remote state at call time.
	RemoteTableDescription struct {
		// Columns maps exact column name to its raw type text. The raw text
		// may still embed inline DEFAULT/COMMENT/CODEC clauses when it was
		// recovered from CREATE statement text.
		Columns map[string]string

		// ColumnOrder preserves the remote declaration order, which the
		// purely-additive gate compares against the local order.
		ColumnOrder []string

		// Defaults maps lowercased column name to its raw default expression.
		Defaults map[string]string

		// Comments maps lowercased column name to its comment text.
		Comments map[string]string

		// Options holds the table-level clauses parsed from the CREATE text.
		Options parser.CreateOptions

		// Comment is the table comment, possibly a JSON metadata envelope.
		Comment *string
	}

	// ColumnRow is one row of column introspection output (DESCRIBE TABLE /
	// system.columns).
	ColumnRow struct {
		Name              string
		Type              string
		DefaultKind       string // "DEFAULT", "MATERIALIZED", "ALIAS", or ""
		DefaultExpression string
		Comment           string
	}
)

// BuildDescription assembles a RemoteTableDescription from the two
// redundant introspection sources: the column listing and the CREATE
// statement text. When both carry a value for the same column, the column
// listing wins for the type, while defaults and comments present only in
// the CREATE text are merged in. A CREATE text that cannot be parsed
// degrades to empty options rather than failing: the diff then reports
// conservative option drift instead of aborting.
func BuildDescription(columns []ColumnRow, createDDL string, tableComment *string) *RemoteTableDescription {
	desc := &RemoteTableDescription{
		Columns:  make(map[string]string, len(columns)),
		Defaults: make(map[string]string),
		Comments: make(map[string]string),
		Comment:  tableComment,
	}

	for _, row := range columns {
		if row.Name == "" {
			continue
		}
		desc.Columns[row.Name] = row.Type
		desc.ColumnOrder = append(desc.ColumnOrder, row.Name)

		key := strings.ToLower(row.Name)
		if row.DefaultExpression != "" && row.DefaultKind != "MATERIALIZED" && row.DefaultKind != "ALIAS" {
			desc.Defaults[key] = row.DefaultExpression
		}
		if row.Comment != "" {
			desc.Comments[key] = row.Comment
		}
	}

	if createDDL != "" {
		desc.Options = parser.ParseCreateOptions(createDDL)
		desc.mergeCreateColumns(parser.ParseCreateColumns(createDDL))
	}

	return desc
}

// mergeCreateColumns folds column information recovered from CREATE text
// into the description. Types from the column listing win; defaults and
// comments only present inline in the CREATE text fill the gaps.
func (d *RemoteTableDescription) mergeCreateColumns(cols []parser.ColumnClause) {
	for _, col := range cols {
		key := strings.ToLower(col.Name)

		if _, ok := d.Columns[col.Name]; !ok {
			d.Columns[col.Name] = col.RawType
			d.ColumnOrder = append(d.ColumnOrder, col.Name)
		}

		if _, ok := d.Defaults[key]; !ok {
			if expr := inlineDefault(col.RawType); expr != "" {
				d.Defaults[key] = expr
			}
		}
		if _, ok := d.Comments[key]; !ok {
			if comment, found := normalize.ExtractComment(col.RawType); found && comment != "" {
				d.Comments[key] = comment
			}
		}
	}
}

// ColumnDefault returns the raw default expression for a column, if any.
func (d *RemoteTableDescription) ColumnDefault(name string) string {
	return d.Defaults[strings.ToLower(name)]
}

// ColumnComment returns the comment for a column, falling back to a comment
// embedded inline in the raw type text.
func (d *RemoteTableDescription) ColumnComment(name string) string {
	if c, ok := d.Comments[strings.ToLower(name)]; ok {
		return c
	}
	if c, found := normalize.ExtractComment(d.Columns[name]); found {
		return c
	}
	return ""
}

// inlineDefault extracts a DEFAULT expression embedded in raw type text,
// stopping at the next inline clause keyword.
func inlineDefault(rawType string) string {
	idx := parser.IndexKeyword(rawType, "DEFAULT", false)
	if idx < 0 {
		return ""
	}

	expr, _ := parser.KeywordTail(rawType[idx:], "DEFAULT")
	for _, kw := range []string{"COMMENT", "CODEC", "TTL"} {
		if cut := parser.IndexKeyword(expr, kw, true); cut >= 0 {
			expr = expr[:cut]
		}
	}
	return strings.TrimSpace(expr)
}
