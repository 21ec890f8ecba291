package parser

import (
	"regexp"
	"strings"
)

const (
	// KindCreateTable is a CREATE TABLE statement
	KindCreateTable StatementKind = "CREATE_TABLE"
	// KindAddColumn is an ALTER TABLE ... ADD COLUMN statement
	KindAddColumn StatementKind = "ALTER_ADD_COLUMN"
	// KindModifyColumn is an ALTER TABLE ... MODIFY COLUMN statement
	KindModifyColumn StatementKind = "ALTER_MODIFY_COLUMN"
	// KindModifyComment is an ALTER TABLE ... MODIFY COMMENT statement
	KindModifyComment StatementKind = "ALTER_MODIFY_COMMENT"
	// KindAlterTable is any other ALTER TABLE statement
	KindAlterTable StatementKind = "ALTER_TABLE"
	// KindDropTable is a DROP TABLE statement
	KindDropTable StatementKind = "DROP_TABLE"
	// KindOther is any statement the classifier does not recognize. Such
	// statements are still executed verbatim; classification failure only
	// disables idempotency short-circuiting.
	KindOther StatementKind = "OTHER"
)

type (
	// StatementKind identifies the DDL operation a statement performs
	StatementKind string

	// Statement is the typed descriptor produced by Classify. Only the
	// fields relevant to the detected kind are populated; all others are
	// empty strings.
	Statement struct {
		Kind       StatementKind // Detected operation kind
		Table      string        // Target table name (without backticks)
		Column     string        // Column name for ADD/MODIFY COLUMN
		ColumnType string        // Raw column type text for ADD/MODIFY COLUMN
		Comment    string        // Comment text for MODIFY COMMENT (unescaped)
		Raw        string        // The original statement text
	}
)

// Patterns are anchored on the leading DDL keyword and the backtick-quoted
// identifier immediately following it. Anything that doesn't match degrades
// to KindOther rather than failing.
var (
	createTableRe = regexp.MustCompile("(?is)^\\s*CREATE\\s+TABLE\\s+(?:IF\\s+NOT\\s+EXISTS\\s+)?`([^`]+)`")
	addColumnRe   = regexp.MustCompile("(?is)^\\s*ALTER\\s+TABLE\\s+`([^`]+)`\\s+(?:ON\\s+CLUSTER\\s+\\S+\\s+)?ADD\\s+COLUMN\\s+(?:IF\\s+NOT\\s+EXISTS\\s+)?`([^`]+)`\\s+(.+?)\\s*;?\\s*$")
	modColumnRe   = regexp.MustCompile("(?is)^\\s*ALTER\\s+TABLE\\s+`([^`]+)`\\s+(?:ON\\s+CLUSTER\\s+\\S+\\s+)?MODIFY\\s+COLUMN\\s+(?:IF\\s+EXISTS\\s+)?`([^`]+)`\\s+(.+?)\\s*;?\\s*$")
	modCommentRe  = regexp.MustCompile("(?is)^\\s*ALTER\\s+TABLE\\s+`([^`]+)`\\s+(?:ON\\s+CLUSTER\\s+\\S+\\s+)?MODIFY\\s+COMMENT\\s+'((?:[^']|'')*)'\\s*;?\\s*$")
	alterTableRe  = regexp.MustCompile("(?is)^\\s*ALTER\\s+TABLE\\s+`([^`]+)`")
	dropTableRe   = regexp.MustCompile("(?is)^\\s*DROP\\s+TABLE\\s+(?:IF\\s+EXISTS\\s+)?`([^`]+)`")
)

// Classify parses a single DDL statement into a typed descriptor. It
// recognizes the DDL subset housekit generates itself (CREATE TABLE,
// ADD/MODIFY COLUMN, MODIFY COMMENT, DROP TABLE); every other statement is
// reported as KindOther and passed through untouched.
//
// Example:
//
//	stmt := parser.Classify("ALTER TABLE `events` ADD COLUMN `age` Int32")
//	// stmt.Kind == parser.KindAddColumn
//	// stmt.Table == "events", stmt.Column == "age", stmt.ColumnType == "Int32"
func Classify(text string) Statement {
	stmt := Statement{Kind: KindOther, Raw: text}

	if m := createTableRe.FindStringSubmatch(text); m != nil {
		stmt.Kind = KindCreateTable
		stmt.Table = m[1]
		return stmt
	}

	if m := addColumnRe.FindStringSubmatch(text); m != nil {
		stmt.Kind = KindAddColumn
		stmt.Table = m[1]
		stmt.Column = m[2]
		stmt.ColumnType = strings.TrimSpace(m[3])
		return stmt
	}

	if m := modColumnRe.FindStringSubmatch(text); m != nil {
		stmt.Kind = KindModifyColumn
		stmt.Table = m[1]
		stmt.Column = m[2]
		stmt.ColumnType = strings.TrimSpace(m[3])
		return stmt
	}

	if m := modCommentRe.FindStringSubmatch(text); m != nil {
		stmt.Kind = KindModifyComment
		stmt.Table = m[1]
		stmt.Comment = strings.ReplaceAll(m[2], "''", "'")
		return stmt
	}

	if m := alterTableRe.FindStringSubmatch(text); m != nil {
		stmt.Kind = KindAlterTable
		stmt.Table = m[1]
		return stmt
	}

	if m := dropTableRe.FindStringSubmatch(text); m != nil {
		stmt.Kind = KindDropTable
		stmt.Table = m[1]
		return stmt
	}

	return stmt
}
