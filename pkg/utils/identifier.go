package utils

import "strings"

// BacktickIdentifier adds backticks around an identifier, handling nested identifiers.
// It properly handles database.table.column style identifiers by backticking each part.
//
// Examples:
//   - "table" -> "`table`"
//   - "database.table" -> "`database`.`table`"
//   - "`table`" -> "`table`" (already backticked, not double-backticked)
//   - "" -> ""
//
// This function is used throughout the codebase for consistent identifier formatting
// in generated DDL statements.
func BacktickIdentifier(name string) string {
	if name == "" {
		return ""
	}

	// A fully backticked single identifier (possibly containing dots) is
	// returned as-is rather than double-backticked
	if len(name) >= 2 && name[0] == '`' && name[len(name)-1] == '`' {
		inner := name[1 : len(name)-1]
		if !strings.Contains(inner, "`") {
			return name
		}
	}

	parts := strings.Split(name, ".")
	for i, part := range parts {
		if len(part) >= 2 && part[0] == '`' && part[len(part)-1] == '`' {
			continue
		}
		parts[i] = "`" + part + "`"
	}
	return strings.Join(parts, ".")
}

// IsBackticked checks if a string is already wrapped in backticks.
//
// Examples:
//   - "`table`" -> true
//   - "table" -> false
//   - "`db`.`table`" -> false (qualified name, not a single backticked identifier)
func IsBackticked(s string) bool {
	return len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' && !strings.Contains(s[1:len(s)-1], "`")
}

// StripBackticks removes backticks from an identifier if present.
//
// Examples:
//   - "`table`" -> "table"
//   - "`db`.`table`" -> "db.table"
func StripBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "")
}
