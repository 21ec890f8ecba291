// Package normalize provides pure canonicalization functions for SQL types,
// default expressions, comments, and identifiers so that structurally-equal
// values compare equal regardless of whitespace or quoting differences.
//
// Every function in this package is total over arbitrary text (never panics,
// never errors) and idempotent: normalize(normalize(x)) == normalize(x).
// The drift engine relies on both properties.
package normalize

import (
	"strings"
	"unicode"

	"github.com/housekit/housekit/pkg/parser"
)

// inline column clauses that may trail a raw type from SHOW CREATE TABLE or
// system.columns output
var inlineClauses = []string{"COMMENT", "DEFAULT", "MATERIALIZED", "ALIAS", "CODEC", "TTL"}

// Type strips any inline COMMENT/DEFAULT/MATERIALIZED/ALIAS/CODEC/TTL suffix
// from a raw column type and trims whitespace. Clause keywords are detected
// outside of quoted regions, so keywords appearing inside string literals
// (e.g. Enum8('DEFAULT' = 1)) are not mistaken for clause boundaries.
//
// Example:
//
//	normalize.Type("String DEFAULT 'n/a' COMMENT 'name'") // "String"
//	normalize.Type("Nullable(String)")                    // "Nullable(String)"
func Type(raw string) string {
	s := strings.TrimSpace(raw)
	cut := len(s)
	for _, kw := range inlineClauses {
		if idx := parser.IndexKeyword(s, kw, false); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(s[:cut])
}

// CanonicalType lowercases a type and removes all whitespace outside quoted
// segments, producing the form used for strict equality comparison.
//
// Example:
//
//	normalize.CanonicalType("Decimal(18, 2)")       // "decimal(18,2)"
//	normalize.CanonicalType("DateTime64(3, 'UTC')") // "datetime64(3,'UTC')"
//
// Quoted segments keep their case and spacing so that literal type
// parameters (timezones, enum labels) still compare exactly.
func CanonicalType(t string) string {
	var (
		b     strings.Builder
		quote rune
		skip  bool
	)

	runes := []rune(t)
	for i, r := range runes {
		if skip {
			b.WriteRune(r)
			skip = false
			continue
		}

		if quote != 0 {
			if r == quote {
				if i+1 < len(runes) && runes[i+1] == quote {
					b.WriteRune(r)
					skip = true
					continue
				}
				quote = 0
			}
			b.WriteRune(r)
			continue
		}

		switch {
		case r == '\'' || r == '"' || r == '`':
			quote = r
			b.WriteRune(r)
		case unicode.IsSpace(r):
			// dropped
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}

// Default canonicalizes a default expression for comparison. Whitespace is
// trimmed and collapsed; values containing balanced parentheses are treated
// as function-call expressions and kept as-is, while plain literal values
// have surrounding single or double quotes stripped.
//
// Example:
//
//	normalize.Default("'pending'") // "pending"
//	normalize.Default("now()")     // "now()"
//	normalize.Default("  0  ")     // "0"
func Default(raw string) string {
	s := collapseSpace(raw)
	if s == "" {
		return ""
	}

	if parser.BalancedParens(s) {
		return s
	}

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}

	return s
}

// ExtractComment locates a COMMENT clause outside of quoted regions in a raw
// type string and returns its argument with any doubled-quote escaping
// undone. The second return value reports whether a COMMENT clause was
// found.
//
// Example:
//
//	c, ok := normalize.ExtractComment("String DEFAULT 'x' COMMENT 'user''s name'")
//	// c == "user's name", ok == true
func ExtractComment(rawType string) (string, bool) {
	idx := parser.IndexKeyword(rawType, "COMMENT", false)
	if idx < 0 {
		return "", false
	}

	arg, _ := parser.KeywordTail(rawType[idx:], "COMMENT")
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", true
	}

	if arg[0] == '\'' || arg[0] == '"' {
		quote := arg[0]
		inner := readQuoted(arg, quote)
		return strings.ReplaceAll(inner, string(quote)+string(quote), string(quote)), true
	}

	// Bare argument: take up to the next whitespace
	if end := strings.IndexFunc(arg, unicode.IsSpace); end >= 0 {
		return arg[:end], true
	}
	return arg, true
}

// Comment canonicalizes a comment for comparison by trimming and collapsing
// internal whitespace.
func Comment(raw string) string {
	return collapseSpace(raw)
}

// CanonicalName lowercases a name and strips all non-alphanumeric
// characters. It is used only for fuzzy candidate matching during rename
// detection, never for primary equality.
//
// Example:
//
//	normalize.CanonicalName("user_id") // "userid"
//	normalize.CanonicalName("UserID")  // "userid"
func CanonicalName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// collapseSpace trims s and collapses every internal whitespace run to a
// single space
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// readQuoted returns the contents of a quoted region starting at s[0],
// honoring doubled-quote escapes. If the region is unterminated the rest of
// the string is returned.
func readQuoted(s string, quote byte) string {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				b.WriteByte(quote)
				b.WriteByte(quote)
				i++
				continue
			}
			return b.String()
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
