package normalize_test

import (
	"testing"

	"github.com/housekit/housekit/pkg/normalize"
	"github.com/stretchr/testify/require"
)

func TestType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain type", input: "String", expected: "String"},
		{name: "trims whitespace", input: "  Int32  ", expected: "Int32"},
		{name: "strips default", input: "String DEFAULT 'n/a'", expected: "String"},
		{name: "strips comment", input: "String COMMENT 'name'", expected: "String"},
		{name: "strips default and comment", input: "String DEFAULT 'n/a' COMMENT 'name'", expected: "String"},
		{name: "strips codec", input: "UInt64 CODEC(Delta, ZSTD)", expected: "UInt64"},
		{name: "strips materialized", input: "Date MATERIALIZED toDate(ts)", expected: "Date"},
		{name: "strips column ttl", input: "String TTL ts + INTERVAL 1 DAY", expected: "String"},
		{name: "keyword inside string literal", input: "Enum8('DEFAULT' = 1, 'other' = 2)", expected: "Enum8('DEFAULT' = 1, 'other' = 2)"},
		{name: "nullable untouched", input: "Nullable(String)", expected: "Nullable(String)"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, normalize.Type(tt.input))
		})
	}
}

func TestCanonicalType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "String", expected: "string"},
		{name: "drops whitespace", input: "Decimal(18, 2)", expected: "decimal(18,2)"},
		{name: "preserves quoted segments", input: "DateTime64(3, 'UTC')", expected: "datetime64(3,'UTC')"},
		{name: "preserves enum labels", input: "Enum8('A B' = 1)", expected: "enum8('A B'=1)"},
		{name: "escaped quote stays inside", input: "Enum8('it''s' = 1)", expected: "enum8('it''s'=1)"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, normalize.CanonicalType(tt.input))
		})
	}
}

func TestDefault(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "quoted literal unquoted", input: "'pending'", expected: "pending"},
		{name: "double quoted literal unquoted", input: "\"pending\"", expected: "pending"},
		{name: "function call kept", input: "now()", expected: "now()"},
		{name: "nested call kept", input: "toDate( now() )", expected: "toDate( now() )"},
		{name: "numeric literal", input: "  0  ", expected: "0"},
		{name: "internal whitespace collapsed", input: "a   +   b", expected: "a + b"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, normalize.Default(tt.input))
		})
	}
}

func TestExtractComment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{
			name:     "quoted comment",
			input:    "String DEFAULT 'x' COMMENT 'user name'",
			expected: "user name",
			found:    true,
		},
		{
			name:     "escaped quote unescaped",
			input:    "String COMMENT 'user''s name'",
			expected: "user's name",
			found:    true,
		},
		{
			name:  "no comment",
			input: "String DEFAULT 'COMMENT'",
		},
		{
			name:     "plain type with comment",
			input:    "Int32 COMMENT 'count'",
			expected: "count",
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := normalize.ExtractComment(tt.input)
			require.Equal(t, tt.found, ok)
			require.Equal(t, tt.expected, c)
		})
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_id", "userid"},
		{"UserID", "userid"},
		{"created-at", "createdat"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, normalize.CanonicalName(tt.input))
		})
	}
}

// Every normalizer must be idempotent: applying it to its own output is a
// no-op. The drift engine compares normalized values from two sources that
// may already be partially normalized, so this property is load-bearing.
func TestIdempotence(t *testing.T) {
	samples := []string{
		"",
		"String",
		"String DEFAULT 'n/a' COMMENT 'it''s'",
		"Decimal(18, 2)",
		"DateTime64(3, 'UTC')",
		"Enum8('DEFAULT' = 1)",
		"now()",
		"'pending'",
		"  spaced   out  ",
		"user_id",
		"toDate( now() )",
	}

	for _, s := range samples {
		require.Equal(t, normalize.Type(s), normalize.Type(normalize.Type(s)))
		require.Equal(t, normalize.CanonicalType(s), normalize.CanonicalType(normalize.CanonicalType(s)))
		require.Equal(t, normalize.Default(s), normalize.Default(normalize.Default(s)))
		require.Equal(t, normalize.Comment(s), normalize.Comment(normalize.Comment(s)))
		require.Equal(t, normalize.CanonicalName(s), normalize.CanonicalName(normalize.CanonicalName(s)))
	}
}
