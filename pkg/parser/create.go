package parser

import (
	"strconv"
	"strings"
)

type (
	// CreateOptions holds the structured clauses extracted from a CREATE
	// TABLE statement. Clause values are raw expression text; callers
	// normalize them before comparison. Clauses missing from the statement
	// are empty strings.
	CreateOptions struct {
		Engine      string             // Engine name with parameters, e.g. "MergeTree()"
		OnCluster   string             // Cluster name from ON CLUSTER, if any
		OrderBy     string             // ORDER BY expression text
		PartitionBy string             // PARTITION BY expression text
		TTL         string             // Table-level TTL expression text
		PrimaryKey  string             // PRIMARY KEY expression text
		Indices     []IndexClause      // Skip indices declared in the column list
		Projections []ProjectionClause // Projections declared in the column list
	}

	// IndexClause is a single INDEX entry from a CREATE TABLE column list
	IndexClause struct {
		Name        string // Index name (without backticks)
		Expression  string // Indexed expression text
		Type        string // Index type, e.g. "minmax", "bloom_filter(0.01)"
		Granularity int    // GRANULARITY value (0 when absent)
	}

	// ProjectionClause is a single PROJECTION entry from a CREATE TABLE
	// column list
	ProjectionClause struct {
		Name  string // Projection name (without backticks)
		Query string // Projection query text (inside the parentheses)
	}

	// ColumnClause is a single column definition from a CREATE TABLE column
	// list. RawType retains any inline DEFAULT/MATERIALIZED/ALIAS/CODEC/
	// COMMENT clauses; normalization happens downstream.
	ColumnClause struct {
		Name    string
		RawType string
	}
)

// clause keywords that terminate the value of the preceding clause when
// extracting the tail of a CREATE TABLE statement
var clauseKeywords = []string{
	"ENGINE", "ORDER BY", "PARTITION BY", "PRIMARY KEY", "SAMPLE BY",
	"TTL", "SETTINGS", "COMMENT", "AS",
}

// ParseCreateOptions extracts the structured clauses from a CREATE TABLE
// statement. Parsing is deliberately loose: clauses that cannot be
// recognized are simply absent from the result, never an error, so that
// unsupported DDL degrades to a warning upstream instead of aborting a diff.
//
// Example:
//
//	opts := parser.ParseCreateOptions("CREATE TABLE `t` (`id` Int32) ENGINE = MergeTree() ORDER BY id TTL created + INTERVAL 30 DAY")
//	// opts.Engine == "MergeTree()", opts.OrderBy == "id", opts.TTL == "created + INTERVAL 30 DAY"
func ParseCreateOptions(ddl string) CreateOptions {
	var opts CreateOptions

	head, body, tail, ok := splitCreateParts(ddl)
	if !ok {
		return opts
	}

	if cluster, found := KeywordTail(head, "ON CLUSTER"); found {
		opts.OnCluster = firstToken(cluster)
	}

	for _, entry := range SplitTopLevel(body, ',') {
		entry = strings.TrimSpace(entry)
		switch {
		case IndexKeyword(entry, "INDEX", true) == 0:
			if idx, ok := parseIndexClause(entry); ok {
				opts.Indices = append(opts.Indices, idx)
			}
		case IndexKeyword(entry, "PROJECTION", true) == 0:
			if proj, ok := parseProjectionClause(entry); ok {
				opts.Projections = append(opts.Projections, proj)
			}
		}
	}

	clauses := extractClauses(tail)
	opts.Engine = strings.TrimSpace(strings.TrimPrefix(clauses["ENGINE"], "="))
	opts.OrderBy = clauses["ORDER BY"]
	opts.PartitionBy = clauses["PARTITION BY"]
	opts.PrimaryKey = clauses["PRIMARY KEY"]
	opts.TTL = clauses["TTL"]
	if cluster, found := KeywordTail(tail, "ON CLUSTER"); found && opts.OnCluster == "" {
		opts.OnCluster = firstToken(cluster)
	}

	return opts
}

// ParseCreateColumns extracts the column definitions from a CREATE TABLE
// statement's column list. INDEX, PROJECTION, and CONSTRAINT entries are
// skipped. Returns nil when the statement has no recognizable column list.
func ParseCreateColumns(ddl string) []ColumnClause {
	_, body, _, ok := splitCreateParts(ddl)
	if !ok {
		return nil
	}

	var cols []ColumnClause
	for _, entry := range SplitTopLevel(body, ',') {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if IndexKeyword(entry, "INDEX", true) == 0 ||
			IndexKeyword(entry, "PROJECTION", true) == 0 ||
			IndexKeyword(entry, "CONSTRAINT", true) == 0 {
			continue
		}

		name, rest, ok := takeIdentifier(entry)
		if !ok || rest == "" {
			continue
		}
		cols = append(cols, ColumnClause{Name: name, RawType: rest})
	}

	return cols
}

// splitCreateParts breaks a CREATE TABLE statement into the text before the
// column list, the column list body, and the trailing clauses. Returns
// ok=false when no top-level parenthesized column list is present.
func splitCreateParts(ddl string) (head, body, tail string, ok bool) {
	var state scanState
	start := -1
	skip := false
	runes := []rune(ddl)

	for i, r := range runes {
		if skip {
			skip = false
			continue
		}
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		inQuote, skipNext := state.step(r, next)
		skip = skipNext
		if inQuote {
			continue
		}

		if r == '(' && state.depth == 1 && start < 0 {
			start = i
			continue
		}
		if r == ')' && state.depth == 0 && start >= 0 {
			head = string(runes[:start])
			body = string(runes[start+1 : i])
			tail = string(runes[i+1:])
			return head, body, tail, true
		}
	}

	return "", "", "", false
}

// extractClauses locates every top-level clause keyword in the trailing part
// of a CREATE TABLE statement and returns the text between each keyword and
// the next one.
func extractClauses(tail string) map[string]string {
	type hit struct {
		keyword string
		pos     int
	}

	var hits []hit
	for _, kw := range clauseKeywords {
		if idx := IndexKeyword(tail, kw, true); idx >= 0 {
			hits = append(hits, hit{keyword: kw, pos: idx})
		}
	}

	// Insertion sort by position; the list is tiny
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	clauses := make(map[string]string, len(hits))
	for i, h := range hits {
		end := len(tail)
		if i+1 < len(hits) {
			end = hits[i+1].pos
		}
		value, _ := KeywordTail(tail[h.pos:end], h.keyword)
		clauses[h.keyword] = strings.TrimSuffix(strings.TrimSpace(value), ";")
	}

	return clauses
}

// parseIndexClause parses "INDEX name expr TYPE type GRANULARITY n"
func parseIndexClause(entry string) (IndexClause, bool) {
	rest, found := KeywordTail(entry, "INDEX")
	if !found {
		return IndexClause{}, false
	}

	name, rest, ok := takeIdentifier(rest)
	if !ok {
		return IndexClause{}, false
	}

	idx := IndexClause{Name: name}

	if g := IndexKeyword(rest, "GRANULARITY", true); g >= 0 {
		if value, found := KeywordTail(rest[g:], "GRANULARITY"); found {
			idx.Granularity, _ = strconv.Atoi(firstToken(value))
		}
		rest = strings.TrimSpace(rest[:g])
	}
	if t := IndexKeyword(rest, "TYPE", true); t >= 0 {
		if value, found := KeywordTail(rest[t:], "TYPE"); found {
			idx.Type = strings.TrimSpace(value)
		}
		rest = strings.TrimSpace(rest[:t])
	}
	idx.Expression = strings.TrimSpace(rest)

	return idx, idx.Name != ""
}

// parseProjectionClause parses "PROJECTION name (SELECT ...)"
func parseProjectionClause(entry string) (ProjectionClause, bool) {
	rest, found := KeywordTail(entry, "PROJECTION")
	if !found {
		return ProjectionClause{}, false
	}

	name, rest, ok := takeIdentifier(rest)
	if !ok {
		return ProjectionClause{}, false
	}

	rest = strings.TrimSpace(rest)
	if len(rest) >= 2 && rest[0] == '(' && rest[len(rest)-1] == ')' {
		rest = rest[1 : len(rest)-1]
	}

	return ProjectionClause{Name: name, Query: strings.TrimSpace(rest)}, name != ""
}

// takeIdentifier consumes a leading identifier (backticked, double-quoted,
// or bare) from s and returns it along with the remaining text.
func takeIdentifier(s string) (ident, rest string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", false
	}

	if s[0] == '`' || s[0] == '"' {
		quote := s[0]
		end := strings.IndexByte(s[1:], quote)
		if end < 0 {
			return "", "", false
		}
		return s[1 : end+1], strings.TrimSpace(s[end+2:]), true
	}

	end := strings.IndexFunc(s, func(r rune) bool { return !isWordRune(r) })
	if end < 0 {
		return s, "", true
	}
	if end == 0 {
		return "", "", false
	}
	return s[:end], strings.TrimSpace(s[end:]), true
}

// firstToken returns the first whitespace-delimited token of s, with any
// surrounding backticks removed.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "`")
}
