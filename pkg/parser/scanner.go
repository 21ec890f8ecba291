package parser

import (
	"strings"
	"unicode"
)

// scanState tracks quoting and nesting context while walking DDL text one
// rune at a time. ClickHouse DDL mixes single-quoted strings, double-quoted
// identifiers, backticked identifiers, and arbitrarily nested parentheses
// (function calls in defaults, tuple types, etc.), so naive regex splitting
// breaks down quickly. All top-level scanning in this package goes through
// this state machine.
type scanState struct {
	quote rune // active quote rune (0 when outside quotes)
	depth int  // parenthesis nesting depth
}

// step advances the state by one rune and reports whether the rune was
// consumed as part of a quoted region. Doubled quotes ('' or "") inside a
// quoted region are treated as escapes and do not terminate the region.
func (s *scanState) step(r rune, next rune) (inQuote bool, skipNext bool) {
	if s.quote != 0 {
		if r == s.quote {
			if next == s.quote {
				return true, true // escaped quote, stay inside
			}
			s.quote = 0
		}
		return true, false
	}

	switch r {
	case '\'', '"', '`':
		s.quote = r
		return true, false
	case '(':
		s.depth++
	case ')':
		if s.depth > 0 {
			s.depth--
		}
	}
	return false, false
}

// topLevel reports whether the scanner is currently outside all quotes and
// parentheses.
func (s *scanState) topLevel() bool {
	return s.quote == 0 && s.depth == 0
}

// SplitTopLevel splits s on sep, but only where sep occurs outside of
// single/double/backtick quotes and outside of any parentheses. This is the
// splitter used for CREATE TABLE column lists and for breaking migration
// files into individual statements.
//
// Example:
//
//	parts := parser.SplitTopLevel("`id` Int32, `name` String DEFAULT concat('a', 'b')", ',')
//	// ["`id` Int32", " `name` String DEFAULT concat('a', 'b')"]
func SplitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		state scanState
		start int
		skip  bool
	)

	runes := []rune(s)
	byteOffset := 0
	offsets := make([]int, len(runes)+1)
	for i, r := range runes {
		offsets[i] = byteOffset
		byteOffset += len(string(r))
	}
	offsets[len(runes)] = byteOffset

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

		if !inQuote && state.topLevel() && r == sep {
			parts = append(parts, s[offsets[start]:offsets[i]])
			start = i + 1
		}
	}
	parts = append(parts, s[offsets[start]:])

	return parts
}

// IndexKeyword returns the byte index of the first occurrence of keyword in
// s that sits outside of quoted regions, at a word boundary, matched
// case-insensitively. Multi-word keywords may be separated by arbitrary
// whitespace ("ORDER   BY" matches "ORDER BY"). Returns -1 when no such
// occurrence exists.
//
// When topLevelOnly is true, occurrences nested inside parentheses are
// skipped as well.
func IndexKeyword(s, keyword string, topLevelOnly bool) int {
	words := strings.Fields(strings.ToUpper(keyword))
	if len(words) == 0 {
		return -1
	}

	var state scanState
	runes := []rune(s)
	skip := false

	for i := 0; i < len(runes); i++ {
		if skip {
			skip = false
			continue
		}
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		inQuote, skipNext := state.step(runes[i], next)
		skip = skipNext
		if inQuote {
			continue
		}
		if topLevelOnly && !state.topLevel() {
			continue
		}

		if _, ok := matchKeywordAt(runes, i, words); ok {
			return byteIndex(s, i)
		}
	}

	return -1
}

// matchKeywordAt attempts to match the given keyword words starting at rune
// index i, requiring word boundaries on both sides.
func matchKeywordAt(runes []rune, i int, words []string) (int, bool) {
	if i > 0 && isWordRune(runes[i-1]) {
		return 0, false
	}

	pos := i
	for wi, word := range words {
		wr := []rune(word)
		if pos+len(wr) > len(runes) {
			return 0, false
		}
		for _, r := range wr {
			if unicode.ToUpper(runes[pos]) != r {
				return 0, false
			}
			pos++
		}
		if wi < len(words)-1 {
			// Require at least one whitespace rune between words
			if pos >= len(runes) || !unicode.IsSpace(runes[pos]) {
				return 0, false
			}
			for pos < len(runes) && unicode.IsSpace(runes[pos]) {
				pos++
			}
		}
	}

	if pos < len(runes) && isWordRune(runes[pos]) {
		return 0, false
	}
	return pos, true
}

// KeywordTail returns the text following the first top-level occurrence of
// keyword in s, or ("", false) when the keyword is absent.
func KeywordTail(s, keyword string) (string, bool) {
	idx := IndexKeyword(s, keyword, true)
	if idx < 0 {
		return "", false
	}
	rest := s[idx:]
	// Skip the keyword words themselves
	words := strings.Fields(keyword)
	for range words {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		cut := strings.IndexFunc(rest, func(r rune) bool { return !isWordRune(r) })
		if cut < 0 {
			return "", true
		}
		rest = rest[cut:]
	}
	return strings.TrimSpace(rest), true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func byteIndex(s string, runeIdx int) int {
	count := 0
	for i := range s {
		if count == runeIdx {
			return i
		}
		count++
	}
	return len(s)
}

// BalancedParens reports whether s contains at least one parenthesis and all
// parentheses outside quoted regions are balanced. Used to distinguish
// function-call expressions from plain literals in default values.
func BalancedParens(s string) bool {
	var state scanState
	depth := 0
	seen := false
	skip := false
	runes := []rune(s)

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
		switch r {
		case '(':
			seen = true
			depth++
		case ')':
			seen = true
			depth--
			if depth < 0 {
				return false
			}
		}
	}

	return seen && depth == 0 && state.quote == 0
}
