package data

import "strings"

// MatchKind selects how a Pattern compares against a normalized header.
type MatchKind int

const (
	MatchEquals MatchKind = iota
	MatchContains
)

// Pattern is one header test. Text is compared against the normalized header.
type Pattern struct {
	Kind MatchKind
	Text string
}

func Equals(text string) Pattern   { return Pattern{Kind: MatchEquals, Text: NormalizeHeader(text)} }
func Contains(text string) Pattern { return Pattern{Kind: MatchContains, Text: NormalizeHeader(text)} }

func (p Pattern) matches(normalized string) bool {
	switch p.Kind {
	case MatchEquals:
		return normalized == p.Text
	case MatchContains:
		return strings.Contains(normalized, p.Text)
	default:
		return false
	}
}

// ColumnRule binds a canonical field to an ordered list of header patterns.
type ColumnRule struct {
	Field    string
	Patterns []Pattern
}

// ResolveColumns evaluates rules in order and returns field -> column index.
// Within a rule, patterns are tried in order and headers left to right; the
// first match wins. A header claimed by an earlier rule is skipped. The first
// rule that cannot be resolved is returned as missing.
func ResolveColumns(headers []string, rules []ColumnRule) (map[string]int, string, bool) {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = NormalizeHeader(h)
	}
	claimed := make([]bool, len(headers))
	out := make(map[string]int, len(rules))

	for _, rule := range rules {
		idx := -1
	patterns:
		for _, p := range rule.Patterns {
			for i, h := range norm {
				if claimed[i] || h == "" {
					continue
				}
				if p.matches(h) {
					idx = i
					break patterns
				}
			}
		}
		if idx < 0 {
			return out, rule.Field, false
		}
		claimed[idx] = true
		out[rule.Field] = idx
	}
	return out, "", true
}

// NormalizeHeader lower-cases, trims, strips a UTF-8 BOM and collapses inner
// whitespace.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

func resolveOrFail(source, path string, headers []string, rules []ColumnRule) (map[string]int, error) {
	cols, missing, ok := ResolveColumns(headers, rules)
	if !ok {
		return nil, &ColumnNotFoundError{
			Source:  source,
			File:    path,
			Field:   missing,
			Headers: append([]string(nil), headers...),
		}
	}
	return cols, nil
}
