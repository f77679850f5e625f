package csvparser

import (
	"sort"
	"strings"
)

// =============================================================================
// RECORD & FIELD RESOLVER
// =============================================================================

// Record is one data row keyed by header name. Values are trimmed; columns
// missing from a short row hold "".
type Record map[string]string

// First returns the first candidate that is present with a non-empty value.
//
// Each candidate is tried as written and then with dots replaced by
// underscores, since different export generator versions use both
// `table.column` and `table_column` headers. Returns "" when nothing matches.
func (r Record) First(candidates ...string) string {
	for _, name := range candidates {
		if v := r[name]; v != "" {
			return v
		}
		if alt := strings.ReplaceAll(name, ".", "_"); alt != name {
			if v := r[alt]; v != "" {
				return v
			}
		}
	}
	return ""
}

// =============================================================================
// COLUMN SETS
// =============================================================================

// ColumnSet maps a logical field name (e.g. "poNumber") to its ordered
// candidate column names.
type ColumnSet map[string][]string

// Candidates returns the candidate list for a logical field.
func (c ColumnSet) Candidates(field string) []string {
	return c[field]
}

// Resolve looks a logical field up in the record.
func (c ColumnSet) Resolve(r Record, field string) string {
	return r.First(c[field]...)
}

// Clone returns a deep copy.
func (c ColumnSet) Clone() ColumnSet {
	out := make(ColumnSet, len(c))
	for field, names := range c {
		out[field] = append([]string(nil), names...)
	}
	return out
}

// WithSynonyms returns a copy of c where each field's extra synonyms are
// tried before the built-in candidates. Duplicates keep their first position.
// Fields unknown to c are added.
func (c ColumnSet) WithSynonyms(extra map[string][]string) ColumnSet {
	out := c.Clone()
	for field, names := range extra {
		out[field] = dedupe(append(append([]string(nil), names...), out[field]...))
	}
	return out
}

// Fields returns the logical field names in sorted order.
func (c ColumnSet) Fields() []string {
	fields := make([]string, 0, len(c))
	for field := range c {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
