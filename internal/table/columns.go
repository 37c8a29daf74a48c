package table

import (
	"fmt"
	"slices"
	"strings"
)

var constraintWords = []string{"primary", "foreign", "references", "unique", "constraint", "check", "key", "index"}

// DeclaredColumns lists the column names defined in a DDL body, skipping
// table constraints. Commas inside parentheses do not split clauses.
func DeclaredColumns(schema string) []string {
	var cols []string
	for _, clause := range splitClauses(strings.ReplaceAll(schema, "\n", " ")) {
		words := strings.Fields(clause)
		if len(words) == 0 {
			continue
		}
		if slices.Contains(constraintWords, strings.ToLower(words[0])) {
			continue
		}
		cols = append(cols, strings.Trim(words[0], "\"`"))
	}
	return cols
}

func splitClauses(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// CheckColumns compares the field columns with the columns declared in the
// schema, in order. It is a debugging aid; generation never calls it.
func (t *Table) CheckColumns() error {
	declared := DeclaredColumns(t.schema)
	have := t.Columns()
	if !slices.Equal(declared, have) {
		return fmt.Errorf("table %s: fields give columns %v, schema declares %v", t.name, have, declared)
	}
	return nil
}
