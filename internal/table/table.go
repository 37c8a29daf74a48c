package table

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mmrzaf/coursegen/internal/generators"
)

var ErrColumnMismatch = errors.New("field produced wrong number of values")

// Table is an ordered collection of entries plus the fields that define its
// columns. Tables are built and read by a single goroutine.
type Table struct {
	name    string
	schema  string
	fields  []generators.Field
	entries []*Entry
}

// New creates an empty table. The schema is the DDL body placed between the
// parentheses of "create table"; it is not interpreted.
func New(name, schema string, fields ...generators.Field) *Table {
	return &Table{
		name:   name,
		schema: strings.ReplaceAll(schema, "\n", ""),
		fields: fields,
	}
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Schema() string {
	return t.schema
}

func (t *Table) Fields() []generators.Field {
	return t.fields
}

func (t *Table) Entries() []*Entry {
	return t.entries
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Columns concatenates the output columns of every field in declaration
// order. This is the column order of every INSERT.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		cols = append(cols, f.Columns()...)
	}
	return cols
}

// Project implements generators.RowSource.
func (t *Table) Project(i int, columns []string) []interface{} {
	return t.entries[i].Project(columns)
}

// GenerateRow produces every field once and stores the merged row. Fields
// are expected to have disjoint columns; on overlap the later field wins.
func (t *Table) GenerateRow() (*Entry, error) {
	values := make(map[string]interface{})
	for _, f := range t.fields {
		cols := f.Columns()
		vals, err := f.Produce()
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.name, err)
		}
		if len(vals) != len(cols) {
			return nil, fmt.Errorf("table %s, columns %v: got %d values: %w", t.name, cols, len(vals), ErrColumnMismatch)
		}
		for i, c := range cols {
			values[c] = vals[i]
		}
	}
	return t.AddRow(values), nil
}

func (t *Table) Generate(n int) error {
	for i := 0; i < n; i++ {
		if _, err := t.GenerateRow(); err != nil {
			return err
		}
	}
	return nil
}

// AddRow stores an explicit row as given.
func (t *Table) AddRow(values map[string]interface{}) *Entry {
	e := &Entry{table: t, values: values}
	t.entries = append(t.entries, e)
	return e
}

// PrimaryKey drops entries whose key tuple was already seen, keeping the
// first one, and sorts the rest ascending by that tuple. It returns the
// number of entries removed.
func (t *Table) PrimaryKey(columns ...string) int {
	before := len(t.entries)
	t.entries = uniqueSorted(t.entries, columns)
	return before - len(t.entries)
}

func uniqueSorted(entries []*Entry, columns []string) []*Entry {
	sorted := slices.Clone(entries)
	cmpKey := func(a, b *Entry) int {
		return CompareTuples(a.Project(columns), b.Project(columns))
	}
	// Stable, so the first-seen entry leads each run of equal keys.
	slices.SortStableFunc(sorted, cmpKey)
	return slices.CompactFunc(sorted, func(a, b *Entry) bool {
		return cmpKey(a, b) == 0
	})
}

// Rows returns every entry as a value slice in Columns order.
func (t *Table) Rows() [][]interface{} {
	cols := t.Columns()
	rows := make([][]interface{}, len(t.entries))
	for i, e := range t.entries {
		rows[i] = e.Project(cols)
	}
	return rows
}
