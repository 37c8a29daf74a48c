package table

import (
	"strings"
)

// Entry is one generated row. It belongs to exactly one Table.
type Entry struct {
	table  *Table
	values map[string]interface{}
}

func (e *Entry) Table() *Table {
	return e.table
}

func (e *Entry) Value(column string) interface{} {
	return e.values[column]
}

// Values returns a copy of the row, safe to modify and feed into AddRow.
func (e *Entry) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

func (e *Entry) Project(columns []string) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		out[i] = e.values[c]
	}
	return out
}

// OrderedValues lists the row in the table's field declaration order.
func (e *Entry) OrderedValues() []interface{} {
	return e.Project(e.table.Columns())
}

func (e *Entry) InsertStatement() string {
	vals := e.OrderedValues()
	lits := make([]string, len(vals))
	for i, v := range vals {
		lits[i] = Literal(v)
	}
	return "insert into " + e.table.name + " values (" + strings.Join(lits, ",") + ")"
}
