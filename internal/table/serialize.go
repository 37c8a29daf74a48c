package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type SerializeOptions struct {
	// Continuation breaks the create statement after its opening
	// parenthesis with a trailing backslash, as the DB2 command line
	// processor expects.
	Continuation bool
}

// Serialize renders the drop, create and insert statements for the table in
// its current entry order. Each line ends with a newline.
func (t *Table) Serialize(opts SerializeOptions) string {
	var b strings.Builder
	b.WriteString("drop table " + t.name + "\n")
	b.WriteString("create table " + t.name + " ( ")
	if opts.Continuation {
		b.WriteString("\\\n ")
	}
	b.WriteString(t.schema + ")\n")
	for _, e := range t.entries {
		b.WriteString(e.InsertStatement())
		b.WriteByte('\n')
	}
	return strings.ReplaceAll(b.String(), `"`, "'")
}

// Literal renders a value as a SQL literal. Strings are wrapped in single
// quotes without escaping embedded quotes.
func Literal(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return "'" + val + "'"
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return "'" + val.Format("2006-01-02 15:04:05") + "'"
	case fmt.Stringer:
		return "'" + val.String() + "'"
	default:
		if _, ok := asInt64(v); ok {
			return fmt.Sprint(v)
		}
		return "'" + fmt.Sprint(v) + "'"
	}
}
