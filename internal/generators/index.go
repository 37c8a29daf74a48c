package generators

// IndexField is an auto-increment column. It is the only stateful strategy;
// the counter belongs to this instance alone.
type IndexField struct {
	columns []string
	counter int
}

func Index(columns ...string) *IndexField {
	return &IndexField{columns: columns}
}

func (f *IndexField) Columns() []string {
	return f.columns
}

// Current reports the last value handed out, 0 before the first call.
func (f *IndexField) Current() int {
	return f.counter
}

func (f *IndexField) Produce() ([]interface{}, error) {
	f.counter++
	return replicate(f.counter, len(f.columns)), nil
}
