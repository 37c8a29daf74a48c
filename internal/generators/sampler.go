package generators

import (
	"fmt"
	"math/rand"
)

// SamplerField emulates a foreign key: every call picks one existing row of
// the source uniformly and projects the requested columns out of it.
type SamplerField struct {
	rng     *rand.Rand
	source  RowSource
	columns []string
}

func TableSampler(rng *rand.Rand, source RowSource, columns ...string) *SamplerField {
	return &SamplerField{rng: rng, source: source, columns: columns}
}

func (f *SamplerField) Columns() []string {
	return f.columns
}

func (f *SamplerField) Source() RowSource {
	return f.source
}

func (f *SamplerField) Produce() ([]interface{}, error) {
	n := f.source.Len()
	if n == 0 {
		return nil, fmt.Errorf("sample %s: %w", f.source.Name(), ErrEmptySource)
	}
	return f.source.Project(f.rng.Intn(n), f.columns), nil
}
