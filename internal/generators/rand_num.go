package generators

import (
	"fmt"
	"math/rand"
)

type RandNumField struct {
	rng      *rand.Rand
	columns  []string
	min, max int
}

// RandNum draws from [min, max) and writes the same draw to every column.
func RandNum(rng *rand.Rand, min, max int, columns ...string) *RandNumField {
	return &RandNumField{rng: rng, columns: columns, min: min, max: max}
}

func (f *RandNumField) Columns() []string {
	return f.columns
}

func (f *RandNumField) Produce() ([]interface{}, error) {
	if f.max <= f.min {
		return nil, fmt.Errorf("max (%d) must be greater than min (%d)", f.max, f.min)
	}
	return replicate(f.min+f.rng.Intn(f.max-f.min), len(f.columns)), nil
}
