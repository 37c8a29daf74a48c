package registry

import (
	"math/rand"
	"testing"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/generators"
	"github.com/mmrzaf/coursegen/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(tables ...*table.Table) BuildEnv {
	m := make(map[string]generators.RowSource, len(tables))
	for _, t := range tables {
		m[t.Name()] = t
	}
	return BuildEnv{Rng: rand.New(rand.NewSource(3)), Tables: m}
}

func TestDefaultRegistryLists(t *testing.T) {
	r := DefaultGeneratorRegistry()
	assert.Equal(t, []string{"combinator", "faker_name", "index", "rand_num", "table_sampler"}, r.List())
	_, err := r.Get("uuid4")
	assert.Error(t, err)
}

func TestBuildCombinatorWithRange(t *testing.T) {
	r := DefaultGeneratorRegistry()
	f, err := r.Build(domain.FieldSpec{
		Type:    domain.FieldCombinator,
		Columns: []string{"term"},
		Params: map[string]interface{}{
			"heads": []interface{}{"F%d", "W%d"},
			"sets":  []interface{}{map[string]interface{}{"from": 2007, "to": 2008}},
		},
	}, env())
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		vals, err := f.Produce()
		require.NoError(t, err)
		assert.Contains(t, []string{"F2007", "F2008", "W2007", "W2008"}, vals[0])
	}
}

func TestBuildCombinatorNormalizesJSONNumbers(t *testing.T) {
	r := DefaultGeneratorRegistry()
	f, err := r.Build(domain.FieldSpec{
		Type:    domain.FieldCombinator,
		Columns: []string{"office"},
		Params: map[string]interface{}{
			"heads": []interface{}{"MC%d"},
			"sets":  []interface{}{[]interface{}{float64(1023)}},
		},
	}, env())
	require.NoError(t, err)
	vals, err := f.Produce()
	require.NoError(t, err)
	assert.Equal(t, "MC1023", vals[0])
}

func TestBuildRandNumAcceptsDecodedNumbers(t *testing.T) {
	r := DefaultGeneratorRegistry()
	for _, bounds := range [][2]interface{}{{1, 5}, {int64(1), int64(5)}, {1.0, 5.0}} {
		f, err := r.Build(domain.FieldSpec{
			Type:    domain.FieldRandNum,
			Columns: []string{"year"},
			Params:  map[string]interface{}{"min": bounds[0], "max": bounds[1]},
		}, env())
		require.NoError(t, err)
		vals, err := f.Produce()
		require.NoError(t, err)
		n := vals[0].(int)
		assert.True(t, n >= 1 && n < 5)
	}
}

func TestBuildTableSamplerNeedsFinishedTable(t *testing.T) {
	r := DefaultGeneratorRegistry()
	spec := domain.FieldSpec{
		Type:    domain.FieldTableSampler,
		Columns: []string{"pnum"},
		Params:  map[string]interface{}{"table": "professor"},
	}
	_, err := r.Build(spec, env())
	require.Error(t, err)

	prof := table.New("professor", "")
	prof.AddRow(map[string]interface{}{"pnum": 9})
	f, err := r.Build(spec, env(prof))
	require.NoError(t, err)
	vals, err := f.Produce()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{9}, vals)
}

func TestValidateRejectsBadSpecs(t *testing.T) {
	r := DefaultGeneratorRegistry()
	bad := []domain.FieldSpec{
		{Type: domain.FieldCombinator, Columns: []string{"a", "b"}, Params: map[string]interface{}{"heads": []interface{}{"x"}}},
		{Type: domain.FieldCombinator, Columns: []string{"a"}},
		{Type: domain.FieldCombinator, Columns: []string{"a"}, Params: map[string]interface{}{"heads": []interface{}{1}}},
		{Type: domain.FieldCombinator, Columns: []string{"a"}, Params: map[string]interface{}{"heads": []interface{}{"%s"}, "sets": []interface{}{[]interface{}{}}}},
		{Type: domain.FieldCombinator, Columns: []string{"a"}, Params: map[string]interface{}{"heads": []interface{}{"%s-%s"}, "sets": []interface{}{[]interface{}{"x"}}}},
		{Type: domain.FieldCombinator, Columns: []string{"a"}, Params: map[string]interface{}{"heads": []interface{}{"%d"}}},
		{Type: domain.FieldRandNum, Columns: []string{"n"}, Params: map[string]interface{}{"min": 5, "max": 1}},
		{Type: domain.FieldRandNum, Columns: []string{"n"}, Params: map[string]interface{}{"min": 1}},
		{Type: domain.FieldRandNum, Columns: []string{"n"}, Params: map[string]interface{}{"min": 1.5, "max": 3}},
		{Type: domain.FieldTableSampler, Columns: []string{"x"}},
		{Type: domain.FieldIndex},
		{Type: domain.FieldFakerName, Columns: []string{"a", "b"}},
	}
	for _, spec := range bad {
		ft, err := r.Get(spec.Type)
		require.NoError(t, err)
		assert.Error(t, ft.Validate(spec), "%s %v", spec.Type, spec.Params)
	}
}
