package registry

import (
	"errors"
	"fmt"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/generators"
)

type CombinatorType struct{}

func (CombinatorType) Validate(spec domain.FieldSpec) error {
	if len(spec.Columns) != 1 {
		return errors.New("combinator fills exactly one column")
	}
	heads, err := toStrings(spec.Params["heads"])
	if err != nil {
		return fmt.Errorf("'heads': %w", err)
	}
	if len(heads) == 0 {
		return errors.New("combinator requires non-empty 'heads' param")
	}
	sets, err := toValueSets(spec.Params["sets"])
	if err != nil {
		return fmt.Errorf("'sets': %w", err)
	}
	for i, set := range sets {
		if len(set) == 0 {
			return fmt.Errorf("'sets' entry %d is empty", i)
		}
	}
	for _, h := range heads {
		if n := generators.HeadVerbs(h); n > len(sets) {
			return fmt.Errorf("head %q needs %d values but %d sets are given", h, n, len(sets))
		}
	}
	return nil
}

func (CombinatorType) Build(spec domain.FieldSpec, env BuildEnv) (generators.Field, error) {
	heads, _ := toStrings(spec.Params["heads"])
	sets, _ := toValueSets(spec.Params["sets"])
	return generators.Combinator(env.Rng, spec.Columns[0], heads, sets...), nil
}

type TableSamplerType struct{}

func (TableSamplerType) Validate(spec domain.FieldSpec) error {
	if len(spec.Columns) == 0 {
		return errors.New("table_sampler requires at least one column")
	}
	name, ok := spec.Params["table"].(string)
	if !ok || name == "" {
		return errors.New("table_sampler requires 'table' param")
	}
	return nil
}

func (TableSamplerType) Build(spec domain.FieldSpec, env BuildEnv) (generators.Field, error) {
	name := spec.Params["table"].(string)
	src, ok := env.Tables[name]
	if !ok {
		return nil, fmt.Errorf("table_sampler: table %q is not generated yet", name)
	}
	return generators.TableSampler(env.Rng, src, spec.Columns...), nil
}

type IndexType struct{}

func (IndexType) Validate(spec domain.FieldSpec) error {
	if len(spec.Columns) == 0 {
		return errors.New("index requires at least one column")
	}
	return nil
}

func (IndexType) Build(spec domain.FieldSpec, env BuildEnv) (generators.Field, error) {
	return generators.Index(spec.Columns...), nil
}

type RandNumType struct{}

func (RandNumType) Validate(spec domain.FieldSpec) error {
	if len(spec.Columns) == 0 {
		return errors.New("rand_num requires at least one column")
	}
	minRaw, hasMin := spec.Params["min"]
	maxRaw, hasMax := spec.Params["max"]
	if !hasMin || !hasMax {
		return errors.New("rand_num requires 'min' and 'max' params")
	}
	min, err := toInt(minRaw)
	if err != nil {
		return fmt.Errorf("'min': %w", err)
	}
	max, err := toInt(maxRaw)
	if err != nil {
		return fmt.Errorf("'max': %w", err)
	}
	if max <= min {
		return fmt.Errorf("max (%d) must be greater than min (%d)", max, min)
	}
	return nil
}

func (RandNumType) Build(spec domain.FieldSpec, env BuildEnv) (generators.Field, error) {
	min, _ := toInt(spec.Params["min"])
	max, _ := toInt(spec.Params["max"])
	return generators.RandNum(env.Rng, min, max, spec.Columns...), nil
}

type FakerNameType struct{}

func (FakerNameType) Validate(spec domain.FieldSpec) error {
	if len(spec.Columns) != 1 {
		return errors.New("faker_name fills exactly one column")
	}
	return nil
}

func (FakerNameType) Build(spec domain.FieldSpec, env BuildEnv) (generators.Field, error) {
	return generators.FakerName(spec.Columns[0]), nil
}
