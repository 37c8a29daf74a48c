package registry

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/generators"
)

// BuildEnv is what a field may reach while it is built: the run's random
// source and the tables that are already complete.
type BuildEnv struct {
	Rng    *rand.Rand
	Tables map[string]generators.RowSource
}

type FieldType interface {
	Validate(spec domain.FieldSpec) error
	Build(spec domain.FieldSpec, env BuildEnv) (generators.Field, error)
}

type GeneratorRegistry struct {
	mu    sync.RWMutex
	types map[string]FieldType
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		types: make(map[string]FieldType),
	}
}

func (r *GeneratorRegistry) Register(name string, ft FieldType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = ft
}

func (r *GeneratorRegistry) Get(name string) (FieldType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ft, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("field type not found: %s", name)
	}
	return ft, nil
}

func (r *GeneratorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build validates a field declaration and builds the field it describes.
func (r *GeneratorRegistry) Build(spec domain.FieldSpec, env BuildEnv) (generators.Field, error) {
	ft, err := r.Get(spec.Type)
	if err != nil {
		return nil, err
	}
	if err := ft.Validate(spec); err != nil {
		return nil, fmt.Errorf("%s %v: %w", spec.Type, spec.Columns, err)
	}
	return ft.Build(spec, env)
}

func DefaultGeneratorRegistry() *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register(domain.FieldCombinator, &CombinatorType{})
	r.Register(domain.FieldTableSampler, &TableSamplerType{})
	r.Register(domain.FieldIndex, &IndexType{})
	r.Register(domain.FieldRandNum, &RandNumType{})
	r.Register(domain.FieldFakerName, &FakerNameType{})
	return r
}
