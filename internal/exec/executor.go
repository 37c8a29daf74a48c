package exec

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/generators"
	"github.com/mmrzaf/coursegen/internal/logging"
	"github.com/mmrzaf/coursegen/internal/registry"
	"github.com/mmrzaf/coursegen/internal/school"
	"github.com/mmrzaf/coursegen/internal/table"
	"github.com/mmrzaf/coursegen/internal/validation"
)

// Result holds the finished tables in output order.
type Result struct {
	Tables []*table.Table
	Stats  *domain.RunStats
}

type Executor struct {
	genRegistry *registry.GeneratorRegistry
	log         *logging.Logger
}

func NewExecutor(genRegistry *registry.GeneratorRegistry, log *logging.Logger) *Executor {
	if log == nil {
		log = logging.Nop()
	}
	return &Executor{genRegistry: genRegistry, log: log.WithComponent("exec")}
}

// Execute generates every table of the scenario from a single random
// source seeded with seed. The scenario must already be validated.
func (e *Executor) Execute(scenario *domain.Scenario, seed int64) (*Result, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(seed))

	var (
		res *Result
		err error
	)
	if scenario.Builtin != "" {
		res, err = e.executeBuiltin(scenario, rng)
	} else {
		res, err = e.executeTables(scenario, rng)
	}
	if err != nil {
		return nil, err
	}

	res.Stats.TablesGenerated = len(res.Tables)
	res.Stats.DurationSeconds = time.Since(start).Seconds()
	e.log.Infow("scenario.generated", map[string]any{
		"scenario":   scenario.Name,
		"seed":       seed,
		"tables":     res.Stats.TablesGenerated,
		"total_rows": res.Stats.TotalRows,
	})
	return res, nil
}

func (e *Executor) executeBuiltin(scenario *domain.Scenario, rng *rand.Rand) (*Result, error) {
	if scenario.Builtin != domain.BuiltinSchool {
		return nil, fmt.Errorf("unknown builtin: %s", scenario.Builtin)
	}
	opts := school.DefaultOptions()
	if err := opts.Counts.Apply(scenario.Rows); err != nil {
		return nil, err
	}
	opts.FakerNames = scenario.FakerNames

	// The driver builds its tables as one unit, so only the run carries
	// a duration.
	built, err := school.Build(rng, opts)
	if err != nil {
		return nil, fmt.Errorf("build school tables: %w", err)
	}

	stats := &domain.RunStats{TableStats: make([]domain.TableRunStats, 0, len(built.Tables))}
	for _, t := range built.Tables {
		stats.TableStats = append(stats.TableStats, domain.TableRunStats{
			TableName:         t.Name(),
			Rows:              int64(t.Len()),
			DuplicatesDropped: int64(built.Dropped[t.Name()]),
		})
		stats.TotalRows += int64(t.Len())
	}
	return &Result{Tables: built.Tables, Stats: stats}, nil
}

func (e *Executor) executeTables(scenario *domain.Scenario, rng *rand.Rand) (*Result, error) {
	order, err := validation.TopologicalSort(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to sort tables: %w", err)
	}

	specs := make(map[string]*domain.TableSpec, len(scenario.Tables))
	for i := range scenario.Tables {
		specs[scenario.Tables[i].Name] = &scenario.Tables[i]
	}

	env := registry.BuildEnv{
		Rng:    rng,
		Tables: make(map[string]generators.RowSource, len(order)),
	}
	res := &Result{
		Tables: make([]*table.Table, 0, len(order)),
		Stats:  &domain.RunStats{TableStats: make([]domain.TableRunStats, 0, len(order))},
	}

	for _, name := range order {
		spec := specs[name]
		startTime := time.Now()

		t, dropped, err := e.buildTable(spec, scenario.Rows, env)
		if err != nil {
			return nil, fmt.Errorf("table '%s': %w", name, err)
		}
		env.Tables[name] = t
		res.Tables = append(res.Tables, t)

		duration := time.Since(startTime)
		res.Stats.TableStats = append(res.Stats.TableStats, domain.TableRunStats{
			TableName:         name,
			Rows:              int64(t.Len()),
			DuplicatesDropped: int64(dropped),
			DurationSeconds:   duration.Seconds(),
		})
		res.Stats.TotalRows += int64(t.Len())

		e.log.Debugw("table.generated", map[string]any{
			"table":              name,
			"rows":               t.Len(),
			"duplicates_dropped": dropped,
		})
	}
	return res, nil
}

func (e *Executor) buildTable(spec *domain.TableSpec, overrides map[string]int, env registry.BuildEnv) (*table.Table, int, error) {
	fields := make([]generators.Field, 0, len(spec.Fields))
	for _, fs := range spec.Fields {
		f, err := e.genRegistry.Build(fs, env)
		if err != nil {
			return nil, 0, err
		}
		fields = append(fields, f)
	}

	t := table.New(spec.Name, spec.Schema, fields...)
	for _, row := range spec.SeedRows {
		t.AddRow(registry.NormalizeRow(row))
	}

	rows := spec.Rows
	if n, ok := overrides[spec.Name]; ok {
		rows = n
	}
	if err := t.Generate(rows); err != nil {
		return nil, 0, err
	}

	dropped := 0
	if len(spec.PrimaryKey) > 0 {
		dropped = t.PrimaryKey(spec.PrimaryKey...)
	}
	return t, dropped, nil
}
