package validation

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/registry"
	"github.com/mmrzaf/coursegen/internal/school"
	"github.com/mmrzaf/coursegen/internal/table"
)

type Validator struct {
	genRegistry *registry.GeneratorRegistry
}

func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	return &Validator{genRegistry: genRegistry}
}

// identifier validation: allow simple SQL identifiers only (table and column
// names are pasted into statements unquoted).
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}

func (v *Validator) ValidateScenario(scenario *domain.Scenario) error {
	if scenario.Name == "" {
		return errors.New("scenario name is required")
	}

	if scenario.Database != "" && !IsValidIdentifier(scenario.Database) {
		return fmt.Errorf("invalid database identifier: %s", scenario.Database)
	}

	if scenario.Builtin != "" {
		if scenario.Builtin != domain.BuiltinSchool {
			return fmt.Errorf("unknown builtin: %s", scenario.Builtin)
		}
		if len(scenario.Tables) > 0 {
			return errors.New("builtin scenarios cannot declare tables")
		}
		return validateRowCounts(scenario.Rows)
	}

	if len(scenario.Tables) == 0 {
		return errors.New("scenario must have at least one table")
	}

	tableNames := make(map[string]bool)
	for i := range scenario.Tables {
		t := &scenario.Tables[i]
		if err := v.validateTable(t, tableNames); err != nil {
			return fmt.Errorf("table '%s': %w", t.Name, err)
		}
	}

	for name := range scenario.Rows {
		if !tableNames[name] {
			return fmt.Errorf("rows override for unknown table: %s", name)
		}
	}
	if err := validateRowCounts(scenario.Rows); err != nil {
		return err
	}

	if err := v.validateDependencies(scenario); err != nil {
		return fmt.Errorf("dependency validation failed: %w", err)
	}

	return nil
}

func validateRowCounts(rows map[string]int) error {
	for name, n := range rows {
		if !IsValidIdentifier(name) {
			return fmt.Errorf("invalid rows key: %s", name)
		}
		if n < 0 {
			return fmt.Errorf("rows for '%s' must be >= 0, got %d", name, n)
		}
	}
	return nil
}

func (v *Validator) validateTable(t *domain.TableSpec, tableNames map[string]bool) error {
	if t.Name == "" {
		return errors.New("table name is required")
	}
	if !IsValidIdentifier(t.Name) {
		return fmt.Errorf("invalid table identifier: %s", t.Name)
	}

	if tableNames[t.Name] {
		return fmt.Errorf("duplicate table name: %s", t.Name)
	}
	tableNames[t.Name] = true

	if strings.TrimSpace(t.Schema) == "" {
		return errors.New("schema is required")
	}

	if t.Rows < 0 {
		return fmt.Errorf("rows must be >= 0, got %d", t.Rows)
	}

	if len(t.Fields) == 0 {
		return errors.New("table must have at least one field")
	}

	columns := make(map[string]bool)
	for i, f := range t.Fields {
		if err := v.validateField(f, columns); err != nil {
			return fmt.Errorf("field %d (%s): %w", i, f.Type, err)
		}
	}

	for _, c := range t.PrimaryKey {
		if !columns[c] {
			return fmt.Errorf("primary key column '%s' is not produced by any field", c)
		}
	}

	for i, row := range t.SeedRows {
		for c := range row {
			if !columns[c] {
				return fmt.Errorf("seed row %d: unknown column '%s'", i, c)
			}
		}
	}

	return nil
}

func (v *Validator) validateField(f domain.FieldSpec, columns map[string]bool) error {
	if f.Type == "" {
		return errors.New("field type is required")
	}

	ft, err := v.genRegistry.Get(f.Type)
	if err != nil {
		return err
	}

	if err := ft.Validate(f); err != nil {
		return fmt.Errorf("field validation failed: %w", err)
	}

	// The core merges silently on overlap; a scenario file never needs it.
	for _, c := range f.Columns {
		if !IsValidIdentifier(c) {
			return fmt.Errorf("invalid column identifier: %s", c)
		}
		if columns[c] {
			return fmt.Errorf("column '%s' is produced by more than one field", c)
		}
		columns[c] = true
	}

	return nil
}

func (v *Validator) validateDependencies(scenario *domain.Scenario) error {
	tableMap := make(map[string]*domain.TableSpec)
	for i := range scenario.Tables {
		tableMap[scenario.Tables[i].Name] = &scenario.Tables[i]
	}

	for _, t := range scenario.Tables {
		for _, f := range t.Fields {
			if f.Type != domain.FieldTableSampler {
				continue
			}
			ref := f.Params["table"].(string)
			refTable, exists := tableMap[ref]
			if !exists {
				return fmt.Errorf("table '%s': referenced table '%s' not found", t.Name, ref)
			}
			if ref == t.Name {
				return fmt.Errorf("table '%s': cannot sample itself", t.Name)
			}
			refColumns := specColumns(refTable)
			for _, c := range f.Columns {
				if !slices.Contains(refColumns, c) {
					return fmt.Errorf("table '%s': referenced column '%s.%s' not found", t.Name, ref, c)
				}
			}
		}
	}

	if _, err := TopologicalSort(scenario); err != nil {
		return err
	}

	return nil
}

func specColumns(t *domain.TableSpec) []string {
	cols := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		cols = append(cols, f.Columns...)
	}
	return cols
}

// CheckDeclaredColumns compares a table's field columns with the column list
// declared in its DDL body.
func CheckDeclaredColumns(t *domain.TableSpec) error {
	declared := table.DeclaredColumns(t.Schema)
	have := specColumns(t)
	if !slices.Equal(declared, have) {
		return fmt.Errorf("table '%s': fields give columns %v, schema declares %v", t.Name, have, declared)
	}
	return nil
}

// CheckScenarioColumns runs the declared column check over every table of a
// scenario. Builtin datasets are built at their smallest size and their
// tables checked directly.
func CheckScenarioColumns(scenario *domain.Scenario) error {
	switch scenario.Builtin {
	case "":
		for i := range scenario.Tables {
			if err := CheckDeclaredColumns(&scenario.Tables[i]); err != nil {
				return err
			}
		}
		return nil
	case domain.BuiltinSchool:
		opts := school.DefaultOptions()
		opts.Counts = school.Counts{Courses: 1, Professors: 1, Students: 1, Classes: 1, Enrollments: 1}
		res, err := school.Build(rand.New(rand.NewSource(1)), opts)
		if err != nil {
			return err
		}
		for _, t := range res.Tables {
			if err := t.CheckColumns(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown builtin: %s", scenario.Builtin)
	}
}

// TopologicalSort orders tables so every sampled table comes before the
// tables sampling it. Ties keep declaration order.
func TopologicalSort(scenario *domain.Scenario) ([]string, error) {
	position := make(map[string]int)
	for i, t := range scenario.Tables {
		position[t.Name] = i
	}

	graph := make(map[string][]string) // dependency -> dependents
	inDegree := make(map[string]int)

	for _, t := range scenario.Tables {
		if _, ok := inDegree[t.Name]; !ok {
			inDegree[t.Name] = 0
		}
		seen := make(map[string]bool)
		for _, f := range t.Fields {
			if f.Type != domain.FieldTableSampler {
				continue
			}
			ref, ok := f.Params["table"].(string)
			if !ok {
				return nil, fmt.Errorf("table '%s': table_sampler 'table' must be a string", t.Name)
			}
			if seen[ref] {
				continue
			}
			seen[ref] = true
			graph[ref] = append(graph[ref], t.Name)
			inDegree[t.Name]++
		}
	}

	byPosition := func(names []string) {
		sort.Slice(names, func(i, j int) bool { return position[names[i]] < position[names[j]] })
	}

	queue := make([]string, 0)
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	byPosition(queue)

	result := make([]string, 0, len(scenario.Tables))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, dependent := range graph[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
		byPosition(queue)
	}

	if len(result) != len(scenario.Tables) {
		return nil, errors.New("cycle detected in table dependencies")
	}

	return result, nil
}

func (v *Validator) ValidateTarget(t *domain.TargetConfig) error {
	if t == nil {
		return errors.New("target is required")
	}
	if t.Name == "" {
		return errors.New("target name is required")
	}
	switch t.Kind {
	case domain.TargetPostgres, domain.TargetSQLite, domain.TargetMySQL:
	case "":
		return errors.New("target kind is required")
	default:
		return fmt.Errorf("unsupported target kind: %s", t.Kind)
	}
	if t.DSN == "" {
		return errors.New("target dsn is required")
	}
	if t.Database != "" {
		if t.Kind == domain.TargetSQLite {
			return errors.New("sqlite targets take the file path as dsn, not a database")
		}
		if !IsValidIdentifier(t.Database) {
			return fmt.Errorf("invalid database identifier: %s", t.Database)
		}
	}
	return nil
}

func IsValidMode(mode string) bool {
	switch mode {
	case domain.LoadModeRecreate, domain.LoadModeTruncate, domain.LoadModeAppend:
		return true
	default:
		return false
	}
}

func (v *Validator) ValidateRunRequest(req *domain.RunRequest) error {
	if req.ScenarioID == "" && req.Scenario == nil {
		return errors.New("either scenario_id or scenario is required")
	}
	if req.ScenarioID != "" && req.Scenario != nil {
		return errors.New("scenario_id and scenario are mutually exclusive")
	}
	if len(req.Targets) > 0 && !IsValidMode(req.Mode) {
		return fmt.Errorf("invalid load mode: %q", req.Mode)
	}
	if err := validateRowCounts(req.RowOverrides); err != nil {
		return err
	}
	for i, t := range req.Targets {
		if err := v.ValidateTarget(t); err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
	}
	return nil
}
