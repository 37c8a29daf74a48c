package domain

import (
	"encoding/json"
	"time"
)

// BuiltinSchool selects the fixed course database driver.
const BuiltinSchool = "school"

type Scenario struct {
	ID           string         `json:"id" yaml:"id" toml:"id"`
	Name         string         `json:"name" yaml:"name" toml:"name"`
	Version      string         `json:"version" yaml:"version" toml:"version"`
	Description  string         `json:"description" yaml:"description" toml:"description"`
	Seed         *int64         `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	Database     string         `json:"database,omitempty" yaml:"database,omitempty" toml:"database,omitempty"`
	Continuation bool           `json:"continuation,omitempty" yaml:"continuation,omitempty" toml:"continuation,omitempty"`
	Builtin      string         `json:"builtin,omitempty" yaml:"builtin,omitempty" toml:"builtin,omitempty"`
	FakerNames   bool           `json:"faker_names,omitempty" yaml:"faker_names,omitempty" toml:"faker_names,omitempty"`
	Rows         map[string]int `json:"rows,omitempty" yaml:"rows,omitempty" toml:"rows,omitempty"`
	Tables       []TableSpec    `json:"tables,omitempty" yaml:"tables,omitempty" toml:"tables,omitempty"`
}

type TableSpec struct {
	Name       string                   `json:"name" yaml:"name" toml:"name"`
	Schema     string                   `json:"schema" yaml:"schema" toml:"schema"`
	Rows       int                      `json:"rows" yaml:"rows" toml:"rows"`
	PrimaryKey []string                 `json:"primary_key,omitempty" yaml:"primary_key,omitempty" toml:"primary_key,omitempty"`
	SeedRows   []map[string]interface{} `json:"seed_rows,omitempty" yaml:"seed_rows,omitempty" toml:"seed_rows,omitempty"`
	Fields     []FieldSpec              `json:"fields" yaml:"fields" toml:"fields"`
}

type FieldSpec struct {
	Type    string                 `json:"type" yaml:"type" toml:"type"`
	Columns []string               `json:"columns" yaml:"columns" toml:"columns"`
	Params  map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

// Field types understood by the registry.
const (
	FieldCombinator   = "combinator"
	FieldTableSampler = "table_sampler"
	FieldIndex        = "index"
	FieldRandNum      = "rand_num"
	FieldFakerName    = "faker_name"
)

type TargetConfig struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name"`
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
	DSN  string `json:"dsn" yaml:"dsn" toml:"dsn"`
	// Database, when set, replaces the database named in the DSN.
	Database string `json:"database,omitempty" yaml:"database,omitempty" toml:"database,omitempty"`
}

const (
	TargetPostgres = "postgres"
	TargetSQLite   = "sqlite"
	TargetMySQL    = "mysql"
)

type Run struct {
	ID              string          `json:"id"`
	ScenarioID      string          `json:"scenario_id"`
	ScenarioName    string          `json:"scenario_name"`
	ScenarioVersion string          `json:"scenario_version"`
	Output          string          `json:"output"`
	Targets         string          `json:"targets,omitempty"`
	Seed            int64           `json:"seed"`
	ConfigHash      string          `json:"config_hash"`
	Status          RunStatus       `json:"status"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Stats           json.RawMessage `json:"stats,omitempty"`
	Error           string          `json:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

type RunStats struct {
	TablesGenerated int             `json:"tables_generated"`
	TotalRows       int64           `json:"total_rows"`
	BytesWritten    int64           `json:"bytes_written"`
	DurationSeconds float64         `json:"duration_seconds"`
	TableStats      []TableRunStats `json:"table_stats"`
}

type TableRunStats struct {
	TableName         string  `json:"table_name"`
	Rows              int64   `json:"rows"`
	DuplicatesDropped int64   `json:"duplicates_dropped"`
	DurationSeconds   float64 `json:"duration_seconds"`
}

type RunRequest struct {
	ScenarioID   string          `json:"scenario_id,omitempty"`
	Scenario     *Scenario       `json:"scenario,omitempty"`
	Seed         *int64          `json:"seed,omitempty"`
	RowOverrides map[string]int  `json:"row_overrides,omitempty"`
	Output       string          `json:"output,omitempty"`
	Targets      []*TargetConfig `json:"targets,omitempty"`
	Mode         string          `json:"mode,omitempty"`
}

// Load modes for database targets.
const (
	LoadModeRecreate = "recreate"
	LoadModeTruncate = "truncate"
	LoadModeAppend   = "append"
)
