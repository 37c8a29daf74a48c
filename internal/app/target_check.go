package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/exec"
	"github.com/mmrzaf/coursegen/internal/infra/targets/mysql"
	"github.com/mmrzaf/coursegen/internal/infra/targets/postgres"
	"github.com/mmrzaf/coursegen/internal/infra/targets/sqlite"
	"github.com/mmrzaf/coursegen/internal/validation"
)

type TargetCapabilities struct {
	CanCreate   bool `json:"can_create"`
	CanInsert   bool `json:"can_insert"`
	CanTruncate bool `json:"can_truncate"`
	CanDrop     bool `json:"can_drop"`
}

type TargetCheck struct {
	TargetID      string             `json:"target_id"`
	OK            bool               `json:"ok"`
	Error         string             `json:"error,omitempty"`
	LatencyMS     int64              `json:"latency_ms"`
	ServerVersion string             `json:"server_version,omitempty"`
	Capabilities  TargetCapabilities `json:"capabilities"`
	CheckedAt     time.Time          `json:"checked_at"`
}

// dbTarget is a load target that also exposes its connection.
type dbTarget interface {
	exec.Target
	DB() *sql.DB
}

func newTarget(t *domain.TargetConfig) (dbTarget, string, error) {
	switch t.Kind {
	case domain.TargetPostgres:
		return postgres.NewPostgresTarget(t.DSN), "SHOW server_version", nil
	case domain.TargetSQLite:
		return sqlite.NewSQLiteTarget(t.DSN), "SELECT sqlite_version()", nil
	case domain.TargetMySQL:
		return mysql.NewMySQLTarget(t.DSN), "SELECT VERSION()", nil
	default:
		return nil, "", fmt.Errorf("unsupported target kind: %s", t.Kind)
	}
}

// CheckTarget connects to t, reads the server version and probes the
// statements a load needs using a throwaway table.
func CheckTarget(ctx context.Context, t *domain.TargetConfig, dbOverride string) (*TargetCheck, error) {
	check := &TargetCheck{CheckedAt: time.Now().UTC()}
	if t != nil {
		check.TargetID = t.ID
	}

	val := validation.NewValidator(nil)
	if err := val.ValidateTarget(t); err != nil {
		check.Error = err.Error()
		return check, err
	}

	start := time.Now()
	tgt, versionQuery, err := newTarget(resolveTargetForRun(t, dbOverride))
	if err != nil {
		check.Error = err.Error()
		return check, err
	}
	if err := tgt.Connect(ctx); err != nil {
		check.Error = err.Error()
		check.LatencyMS = time.Since(start).Milliseconds()
		return check, err
	}
	defer tgt.Close()

	check.OK = true
	check.LatencyMS = time.Since(start).Milliseconds()
	var version string
	if err := tgt.DB().QueryRowContext(ctx, versionQuery).Scan(&version); err == nil {
		check.ServerVersion = version
	}
	check.Capabilities = probeCapabilities(ctx, tgt)
	return check, nil
}

func probeCapabilities(ctx context.Context, tgt exec.Target) (caps TargetCapabilities) {
	name := fmt.Sprintf("coursegen_check_%d", time.Now().UnixNano())

	if err := tgt.CreateTable(ctx, name, "id integer not null"); err != nil {
		return caps
	}
	caps.CanCreate = true
	defer func() {
		caps.CanDrop = tgt.DropTable(ctx, name) == nil
	}()

	if err := tgt.InsertBatch(ctx, name, []string{"id"}, [][]interface{}{{1}}); err != nil {
		return caps
	}
	caps.CanInsert = true

	if err := tgt.TruncateTable(ctx, name); err != nil {
		return caps
	}
	caps.CanTruncate = true
	return caps
}
