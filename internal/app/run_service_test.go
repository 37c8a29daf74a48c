package app

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/infra/repos/runs"
	"github.com/mmrzaf/coursegen/internal/infra/repos/scenarios"
	"github.com/mmrzaf/coursegen/internal/infra/repos/targets"
	"github.com/mmrzaf/coursegen/internal/logging"
	"github.com/mmrzaf/coursegen/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../../scenarios"

func newService(t *testing.T, withRuns bool) (*RunService, runs.Repository) {
	t.Helper()
	var runRepo runs.Repository
	if withRuns {
		repo := runs.NewSQLiteRepository(filepath.Join(t.TempDir(), "runs.sqlite"))
		require.NoError(t, repo.Init())
		t.Cleanup(func() { _ = repo.Close() })
		runRepo = repo
	}
	svc := NewRunService(
		scenarios.NewFileRepository(scenariosDir),
		targets.NewFileRepository(t.TempDir()),
		runRepo,
		registry.DefaultGeneratorRegistry(),
		logging.NewLoggerWithWriter("error", &bytes.Buffer{}),
		100,
	)
	return svc, runRepo
}

func seed(v int64) *int64 { return &v }

func TestGenerateScriptIsReproducible(t *testing.T) {
	svc, _ := newService(t, false)
	ctx := context.Background()

	var a, b bytes.Buffer
	_, err := svc.Generate(ctx, &domain.RunRequest{ScenarioID: "school-small", Seed: seed(11)}, &a)
	require.NoError(t, err)
	_, err = svc.Generate(ctx, &domain.RunRequest{ScenarioID: "school-small", Seed: seed(11)}, &b)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())

	var c bytes.Buffer
	_, err = svc.Generate(ctx, &domain.RunRequest{ScenarioID: "school-small", Seed: seed(12)}, &c)
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), c.String())

	out := a.String()
	assert.True(t, strings.HasPrefix(out, "drop table course\n"))
	assert.True(t, strings.HasSuffix(out, "commit work\n"))
	assert.Equal(t, 1, strings.Count(out, "commit work"))
}

func TestGenerateAppliesRowOverrides(t *testing.T) {
	svc, _ := newService(t, false)
	var out bytes.Buffer
	res, err := svc.Generate(context.Background(), &domain.RunRequest{
		ScenarioID:   "library",
		Seed:         seed(3),
		RowOverrides: map[string]int{"loan": 0},
	}, &out)
	require.NoError(t, err)

	for _, ts := range res.Stats.TableStats {
		if ts.TableName == "loan" {
			assert.Zero(t, ts.Rows)
		}
	}
	assert.NotContains(t, out.String(), "insert into loan")
	assert.Equal(t, int64(out.Len()), res.Stats.BytesWritten)
}

func TestGenerateRejectsUnknownOverride(t *testing.T) {
	svc, _ := newService(t, false)
	_, err := svc.Generate(context.Background(), &domain.RunRequest{
		ScenarioID:   "library",
		RowOverrides: map[string]int{"dorm": 3},
	}, nil)
	assert.Error(t, err)
}

func TestGenerateLoadsTargetsAndRecordsRun(t *testing.T) {
	svc, runRepo := newService(t, true)
	dir := t.TempDir()
	req := &domain.RunRequest{
		ScenarioID: "school-small",
		Output:     "-",
		Mode:       domain.LoadModeRecreate,
		Targets: []*domain.TargetConfig{
			{ID: "a", Name: "a", Kind: domain.TargetSQLite, DSN: filepath.Join(dir, "a.sqlite")},
			{ID: "b", Name: "b", Kind: domain.TargetSQLite, DSN: filepath.Join(dir, "b.sqlite")},
		},
	}

	res, err := svc.Generate(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, res.Stats.TotalRows, res.Loaded["a"])
	assert.Equal(t, res.Stats.TotalRows, res.Loaded["b"])

	db, err := sql.Open("sqlite3", filepath.Join(dir, "b.sqlite"))
	require.NoError(t, err)
	defer db.Close()
	var marks int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM mark").Scan(&marks))
	for _, ts := range res.Stats.TableStats {
		if ts.TableName == "mark" {
			assert.Equal(t, int64(marks), ts.Rows)
		}
	}

	got, err := runRepo.Get(res.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusSuccess, got.Status)
	assert.Equal(t, "a,b", got.Targets)
	// school-small.json pins its seed.
	assert.Equal(t, int64(348), got.Seed)
	var stats domain.RunStats
	require.NoError(t, json.Unmarshal(got.Stats, &stats))
	assert.Equal(t, res.Stats.TotalRows, stats.TotalRows)

	list, err := svc.ListRuns(10, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateRecordsFailedLoad(t *testing.T) {
	svc, runRepo := newService(t, true)
	req := &domain.RunRequest{
		ScenarioID: "library",
		Mode:       domain.LoadModeAppend,
		Targets: []*domain.TargetConfig{
			// Appending requires existing tables.
			{ID: "x", Name: "x", Kind: domain.TargetSQLite, DSN: filepath.Join(t.TempDir(), "empty.sqlite")},
		},
	}
	_, err := svc.Generate(context.Background(), req, nil)
	require.Error(t, err)

	list, err := runRepo.List(1, string(domain.RunStatusFailed))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Error, "target 'x'")
}

func TestRunLookupsWithoutHistory(t *testing.T) {
	svc, _ := newService(t, false)
	_, err := svc.ListRuns(1, "")
	assert.ErrorIs(t, err, ErrNoRunHistory)
	_, err = svc.GetRun("x")
	assert.ErrorIs(t, err, ErrNoRunHistory)
}

func TestCheckTargetSQLite(t *testing.T) {
	cfg := &domain.TargetConfig{ID: "lite", Name: "lite", Kind: domain.TargetSQLite, DSN: filepath.Join(t.TempDir(), "check.sqlite")}
	check, err := CheckTarget(context.Background(), cfg, "")
	require.NoError(t, err)
	assert.True(t, check.OK)
	assert.NotEmpty(t, check.ServerVersion)
	assert.Equal(t, TargetCapabilities{CanCreate: true, CanInsert: true, CanTruncate: true, CanDrop: true}, check.Capabilities)

	check, err = CheckTarget(context.Background(), &domain.TargetConfig{Name: "bad", Kind: "oracle", DSN: "x"}, "")
	require.Error(t, err)
	assert.False(t, check.OK)
}
