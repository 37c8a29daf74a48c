package app

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/exec"
	"github.com/mmrzaf/coursegen/internal/hashing"
	"github.com/mmrzaf/coursegen/internal/infra/repos/runs"
	"github.com/mmrzaf/coursegen/internal/infra/repos/scenarios"
	"github.com/mmrzaf/coursegen/internal/infra/repos/targets"
	"github.com/mmrzaf/coursegen/internal/logging"
	"github.com/mmrzaf/coursegen/internal/registry"
	"github.com/mmrzaf/coursegen/internal/script"
	"github.com/mmrzaf/coursegen/internal/validation"
	"golang.org/x/sync/errgroup"
)

// ErrNoRunHistory is returned by run lookups when the service was built
// without a run repository.
var ErrNoRunHistory = errors.New("run history is disabled")

// maxParallelLoads bounds how many targets load at once.
const maxParallelLoads = 4

type RunService struct {
	scenarioRepo scenarios.Repository
	targetRepo   targets.Repository
	runRepo      runs.Repository
	validator    *validation.Validator
	executor     *exec.Executor
	loader       *exec.Loader
	logger       *logging.Logger
}

// NewRunService wires the generation pipeline. runRepo may be nil, in
// which case runs are not recorded.
func NewRunService(
	scenarioRepo scenarios.Repository,
	targetRepo targets.Repository,
	runRepo runs.Repository,
	genRegistry *registry.GeneratorRegistry,
	logger *logging.Logger,
	batchSize int,
) *RunService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &RunService{
		scenarioRepo: scenarioRepo,
		targetRepo:   targetRepo,
		runRepo:      runRepo,
		validator:    validation.NewValidator(genRegistry),
		executor:     exec.NewExecutor(genRegistry, logger),
		loader:       exec.NewLoader(batchSize, logger),
		logger:       logger.WithComponent("runs"),
	}
}

type GenerateResult struct {
	Run   *domain.Run
	Stats *domain.RunStats
	// Loaded counts inserted rows per target name.
	Loaded map[string]int64
}

// Generate runs a scenario end to end: the script goes to out (when not
// nil) and the tables are loaded into every requested target.
func (s *RunService) Generate(ctx context.Context, req *domain.RunRequest, out io.Writer) (*GenerateResult, error) {
	if err := s.validator.ValidateRunRequest(req); err != nil {
		return nil, fmt.Errorf("invalid run request: %w", err)
	}

	scenario, err := s.resolveScenario(req)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}

	seed := int64(0)
	if req.Seed != nil {
		seed = *req.Seed
	} else if scenario.Seed != nil {
		seed = *scenario.Seed
	} else {
		seed = generateSeed()
	}

	scenarioHash, err := hashing.HashScenario(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to hash scenario: %w", err)
	}
	configHash, err := hashing.HashRunConfig(scenarioHash, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash run config: %w", err)
	}

	targetNames := make([]string, len(req.Targets))
	for i, t := range req.Targets {
		targetNames[i] = t.Name
	}

	run := &domain.Run{
		ScenarioID:      scenario.ID,
		ScenarioName:    scenario.Name,
		ScenarioVersion: scenario.Version,
		Output:          req.Output,
		Targets:         strings.Join(targetNames, ","),
		Seed:            seed,
		ConfigHash:      configHash,
		Status:          domain.RunStatusRunning,
		StartedAt:       time.Now(),
	}
	if s.runRepo != nil {
		if err := s.runRepo.Create(run); err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
	}

	s.logger.Infow("run.started", map[string]any{
		"run_id":   run.ID,
		"scenario": scenario.Name,
		"seed":     seed,
		"targets":  run.Targets,
	})

	result, err := s.execute(ctx, run, scenario, req, out)
	if err != nil {
		s.logger.Errorw("run.failed", map[string]any{"run_id": run.ID, "error": err})
		s.updateRunFailed(run, err.Error())
		return nil, err
	}

	now := time.Now()
	result.Stats.DurationSeconds = now.Sub(run.StartedAt).Seconds()
	statsJSON, _ := json.Marshal(result.Stats)
	run.Stats = statsJSON
	run.Status = domain.RunStatusSuccess
	run.CompletedAt = &now
	s.updateRun(run)

	s.logger.Infow("run.completed", map[string]any{
		"run_id":           run.ID,
		"tables":           result.Stats.TablesGenerated,
		"total_rows":       result.Stats.TotalRows,
		"bytes_written":    result.Stats.BytesWritten,
		"duration_seconds": result.Stats.DurationSeconds,
	})
	return result, nil
}

func (s *RunService) execute(ctx context.Context, run *domain.Run, scenario *domain.Scenario, req *domain.RunRequest, out io.Writer) (*GenerateResult, error) {
	res, err := s.executor.Execute(scenario, run.Seed)
	if err != nil {
		return nil, err
	}
	result := &GenerateResult{Run: run, Stats: res.Stats, Loaded: map[string]int64{}}

	if out != nil {
		n, err := script.Write(out, res.Tables, script.Options{
			Database:     scenario.Database,
			Continuation: scenario.Continuation,
		})
		res.Stats.BytesWritten = n
		if err != nil {
			return nil, fmt.Errorf("failed to write script: %w", err)
		}
	}

	if len(req.Targets) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for _, cfg := range req.Targets {
		g.Go(func() error {
			tgt, _, err := newTarget(resolveTargetForRun(cfg, ""))
			if err != nil {
				return err
			}
			n, err := s.loader.Load(gctx, tgt, res.Tables, req.Mode)
			if err != nil {
				return fmt.Errorf("target '%s': %w", cfg.Name, err)
			}
			mu.Lock()
			result.Loaded[cfg.Name] = n
			mu.Unlock()
			s.logger.Infow("target.loaded", map[string]any{
				"run_id": run.ID,
				"target": cfg.Name,
				"dsn":    targets.RedactDSN(cfg.DSN),
				"rows":   n,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// resolveScenario returns a private copy of the requested scenario with
// the request's row overrides merged in.
func (s *RunService) resolveScenario(req *domain.RunRequest) (*domain.Scenario, error) {
	var src *domain.Scenario
	if req.ScenarioID != "" {
		var err error
		src, err = s.scenarioRepo.Get(req.ScenarioID)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
	} else {
		src = req.Scenario
	}

	scenario := *src
	scenario.Rows = maps.Clone(src.Rows)
	if len(req.RowOverrides) > 0 {
		if scenario.Rows == nil {
			scenario.Rows = make(map[string]int, len(req.RowOverrides))
		}
		maps.Copy(scenario.Rows, req.RowOverrides)
	}
	return &scenario, nil
}

func (s *RunService) updateRun(run *domain.Run) {
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.Update(run); err != nil {
		s.logger.Errorw("run.update_failed", map[string]any{"run_id": run.ID, "error": err})
	}
}

func (s *RunService) updateRunFailed(run *domain.Run, errorMsg string) {
	now := time.Now()
	run.Status = domain.RunStatusFailed
	run.Error = errorMsg
	run.CompletedAt = &now
	s.updateRun(run)
}

// ResolveTarget looks a target up by id or name.
func (s *RunService) ResolveTarget(id string) (*domain.TargetConfig, error) {
	t, err := s.targetRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateTarget(t); err != nil {
		return nil, fmt.Errorf("target '%s': %w", id, err)
	}
	return t, nil
}

func (s *RunService) GetRun(id string) (*domain.Run, error) {
	if s.runRepo == nil {
		return nil, ErrNoRunHistory
	}
	return s.runRepo.Get(id)
}

func (s *RunService) ListRuns(limit int, status string) ([]*domain.Run, error) {
	if s.runRepo == nil {
		return nil, ErrNoRunHistory
	}
	return s.runRepo.List(limit, status)
}

func generateSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	// Non-negative so seeds read back cleanly from the command line.
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
