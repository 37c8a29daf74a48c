package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/coursegen/internal/domain"
)

var ErrNotFound = errors.New("run not found")

// Fixed-width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository interface {
	Init() error
	Create(run *domain.Run) error
	Update(run *domain.Run) error
	Get(id string) (*domain.Run, error)
	List(limit int, status string) ([]*domain.Run, error)
	Close() error
}

type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) Init() error {
	if dir := filepath.Dir(r.dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create runs db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}
	r.db = db

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario_id TEXT NOT NULL,
		scenario_name TEXT NOT NULL,
		scenario_version TEXT,
		output TEXT,
		targets TEXT,
		seed INTEGER NOT NULL,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		completed_at TEXT,
		stats TEXT,
		error TEXT
	)`

	_, err = r.db.Exec(createTableSQL)
	return err
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Create(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	query := `
		INSERT INTO runs (
			id, scenario_id, scenario_name, scenario_version,
			output, targets,
			seed, config_hash, status, started_at, completed_at, stats, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID, run.ScenarioID, run.ScenarioName, run.ScenarioVersion,
		run.Output, run.Targets,
		run.Seed, run.ConfigHash, string(run.Status),
		run.StartedAt.UTC().Format(timeLayout), formatTime(run.CompletedAt),
		nullableStats(run.Stats), run.Error,
	)
	return err
}

func (r *SQLiteRepository) Update(run *domain.Run) error {
	query := `
		UPDATE runs SET
			status = ?, completed_at = ?, stats = ?, error = ?
		WHERE id = ?
	`

	res, err := r.db.Exec(query, string(run.Status), formatTime(run.CompletedAt), nullableStats(run.Stats), run.Error, run.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, run.ID)
	}
	return nil
}

const selectRuns = `
	SELECT id, scenario_id, scenario_name, scenario_version,
	       output, targets,
	       seed, config_hash, status, started_at, completed_at, stats, error
	FROM runs`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*domain.Run, error) {
	var run domain.Run
	var version, output, targets sql.NullString
	var status string
	var startedAtStr string
	var completedAtStr sql.NullString
	var statsStr sql.NullString
	var errorStr sql.NullString

	err := s.Scan(
		&run.ID, &run.ScenarioID, &run.ScenarioName, &version,
		&output, &targets,
		&run.Seed, &run.ConfigHash, &status,
		&startedAtStr, &completedAtStr, &statsStr, &errorStr,
	)
	if err != nil {
		return nil, err
	}

	run.ScenarioVersion = version.String
	run.Output = output.String
	run.Targets = targets.String
	run.Status = domain.RunStatus(status)
	run.StartedAt, _ = time.Parse(timeLayout, startedAtStr)
	if completedAtStr.Valid {
		t, _ := time.Parse(timeLayout, completedAtStr.String)
		run.CompletedAt = &t
	}
	if statsStr.Valid && statsStr.String != "" {
		run.Stats = []byte(statsStr.String)
	}
	run.Error = errorStr.String

	return &run, nil
}

func (r *SQLiteRepository) Get(id string) (*domain.Run, error) {
	run, err := scanRun(r.db.QueryRow(selectRuns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

func (r *SQLiteRepository) List(limit int, status string) ([]*domain.Run, error) {
	query := selectRuns

	args := make([]interface{}, 0)
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY started_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func formatTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func nullableStats(stats []byte) interface{} {
	if len(stats) == 0 {
		return nil
	}
	return string(stats)
}
