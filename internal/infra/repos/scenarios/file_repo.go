package scenarios

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/infra/repos/fileconf"
)

type Repository interface {
	List() ([]*domain.Scenario, error)
	Get(id string) (*domain.Scenario, error)
	GetByPath(path string) (*domain.Scenario, error)
}

type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) List() ([]*domain.Scenario, error) {
	paths, err := fileconf.Files(r.baseDir)
	if err != nil {
		return nil, err
	}

	scenarios := make([]*domain.Scenario, 0, len(paths))
	for _, path := range paths {
		scenario, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, scenario)
	}

	return scenarios, nil
}

func (r *FileRepository) Get(id string) (*domain.Scenario, error) {
	scenarios, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, s := range scenarios {
		if s.ID == id || s.Name == id {
			return s, nil
		}
	}

	return nil, fmt.Errorf("scenario not found: %s", id)
}

// GetByPath loads a file inside the repository directory. Paths that
// resolve outside of it are rejected.
func (r *FileRepository) GetByPath(path string) (*domain.Scenario, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return nil, err
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(base, path)
	}
	full = filepath.Clean(full)
	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("scenario path escapes %s: %s", r.baseDir, path)
	}
	return LoadFile(full)
}

// LoadFile decodes a scenario file. A missing id defaults to the file name.
func LoadFile(path string) (*domain.Scenario, error) {
	var scenario domain.Scenario
	if err := fileconf.Decode(path, &scenario); err != nil {
		return nil, err
	}
	if scenario.ID == "" {
		scenario.ID = fileconf.Stem(path)
	}
	return &scenario, nil
}
