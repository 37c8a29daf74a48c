package targets

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/infra/repos/fileconf"
)

type Repository interface {
	List() ([]*domain.TargetConfig, error)
	Get(id string) (*domain.TargetConfig, error)
}

// FileRepository reads one target per YAML, JSON or TOML file. Files that
// fail to decode are skipped by List; two files claiming one id are an
// error.
type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) List() ([]*domain.TargetConfig, error) {
	paths, err := fileconf.Files(r.baseDir)
	if err != nil {
		return nil, err
	}

	list := make([]*domain.TargetConfig, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		target, err := LoadFile(path)
		if err != nil {
			continue
		}
		if prev, ok := seen[target.ID]; ok {
			return nil, fmt.Errorf("target id %q is declared by %s and %s", target.ID, prev, path)
		}
		seen[target.ID] = path
		list = append(list, target)
	}
	return list, nil
}

func (r *FileRepository) Get(id string) (*domain.TargetConfig, error) {
	list, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		if t.ID == id || t.Name == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("target not found: %s", id)
}

// LoadFile decodes a target file. Id and name default to the file name,
// kind aliases are folded to their canonical kind, and ${VAR} references in
// the DSN and database are read from the environment, so passwords can live
// in .env instead of the target file.
func LoadFile(path string) (*domain.TargetConfig, error) {
	var target domain.TargetConfig
	if err := fileconf.Decode(path, &target); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if target.ID == "" {
		target.ID = fileconf.Stem(path)
	}
	if target.Name == "" {
		target.Name = target.ID
	}
	target.Kind = canonicalKind(target.Kind)
	target.DSN = expandEnv(target.DSN)
	target.Database = expandEnv(target.Database)
	return &target, nil
}

var kindAliases = map[string]string{
	"postgresql": domain.TargetPostgres,
	"pg":         domain.TargetPostgres,
	"sqlite3":    domain.TargetSQLite,
	"mariadb":    domain.TargetMySQL,
}

func canonicalKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if canonical, ok := kindAliases[kind]; ok {
		return canonical
	}
	return kind
}

// Only the braced form is expanded; a bare '$' is common in passwords.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}
