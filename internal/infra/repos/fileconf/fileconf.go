// Package fileconf decodes the YAML, JSON and TOML files that back the
// scenario and target repositories.
package fileconf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func Supported(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	default:
		return false
	}
}

// Files returns the supported files directly under dir, sorted by name. A
// missing directory holds no files.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Decode reads path into v by extension: .json, .toml, anything else as
// YAML.
func Decode(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch filepath.Ext(path) {
	case ".json":
		return json.Unmarshal(data, v)
	case ".toml":
		return toml.Unmarshal(data, v)
	default:
		return yaml.Unmarshal(data, v)
	}
}

// Stem is the file name without directory or extension, used as the default
// id of a record.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
