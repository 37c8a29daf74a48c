package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/mmrzaf/coursegen/internal/domain"
)

// HashScenario fingerprints everything that shapes the generated data.
// Descriptive fields such as the description are left out.
func HashScenario(scenario *domain.Scenario) (string, error) {
	canonical := canonicalizeScenario(scenario)
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalizeScenario(scenario *domain.Scenario) map[string]interface{} {
	tables := make([]map[string]interface{}, len(scenario.Tables))
	for i, t := range scenario.Tables {
		fields := make([]map[string]interface{}, len(t.Fields))
		for j, f := range t.Fields {
			fieldMap := map[string]interface{}{
				"type":    f.Type,
				"columns": f.Columns,
			}
			if len(f.Params) > 0 {
				fieldMap["params"] = canonicalizeParams(f.Params)
			}
			fields[j] = fieldMap
		}

		tableMap := map[string]interface{}{
			"name":   t.Name,
			"schema": t.Schema,
			"rows":   t.Rows,
			"fields": fields,
		}
		if len(t.PrimaryKey) > 0 {
			tableMap["primary_key"] = t.PrimaryKey
		}
		if len(t.SeedRows) > 0 {
			seeds := make([]map[string]interface{}, len(t.SeedRows))
			for k, row := range t.SeedRows {
				seeds[k] = canonicalizeParams(row)
			}
			tableMap["seed_rows"] = seeds
		}
		tables[i] = tableMap
	}

	result := map[string]interface{}{
		"name":   scenario.Name,
		"tables": tables,
	}
	if scenario.ID != "" {
		result["id"] = scenario.ID
	}
	if scenario.Version != "" {
		result["version"] = scenario.Version
	}
	if scenario.Builtin != "" {
		result["builtin"] = scenario.Builtin
		result["faker_names"] = scenario.FakerNames
	}
	if len(scenario.Rows) > 0 {
		result["rows"] = scenario.Rows
	}
	if scenario.Database != "" {
		result["database"] = scenario.Database
	}
	result["continuation"] = scenario.Continuation

	return result
}

func canonicalizeParams(params map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := params[k]
		switch val := v.(type) {
		case map[string]interface{}:
			result[k] = canonicalizeParams(val)
		default:
			result[k] = val
		}
	}
	return result
}
