package registry

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmrzaf/coursegen/internal/generators"
)

// Scenario params arrive as decoded YAML, TOML or JSON, so numbers may be
// int, int64 or float64 and lists are []interface{}.

func toInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("%v is not an integer", val)
		}
		return int(val), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// normalize turns whole floats into ints so JSON scenarios format with %d.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if val == math.Trunc(val) {
			return int(val)
		}
	case int64:
		return int(val)
	}
	return v
}

func toStrings(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return val, nil
	case []interface{}:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is %T, not a string", i, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, errors.New("must be a list of strings")
	}
}

// toValueSets accepts a list whose items are either lists of values or
// {from, to} integer ranges.
func toValueSets(v interface{}) ([][]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, errors.New("must be a list")
	}
	sets := make([][]interface{}, len(list))
	for i, item := range list {
		switch val := item.(type) {
		case []interface{}:
			set := make([]interface{}, len(val))
			for j, x := range val {
				set[j] = normalize(x)
			}
			sets[i] = set
		case map[string]interface{}:
			from, err := toInt(val["from"])
			if err != nil {
				return nil, fmt.Errorf("entry %d 'from': %w", i, err)
			}
			to, err := toInt(val["to"])
			if err != nil {
				return nil, fmt.Errorf("entry %d 'to': %w", i, err)
			}
			sets[i] = generators.IntRange(from, to)
		default:
			return nil, fmt.Errorf("entry %d must be a list or a {from, to} range", i)
		}
	}
	return sets, nil
}

// NormalizeRow applies the same number handling to a decoded seed row.
func NormalizeRow(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = normalize(v)
	}
	return out
}
