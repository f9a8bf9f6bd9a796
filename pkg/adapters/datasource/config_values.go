package datasource

import (
	"fmt"
	"math"
	"strconv"
)

// ConfigString returns the first non-empty string stored under any of keys.
func ConfigString(config map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := config[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// RequiredString is ConfigString that fails with "<name> is required".
func RequiredString(config map[string]any, name string, keys ...string) (string, error) {
	if len(keys) == 0 {
		keys = []string{name}
	}
	s, ok := ConfigString(config, keys...)
	if !ok {
		return "", fmt.Errorf("%s is required", name)
	}
	return s, nil
}

// ConfigInt reads an integer. JSON decoding yields float64, Go callers pass
// int, and YAML or form input may pass a decimal string.
func ConfigInt(config map[string]any, key string) (int, bool, error) {
	switch v := config[key].(type) {
	case nil:
		return 0, false, nil
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, false, fmt.Errorf("%s must be an integer, got %v", key, v)
		}
		return int(v), true, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false, fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
}

// ConfigBool reads a bool given as a JSON bool or a strconv.ParseBool string.
// Extra strings listed in truthy also read as true.
func ConfigBool(config map[string]any, key string, truthy ...string) (bool, bool) {
	switch v := config[key].(type) {
	case bool:
		return v, true
	case string:
		for _, t := range truthy {
			if v == t {
				return true, true
			}
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, true
		}
		return b, true
	default:
		return false, false
	}
}
