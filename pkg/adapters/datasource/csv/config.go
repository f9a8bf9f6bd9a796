package csv

import (
	"fmt"
	"unicode/utf8"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
)

// Config contains CSV-specific loader options.
// Exactly one of Path and Content is set.
type Config struct {
	Path      string
	Content   string
	Delimiter rune
	NullToken string
	HasHeader bool
}

// FromMap creates a Config from a generic config map. Delimiter and null
// token default to the server-wide values.
func FromMap(config map[string]any, defaultDelimiter rune, defaultNullToken string) (*Config, error) {
	cfg := &Config{
		Delimiter: defaultDelimiter,
		NullToken: defaultNullToken,
		HasHeader: true,
	}

	path, hasPath := config["path"].(string)
	content, hasContent := config["content"].(string)
	switch {
	case hasPath && hasContent:
		return nil, fmt.Errorf("path and content are mutually exclusive")
	case hasPath:
		cfg.Path = path
	case hasContent:
		cfg.Content = content
	default:
		return nil, fmt.Errorf("path or content is required")
	}

	if delimiter, ok := config["delimiter"].(string); ok {
		if utf8.RuneCountInString(delimiter) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
		}
		cfg.Delimiter, _ = utf8.DecodeRuneInString(delimiter)
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}

	if nullToken, ok := config["null_token"].(string); ok {
		cfg.NullToken = nullToken
	}

	if hasHeader, ok := datasource.ConfigBool(config, "has_header"); ok {
		cfg.HasHeader = hasHeader
	}

	return cfg, nil
}
