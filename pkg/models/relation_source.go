package models

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

// SourceTypeInline marks a RelationSource whose rows are carried in the request.
const SourceTypeInline = "inline"

// RelationSource describes where a relation comes from: either inline rows,
// or a table read through a registered datasource adapter.
type RelationSource struct {
	Name string `json:"name,omitempty"`

	// Inline data. A JSON null cell becomes Null.
	Attributes []string    `json:"attributes,omitempty"`
	Rows       [][]*string `json:"rows,omitempty"`

	// Datasource reference.
	Type   string         `json:"type,omitempty"` // "csv", "postgres", "sqlserver"
	Config map[string]any `json:"config,omitempty"`
	Table  string         `json:"table,omitempty"`
}

// IsInline reports whether the source carries its own rows.
func (s RelationSource) IsInline() bool {
	return s.Type == "" || s.Type == SourceTypeInline
}

// InlineRelation converts inline rows to a Relation.
func (s RelationSource) InlineRelation() (*Relation, error) {
	if !s.IsInline() {
		return nil, fmt.Errorf("source type %q is not inline", s.Type)
	}
	if len(s.Attributes) == 0 && len(s.Rows) > 0 {
		return nil, fmt.Errorf("%w: rows given without attributes", apperrors.ErrInvalidRelation)
	}

	rows := make([][]Value, len(s.Rows))
	for r, raw := range s.Rows {
		row := make([]Value, len(raw))
		for c, cell := range raw {
			if cell != nil {
				row[c] = Text(*cell)
			}
		}
		rows[r] = row
	}

	name := s.Name
	if name == "" {
		name = "inline"
	}
	return NewRelationFromRows(name, s.Attributes, rows)
}
