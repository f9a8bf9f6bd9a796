package datasource

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// RelationBuilder accumulates rows into column-major storage.
type RelationBuilder struct {
	name       string
	attributes []string
	columns    [][]models.Value
	rows       int
}

// NewRelationBuilder starts a relation with the given attributes.
func NewRelationBuilder(name string, attributes []string) *RelationBuilder {
	return &RelationBuilder{
		name:       name,
		attributes: attributes,
		columns:    make([][]models.Value, len(attributes)),
	}
}

// AddRow appends one row. The row must have one value per attribute.
func (b *RelationBuilder) AddRow(row []models.Value) error {
	if len(row) != len(b.attributes) {
		return fmt.Errorf("%w: row %d has %d values, expected %d",
			apperrors.ErrInvalidRelation, b.rows+1, len(row), len(b.attributes))
	}
	for i, v := range row {
		b.columns[i] = append(b.columns[i], v)
	}
	b.rows++
	return nil
}

// Build returns the relation.
func (b *RelationBuilder) Build() (*models.Relation, error) {
	for i := range b.columns {
		if b.columns[i] == nil {
			b.columns[i] = []models.Value{}
		}
	}
	return models.NewRelation(b.name, b.attributes, b.columns)
}
