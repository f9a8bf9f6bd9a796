package models

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

// ============================================================================
// Values
// ============================================================================

// Value is a single cell of a relation. The zero Value is Null.
// Value is comparable, so it can be used directly as a map key; all nulls
// compare equal to each other.
type Value struct {
	String string
	Valid  bool
}

// Null is the sentinel for a missing cell.
var Null = Value{}

// Text returns a non-null Value.
func Text(s string) Value {
	return Value{String: s, Valid: true}
}

// IsNull reports whether v is the null sentinel.
func (v Value) IsNull() bool {
	return !v.Valid
}

// ============================================================================
// Relation
// ============================================================================

// Relation is an immutable, column-major table: an ordered list of attribute
// names and one column of values per attribute. All columns have the same
// length (the row count).
type Relation struct {
	Name       string
	Attributes []string
	Columns    [][]Value

	rowCount int
}

// NewRelation validates and builds a Relation. The number of attribute names
// must match the number of columns and every column must have the same length.
// The slices are retained, callers must not modify them afterwards.
func NewRelation(name string, attributes []string, columns [][]Value) (*Relation, error) {
	if len(attributes) != len(columns) {
		return nil, fmt.Errorf("%w: %d attribute names for %d columns",
			apperrors.ErrInvalidRelation, len(attributes), len(columns))
	}

	rowCount := 0
	for i, col := range columns {
		if i == 0 {
			rowCount = len(col)
			continue
		}
		if len(col) != rowCount {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				apperrors.ErrInvalidRelation, attributes[i], len(col), rowCount)
		}
	}

	return &Relation{
		Name:       name,
		Attributes: attributes,
		Columns:    columns,
		rowCount:   rowCount,
	}, nil
}

// NewRelationFromRows builds a Relation from row-major data.
func NewRelationFromRows(name string, attributes []string, rows [][]Value) (*Relation, error) {
	columns := make([][]Value, len(attributes))
	for i := range columns {
		columns[i] = make([]Value, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(attributes) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d",
				apperrors.ErrInvalidRelation, r, len(row), len(attributes))
		}
		for c, v := range row {
			columns[c][r] = v
		}
	}
	return NewRelation(name, attributes, columns)
}

// RowCount returns the number of rows.
func (r *Relation) RowCount() int {
	return r.rowCount
}

// ColumnCount returns the number of attributes.
func (r *Relation) ColumnCount() int {
	return len(r.Attributes)
}

// Column returns the values of the attribute at index i.
func (r *Relation) Column(i int) []Value {
	return r.Columns[i]
}

// AttributeIndex returns the index of the named attribute, or -1.
func (r *Relation) AttributeIndex(name string) int {
	for i, a := range r.Attributes {
		if a == name {
			return i
		}
	}
	return -1
}

// AttributeNames resolves an AttributeList to attribute names.
func (r *Relation) AttributeNames(list AttributeList) []string {
	names := make([]string, 0, list.Len())
	for _, idx := range list.indices {
		names = append(names, r.Attributes[idx])
	}
	return names
}

// Fingerprint returns a stable hex digest of the relation's attributes and
// values. The relation name is not part of the digest.
func (r *Relation) Fingerprint() string {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte

	writeString := func(s string) {
		n := binary.PutUvarint(buf[:], uint64(len(s)))
		h.Write(buf[:n])
		h.Write([]byte(s))
	}

	n := binary.PutUvarint(buf[:], uint64(len(r.Attributes)))
	h.Write(buf[:n])
	for _, a := range r.Attributes {
		writeString(a)
	}
	n = binary.PutUvarint(buf[:], uint64(r.rowCount))
	h.Write(buf[:n])
	for _, col := range r.Columns {
		for _, v := range col {
			if !v.Valid {
				h.Write([]byte{0})
				continue
			}
			h.Write([]byte{1})
			writeString(v.String)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
