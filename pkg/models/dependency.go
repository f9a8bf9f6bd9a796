package models

import "encoding/json"

// ============================================================================
// Unique Column Combinations
// ============================================================================

// UCC is a minimal unique column combination discovered in a relation.
type UCC struct {
	Relation   *Relation
	Attributes AttributeList
}

// NewUCC returns a UCC over the given relation.
func NewUCC(relation *Relation, attributes AttributeList) UCC {
	return UCC{Relation: relation, Attributes: attributes}
}

// Names resolves the combination to attribute names.
func (u UCC) Names() []string {
	return u.Relation.AttributeNames(u.Attributes)
}

type uccJSON struct {
	Relation   string        `json:"relation"`
	Attributes []string      `json:"attributes"`
	Indices    AttributeList `json:"indices"`
}

// MarshalJSON renders the UCC with resolved attribute names.
func (u UCC) MarshalJSON() ([]byte, error) {
	return json.Marshal(uccJSON{
		Relation:   u.Relation.Name,
		Attributes: u.Names(),
		Indices:    u.Attributes,
	})
}

// ============================================================================
// Inclusion Dependencies
// ============================================================================

// ColumnRef points at one attribute of a relation.
type ColumnRef struct {
	Relation *Relation
	Index    int
}

// Name returns the attribute name of the referenced column.
func (c ColumnRef) Name() string {
	return c.Relation.Attributes[c.Index]
}

// IND is a unary inclusion dependency: every value of Dependent also occurs
// in Referenced.
type IND struct {
	Dependent  ColumnRef
	Referenced ColumnRef
}

// NewIND returns the dependency dep ⊆ ref.
func NewIND(depRelation *Relation, depIndex int, refRelation *Relation, refIndex int) IND {
	return IND{
		Dependent:  ColumnRef{Relation: depRelation, Index: depIndex},
		Referenced: ColumnRef{Relation: refRelation, Index: refIndex},
	}
}

// String renders the dependency as rel.col ⊆ rel.col.
func (d IND) String() string {
	return d.Dependent.Relation.Name + "." + d.Dependent.Name() + " ⊆ " +
		d.Referenced.Relation.Name + "." + d.Referenced.Name()
}

type columnRefJSON struct {
	Relation  string `json:"relation"`
	Attribute string `json:"attribute"`
	Index     int    `json:"index"`
}

// MarshalJSON renders the dependency with resolved names.
func (d IND) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Dependent  columnRefJSON `json:"dependent"`
		Referenced columnRefJSON `json:"referenced"`
	}{
		Dependent: columnRefJSON{
			Relation:  d.Dependent.Relation.Name,
			Attribute: d.Dependent.Name(),
			Index:     d.Dependent.Index,
		},
		Referenced: columnRefJSON{
			Relation:  d.Referenced.Relation.Name,
			Attribute: d.Referenced.Name(),
			Index:     d.Referenced.Index,
		},
	})
}
