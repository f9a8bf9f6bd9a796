package models

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// AttributeList is an immutable set of column indices kept in ascending order
// without duplicates. It identifies one node of the column-combination lattice.
//
// The zero value is the empty list. Two lists are equal iff they contain the
// same indices, regardless of how they were constructed; Key returns a string
// form suitable for map keys.
type AttributeList struct {
	indices []int
	key     string
}

// NewAttributeList returns the canonical list for the given indices.
func NewAttributeList(indices ...int) AttributeList {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return newCanonical(sorted)
}

// SingletonAttributeList returns a one-element list.
func SingletonAttributeList(index int) AttributeList {
	return newCanonical([]int{index})
}

// newCanonical takes ownership of an already sorted, duplicate-free slice.
func newCanonical(sorted []int) AttributeList {
	var b strings.Builder
	for i, idx := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(idx))
	}
	return AttributeList{indices: sorted, key: b.String()}
}

// Len returns the number of indices.
func (a AttributeList) Len() int {
	return len(a.indices)
}

// IsEmpty reports whether the list has no indices.
func (a AttributeList) IsEmpty() bool {
	return len(a.indices) == 0
}

// Indices returns a copy of the indices in ascending order.
func (a AttributeList) Indices() []int {
	return slices.Clone(a.indices)
}

// At returns the i-th index in canonical order.
func (a AttributeList) At(i int) int {
	return a.indices[i]
}

// Last returns the largest index. It panics on an empty list.
func (a AttributeList) Last() int {
	return a.indices[len(a.indices)-1]
}

// Prefix returns the list without its last index. It panics on an empty list.
func (a AttributeList) Prefix() AttributeList {
	return newCanonical(slices.Clone(a.indices[:len(a.indices)-1]))
}

// Key returns the structural hash key of the list.
func (a AttributeList) Key() string {
	return a.key
}

// Equal reports structural equality.
func (a AttributeList) Equal(other AttributeList) bool {
	return a.key == other.key
}

// Contains reports whether index is part of the list.
func (a AttributeList) Contains(index int) bool {
	_, found := slices.BinarySearch(a.indices, index)
	return found
}

// Union returns the canonical union of both lists.
func (a AttributeList) Union(other AttributeList) AttributeList {
	merged := make([]int, 0, len(a.indices)+len(other.indices))
	i, j := 0, 0
	for i < len(a.indices) && j < len(other.indices) {
		switch {
		case a.indices[i] < other.indices[j]:
			merged = append(merged, a.indices[i])
			i++
		case a.indices[i] > other.indices[j]:
			merged = append(merged, other.indices[j])
			j++
		default:
			merged = append(merged, a.indices[i])
			i++
			j++
		}
	}
	merged = append(merged, a.indices[i:]...)
	merged = append(merged, other.indices[j:]...)
	return newCanonical(merged)
}

// SamePrefixAs reports whether both lists have the same cardinality n >= 1,
// agree on their first n-1 indices and differ in the last one. Only such pairs
// are joined during the lattice search; their union has cardinality n+1.
func (a AttributeList) SamePrefixAs(other AttributeList) bool {
	n := len(a.indices)
	if n == 0 || n != len(other.indices) {
		return false
	}
	for i := 0; i < n-1; i++ {
		if a.indices[i] != other.indices[i] {
			return false
		}
	}
	return a.indices[n-1] != other.indices[n-1]
}

// SupersetOf reports whether every index of other is contained in a.
// A list is a superset of itself.
func (a AttributeList) SupersetOf(other AttributeList) bool {
	if len(other.indices) > len(a.indices) {
		return false
	}
	i := 0
	for _, idx := range other.indices {
		for i < len(a.indices) && a.indices[i] < idx {
			i++
		}
		if i == len(a.indices) || a.indices[i] != idx {
			return false
		}
		i++
	}
	return true
}

// String renders the list as [i, j, k].
func (a AttributeList) String() string {
	return "[" + strings.ReplaceAll(a.key, ",", ", ") + "]"
}

// MarshalJSON encodes the list as a JSON array of indices.
func (a AttributeList) MarshalJSON() ([]byte, error) {
	if a.indices == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.indices)
}

// UnmarshalJSON decodes a JSON array of indices into canonical form.
func (a *AttributeList) UnmarshalJSON(data []byte) error {
	var indices []int
	if err := json.Unmarshal(data, &indices); err != nil {
		return err
	}
	*a = NewAttributeList(indices...)
	return nil
}
