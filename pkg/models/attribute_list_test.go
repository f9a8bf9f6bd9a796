package models

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttributeList_Canonical(t *testing.T) {
	a := NewAttributeList(3, 1, 2, 1)
	b := NewAttributeList(1, 2, 3)

	assert.Equal(t, []int{1, 2, 3}, a.Indices())
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "[1, 2, 3]", a.String())
}

func TestAttributeList_MapKey(t *testing.T) {
	seen := map[string]bool{}
	seen[NewAttributeList(0, 4).Key()] = true

	assert.True(t, seen[NewAttributeList(4, 0).Key()])
	assert.False(t, seen[NewAttributeList(0, 40).Key()])
	assert.NotEqual(t, NewAttributeList(1, 23).Key(), NewAttributeList(12, 3).Key())
}

func TestAttributeList_Union(t *testing.T) {
	tests := []struct {
		name string
		a, b AttributeList
		want []int
	}{
		{"disjoint", NewAttributeList(0, 2), NewAttributeList(1, 3), []int{0, 1, 2, 3}},
		{"overlap", NewAttributeList(0, 1), NewAttributeList(0, 2), []int{0, 1, 2}},
		{"empty left", AttributeList{}, NewAttributeList(5), []int{5}},
		{"identical", NewAttributeList(1, 2), NewAttributeList(1, 2), []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Union(tt.b).Indices())
			assert.Equal(t, tt.want, tt.b.Union(tt.a).Indices())
		})
	}
}

func TestAttributeList_SamePrefixAs(t *testing.T) {
	tests := []struct {
		name string
		a, b AttributeList
		want bool
	}{
		{"singletons", SingletonAttributeList(0), SingletonAttributeList(1), true},
		{"shared prefix", NewAttributeList(0, 1, 2), NewAttributeList(0, 1, 4), true},
		{"different prefix", NewAttributeList(0, 1, 2), NewAttributeList(0, 3, 4), false},
		{"different size", NewAttributeList(0, 1), NewAttributeList(0, 1, 2), false},
		{"identical", NewAttributeList(0, 1), NewAttributeList(0, 1), false},
		{"empty", AttributeList{}, AttributeList{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.SamePrefixAs(tt.b))
			assert.Equal(t, tt.want, tt.b.SamePrefixAs(tt.a))
			if tt.want {
				assert.Equal(t, tt.a.Len()+1, tt.a.Union(tt.b).Len())
			}
		})
	}
}

func TestAttributeList_SupersetOf(t *testing.T) {
	abc := NewAttributeList(0, 1, 2)

	assert.True(t, abc.SupersetOf(NewAttributeList(0, 2)))
	assert.True(t, abc.SupersetOf(abc))
	assert.True(t, abc.SupersetOf(AttributeList{}))
	assert.False(t, abc.SupersetOf(NewAttributeList(0, 3)))
	assert.False(t, NewAttributeList(0, 2).SupersetOf(abc))
}

func TestAttributeList_UnionSupersetIdentities(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomList := func() AttributeList {
		n := rng.Intn(5)
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(8)
		}
		return NewAttributeList(idx...)
	}

	for i := 0; i < 200; i++ {
		a, b := randomList(), randomList()
		require.True(t, a.Union(a).Equal(a), "A ∪ A == A for %s", a)
		require.True(t, a.SupersetOf(a), "A ⊇ A for %s", a)
		require.True(t, a.Union(b).SupersetOf(a), "A ∪ B ⊇ A for %s, %s", a, b)
		require.True(t, a.Union(b).SupersetOf(b), "A ∪ B ⊇ B for %s, %s", a, b)
		require.True(t, a.Union(b).Equal(b.Union(a)))
	}
}

func TestAttributeList_Contains(t *testing.T) {
	a := NewAttributeList(2, 5, 9)
	assert.True(t, a.Contains(5))
	assert.False(t, a.Contains(4))
	assert.Equal(t, 9, a.Last())
	assert.Equal(t, 2, a.At(0))
}

func TestAttributeList_JSON(t *testing.T) {
	data, err := json.Marshal(NewAttributeList(2, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `[0,2]`, string(data))

	var decoded AttributeList
	require.NoError(t, json.Unmarshal([]byte(`[3,1,3]`), &decoded))
	assert.True(t, decoded.Equal(NewAttributeList(1, 3)))

	empty, err := json.Marshal(AttributeList{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestAttributeList_Prefix(t *testing.T) {
	a := NewAttributeList(4, 1, 7)
	assert.Equal(t, []int{1, 4}, a.Prefix().Indices())
	assert.True(t, SingletonAttributeList(3).Prefix().IsEmpty())
	assert.Equal(t, []int{1, 4, 7}, a.Indices(), "receiver is unchanged")
}
