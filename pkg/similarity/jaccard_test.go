package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard_SetSemantics(t *testing.T) {
	j := NewJaccard(NewTokenizer(0, false), false)

	assert.InDelta(t, 1.0, j.Calculate("a b c", "c b a"), 1e-9)
	assert.InDelta(t, 0.5, j.Calculate("a b c", "b c d"), 1e-9)
	assert.InDelta(t, 2.0/3.0, j.Calculate("a b", "b c a"), 1e-9)
	assert.InDelta(t, 0.0, j.Calculate("a", "b"), 1e-9)
	// Duplicates collapse.
	assert.InDelta(t, 1.0, j.CalculateTokens([]string{"a", "a"}, []string{"a"}), 1e-9)
}

func TestJaccard_BagSemantics(t *testing.T) {
	j := NewJaccard(NewTokenizer(0, false), true)

	assert.InDelta(t, 0.5, j.Calculate("a b c", "a b c"), 1e-9)
	assert.InDelta(t, 1.0/3.0, j.CalculateTokens([]string{"a", "a"}, []string{"a"}), 1e-9)
	assert.InDelta(t, 2.0/6.0, j.CalculateTokens([]string{"a", "a", "b"}, []string{"a", "a", "c"}), 1e-9)
	assert.InDelta(t, 0.0, j.Calculate("x", "y"), 1e-9)
}

func TestJaccard_Ngrams(t *testing.T) {
	j := NewJaccard(NewTokenizer(2, false), false)

	// {ab, bc} vs {ab, bd}
	assert.InDelta(t, 1.0/3.0, j.Calculate("abc", "abd"), 1e-9)
}

func TestJaccard_EmptyInputs(t *testing.T) {
	for _, bag := range []bool{false, true} {
		j := NewJaccard(NewTokenizer(3, true), bag)
		assert.Equal(t, 1.0, j.Calculate("", ""))
		assert.Equal(t, 1.0, j.CalculateTokens(nil, []string{}))
		assert.Equal(t, 0.0, j.Calculate("", "abc"))
	}
}

func TestJaccard_Bounds(t *testing.T) {
	inputs := []string{"", "a", "customer", "customers", "cust id", "id", "ID"}
	for _, bag := range []bool{false, true} {
		j := NewJaccard(NewTokenizer(3, true), bag)
		for _, a := range inputs {
			for _, b := range inputs {
				s := j.Calculate(a, b)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
				assert.InDelta(t, s, j.Calculate(b, a), 1e-12, "%q vs %q", a, b)
			}
		}
	}
}
