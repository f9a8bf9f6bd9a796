package similarity

// Levenshtein scores 1 - distance/maxLength, where distance is the number of
// insertions, deletions and substitutions turning one input into the other.
// With Damerau set, swapping two adjacent elements also costs one edit
// (optimal string alignment: no substring is edited twice).
//
// Strings are compared rune by rune, token sequences token by token.
type Levenshtein struct {
	Damerau bool
}

// NewLevenshtein returns a Levenshtein measure.
func NewLevenshtein(damerau bool) *Levenshtein {
	return &Levenshtein{Damerau: damerau}
}

var _ Measure = (*Levenshtein)(nil)

func (l *Levenshtein) Calculate(a, b string) float64 {
	return normalize(editDistance([]rune(a), []rune(b), l.Damerau), len([]rune(a)), len([]rune(b)))
}

func (l *Levenshtein) CalculateTokens(a, b []string) float64 {
	return normalize(editDistance(a, b, l.Damerau), len(a), len(b))
}

// Distance returns the raw edit distance between two strings.
func (l *Levenshtein) Distance(a, b string) int {
	return editDistance([]rune(a), []rune(b), l.Damerau)
}

func normalize(distance, lenA, lenB int) float64 {
	maxLen := max(lenA, lenB)
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// editDistance keeps three rows of the DP table: the one being filled, the
// previous one, and the one before that for transposition lookups.
func editDistance[T comparable](a, b []T, transpositions bool) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prevPrev := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
			if transpositions && i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				curr[j] = min(curr[j], prevPrev[j-2]+1)
			}
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}

	return prev[len(b)]
}
