// Package similarity provides string and token-sequence similarity measures
// used by schema matching. Every measure returns a value in [0, 1]; two empty
// inputs are considered identical and score 1.
package similarity

// Measure compares two strings or two token sequences.
type Measure interface {
	// Calculate returns the similarity of two strings.
	Calculate(a, b string) float64

	// CalculateTokens returns the similarity of two token sequences.
	CalculateTokens(a, b []string) float64
}
