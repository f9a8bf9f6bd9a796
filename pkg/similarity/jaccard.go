package similarity

// Jaccard measures token overlap. With set semantics duplicates are ignored
// and the score is |A ∩ B| / |A ∪ B|. With bag semantics duplicates count,
// the intersection takes the smaller multiplicity of each token and the union
// is |A| + |B|, so identical inputs score 1/2.
type Jaccard struct {
	Tokenizer    Tokenizer
	BagSemantics bool
}

// NewJaccard returns a Jaccard measure.
func NewJaccard(tokenizer Tokenizer, bagSemantics bool) *Jaccard {
	return &Jaccard{Tokenizer: tokenizer, BagSemantics: bagSemantics}
}

var _ Measure = (*Jaccard)(nil)

func (j *Jaccard) Calculate(a, b string) float64 {
	return j.CalculateTokens(j.Tokenizer.Tokenize(a), j.Tokenizer.Tokenize(b))
}

func (j *Jaccard) CalculateTokens(a, b []string) float64 {
	if j.BagSemantics {
		return bagJaccard(a, b)
	}
	return setJaccard(a, b)
}

func setJaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func bagJaccard(a, b []string) float64 {
	union := len(a) + len(b)
	if union == 0 {
		return 1.0
	}

	counts := make(map[string]int, len(a))
	for _, t := range a {
		counts[t]++
	}
	intersection := 0
	for _, t := range b {
		if counts[t] > 0 {
			counts[t]--
			intersection++
		}
	}
	return float64(intersection) / float64(union)
}
