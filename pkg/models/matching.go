package models

// SimilarityMatrix holds pair-wise attribute similarities between a source
// relation (rows) and a target relation (columns). Values are in [0, 1].
type SimilarityMatrix struct {
	Values [][]float64
	Source *Relation
	Target *Relation
}

// NewSimilarityMatrix allocates a zeroed rows x cols matrix.
func NewSimilarityMatrix(source, target *Relation) *SimilarityMatrix {
	values := make([][]float64, source.ColumnCount())
	for i := range values {
		values[i] = make([]float64, target.ColumnCount())
	}
	return &SimilarityMatrix{Values: values, Source: source, Target: target}
}

// Rows returns the number of source attributes.
func (m *SimilarityMatrix) Rows() int {
	return len(m.Values)
}

// Cols returns the number of target attributes.
func (m *SimilarityMatrix) Cols() int {
	if len(m.Values) == 0 {
		if m.Target != nil {
			return m.Target.ColumnCount()
		}
		return 0
	}
	return len(m.Values[0])
}

// CorrespondenceMatrix is a binary matrix: Values[i][j] == 1 iff source
// attribute i corresponds to target attribute j.
type CorrespondenceMatrix struct {
	Values [][]int
	Source *Relation
	Target *Relation
}

// Correspondence is one matched attribute pair.
type Correspondence struct {
	SourceIndex     int     `json:"source_index"`
	SourceAttribute string  `json:"source_attribute"`
	TargetIndex     int     `json:"target_index"`
	TargetAttribute string  `json:"target_attribute"`
	Similarity      float64 `json:"similarity"`
}

// Pairs lists the matched attribute pairs in source order. The similarity of
// each pair is taken from sim when it is non-nil.
func (m *CorrespondenceMatrix) Pairs(sim *SimilarityMatrix) []Correspondence {
	var pairs []Correspondence
	for i, row := range m.Values {
		for j, v := range row {
			if v != 1 {
				continue
			}
			c := Correspondence{
				SourceIndex:     i,
				SourceAttribute: m.Source.Attributes[i],
				TargetIndex:     j,
				TargetAttribute: m.Target.Attributes[j],
			}
			if sim != nil {
				c.Similarity = sim.Values[i][j]
			}
			pairs = append(pairs, c)
		}
	}
	return pairs
}
