package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProfileRunKind identifies which profiler produced a run.
type ProfileRunKind string

const (
	ProfileRunKindUCC   ProfileRunKind = "ucc"
	ProfileRunKindIND   ProfileRunKind = "ind"
	ProfileRunKindMatch ProfileRunKind = "match"
)

// ProfileRun is the stored outcome of one profiling request.
// Result holds one of UCCResult, INDResult or MatchResult encoded as JSON.
type ProfileRun struct {
	ID         uuid.UUID       `json:"id"`
	Kind       ProfileRunKind  `json:"kind"`
	Relations  []string        `json:"relations"`
	Result     json.RawMessage `json:"result"`
	DurationMs int64           `json:"duration_ms"`
	Cached     bool            `json:"cached"`
	CreatedAt  time.Time       `json:"created_at"`
}

// UCCResult is the payload of a ucc run.
type UCCResult struct {
	Relation    string `json:"relation"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	UCCs        []UCC  `json:"uccs"`

	// Search effort.
	Levels        int `json:"levels"`
	Intersections int `json:"intersections"`
	Pruned        int `json:"pruned"`
}

// INDResult is the payload of an ind run.
type INDResult struct {
	INDs []IND `json:"inds"`
}

// MatchResult is the payload of a match run.
type MatchResult struct {
	Source          string           `json:"source"`
	Target          string           `json:"target"`
	Similarity      [][]float64      `json:"similarity"`
	Correspondences []Correspondence `json:"correspondences"`
}
