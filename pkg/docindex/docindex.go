package docindex

import (
	"context"
	"time"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

// Chunk is one indexed slice of a corpus document. Sensitivity and
// AccessRoles carry the owning source's catalog annotations so retrieval
// consumers can enforce tier checks per hit, not just per department.
type Chunk struct {
	ID          string
	SourceKey   string
	Department  string
	Section     string
	ChunkIndex  int
	Content     string
	Sensitivity auth.Sensitivity
	AccessRoles []auth.Role
	Embedding   []float32
}

// Hit is a retrieved chunk with its similarity to the query. Rank is dense
// and 1-based in descending similarity order; Similarity is cosine, in [0, 1]
// for normalized embeddings.
type Hit struct {
	Chunk      Chunk
	Similarity float64
	Rank       int
}

// Index is the retrieval surface the assistant depends on. Departments is the
// caller's pre-authorized allow list; an empty list returns nothing, so a
// misconfigured caller fails closed.
type Index interface {
	Search(ctx context.Context, embedding []float32, departments []string, limit int) ([]Hit, error)
	Upsert(ctx context.Context, chunks []Chunk) error
	DeleteBySource(ctx context.Context, sourceKey string) error
	Count(ctx context.Context) (int64, error)
}

// SearchOptions tunes a retrieval pass.
type SearchOptions struct {
	Limit     int
	Threshold float64
	Timeout   time.Duration
}

// DefaultSearchOptions mirrors the retrieval defaults used across the
// assistant: top 5 chunks at or above 0.3 similarity.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:     5,
		Threshold: 0.3,
		Timeout:   10 * time.Second,
	}
}

// AssignRanks renumbers hits 1-based in their current order. Callers that
// post-filter a result list use it to keep ranks dense.
func AssignRanks(hits []Hit) []Hit {
	for i := range hits {
		hits[i].Rank = i + 1
	}
	return hits
}
