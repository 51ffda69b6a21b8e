package docindex

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-process Index with brute-force cosine search. It backs
// tests and deployments without Postgres.
type MemoryIndex struct {
	mu      sync.RWMutex
	chunks  map[string]Chunk
	options SearchOptions
}

func NewMemoryIndex(options SearchOptions) *MemoryIndex {
	return &MemoryIndex{
		chunks:  make(map[string]Chunk),
		options: options,
	}
}

func (x *MemoryIndex) Search(ctx context.Context, embedding []float32, departments []string, limit int) ([]Hit, error) {
	if len(departments) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = x.options.Limit
	}

	allowed := make(map[string]bool, len(departments))
	for _, d := range departments {
		allowed[d] = true
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	var hits []Hit
	for _, c := range x.chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !allowed[c.Department] {
			continue
		}
		sim := cosineSimilarity(embedding, c.Embedding)
		if sim < x.options.Threshold {
			continue
		}
		hits = append(hits, Hit{Chunk: c, Similarity: sim})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return AssignRanks(hits), nil
}

func (x *MemoryIndex) Upsert(ctx context.Context, chunks []Chunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	replaced := make(map[string]bool)
	for _, c := range chunks {
		replaced[c.SourceKey] = true
	}
	for id, existing := range x.chunks {
		if replaced[existing.SourceKey] {
			delete(x.chunks, id)
		}
	}
	for _, c := range chunks {
		x.chunks[c.ID] = c
	}
	return nil
}

func (x *MemoryIndex) DeleteBySource(ctx context.Context, sourceKey string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for id, c := range x.chunks {
		if c.SourceKey == sourceKey {
			delete(x.chunks, id)
		}
	}
	return nil
}

func (x *MemoryIndex) Count(ctx context.Context) (int64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return int64(len(x.chunks)), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
