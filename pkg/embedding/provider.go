package embedding

import "context"

// Task types accepted by embedding backends that distinguish how the vector
// will be used. Backends that do not support task types ignore them.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// Provider turns text into a unit-length vector. All implementations must
// normalize their output, cosine distance in the index assumes magnitude 1.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	Dimensions() int
}
