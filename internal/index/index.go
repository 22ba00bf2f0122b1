package index

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"agent-router/internal/embeddings"
)

// ErrUnavailable is returned when the index cannot be reached.
var ErrUnavailable = errors.New("index unavailable")

// Passage is one ranked chunk of the pre-built corpus.
type Passage struct {
	ChunkID    uuid.UUID
	DocumentID uuid.UUID
	Ord        int
	Text       string
	Score      float32
	// Summary and KeyPoints describe the chunk's document when the corpus
	// carries them.
	Summary   string
	KeyPoints []string
}

// Index is a read-only similarity index over the corpus.
type Index interface {
	TopK(ctx context.Context, vector embeddings.Vector, k int) ([]Passage, error)
	Ping(ctx context.Context) error
}
