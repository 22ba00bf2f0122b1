package knowledge

import (
	"context"
	"fmt"

	"agent-router/internal/embeddings"
	"agent-router/internal/index"
)

const defaultTopK = 4

// Retriever returns the passages that best support a question, best first.
// An empty result is not an error.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]index.Passage, error)
}

// VectorRetriever embeds the question and runs a similarity search.
type VectorRetriever struct {
	embedder embeddings.Embedder
	index    index.Index
	topK     int
}

func NewVectorRetriever(embedder embeddings.Embedder, idx index.Index, topK int) *VectorRetriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &VectorRetriever{embedder: embedder, index: idx, topK: topK}
}

func (v *VectorRetriever) Retrieve(ctx context.Context, question string) ([]index.Passage, error) {
	vec, err := v.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	passages, err := v.index.TopK(ctx, vec, v.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return passages, nil
}
