package contract

import (
	"context"

	"krishi-voice-be/internal/entity"
)

// ScoredPassage pairs a corpus passage with its similarity to a query vector.
type ScoredPassage struct {
	Passage    *entity.Passage
	Similarity float64
}

// PassageEmbeddingRepository is the read-only query interface over the
// precomputed corpus index. Ingestion happens out-of-band.
type PassageEmbeddingRepository interface {
	// SearchSimilarWithScore returns up to limit passages ordered by descending
	// similarity. Equal similarities keep ingestion order (earliest first) so
	// identical queries always return identical sequences.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]*ScoredPassage, error)
}
