package embedding

import "context"

// EmbeddingProvider turns text into a vector comparable against the pgvector
// index. taskType distinguishes query-time from ingestion-time embeddings for
// providers that support it (Gemini); others ignore it.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
