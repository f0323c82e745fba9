package search

import (
	"context"
	"fmt"
	"log"

	"krishi-voice-be/internal/repository/contract"
	"krishi-voice-be/pkg/embedding"
	"krishi-voice-be/pkg/store"
)

// Orchestrator runs the query path of the grounded retrieval index: embed the
// query with the same model family the ingestion pipeline used, run vector
// search, filter by score. The index itself is read-only from here.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	passageRepo       contract.PassageEmbeddingRepository
	logger            *log.Logger
}

// NewOrchestrator creates a new search orchestrator
func NewOrchestrator(
	embeddingProvider embedding.EmbeddingProvider,
	passageRepo contract.PassageEmbeddingRepository,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		passageRepo:       passageRepo,
		logger:            logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	DBThreshold    float64
	LogicThreshold float64
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		DBThreshold:    0.0,
		LogicThreshold: 0.35,
	}
}

// Search returns up to k passages ordered by descending relevance. The
// returned slice is a fresh copy per call; a repeat query re-ranks from
// scratch. Satisfies tools.Retriever.
func (o *Orchestrator) Search(ctx context.Context, query string, k int) ([]store.Passage, error) {
	return o.Execute(ctx, query, k, DefaultConfig())
}

// Execute runs vector search with explicit thresholds.
func (o *Orchestrator) Execute(ctx context.Context, query string, k int, config Config) ([]store.Passage, error) {
	queryVec, err := o.embeddingProvider.Generate(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scoredResults, err := o.passageRepo.SearchSimilarWithScore(
		ctx,
		queryVec,
		k,
		config.DBThreshold,
	)
	if err != nil {
		o.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, err
	}

	o.logger.Printf("[DEBUG] Raw search results: %d passages", len(scoredResults))

	passages := o.filterPassages(scoredResults, config.LogicThreshold)

	o.logger.Printf("[DEBUG] Passages above threshold: %d", len(passages))

	return passages, nil
}

func (o *Orchestrator) filterPassages(results []*contract.ScoredPassage, threshold float64) []store.Passage {
	var passages []store.Passage

	for i, res := range results {
		if res.Similarity >= threshold {
			passages = append(passages, store.Passage{
				SourceID: res.Passage.SourceId,
				Text:     res.Passage.Text,
				Score:    float32(res.Similarity),
			})
			o.logger.Printf("[DEBUG] Passage %d: Score=%.4f [KEEP]", i+1, res.Similarity)
		} else {
			o.logger.Printf("[DEBUG] Passage %d: Score=%.4f [FILTERED]", i+1, res.Similarity)
		}
	}

	return passages
}
