package implementation

import (
	"context"

	"krishi-voice-be/internal/entity"
	"krishi-voice-be/internal/model"
	"krishi-voice-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PassageEmbeddingRepositoryImpl struct {
	db *gorm.DB
}

func NewPassageEmbeddingRepository(db *gorm.DB) contract.PassageEmbeddingRepository {
	return &PassageEmbeddingRepositoryImpl{db: db}
}

// scoredPassageRow is the raw projection of the similarity query.
type scoredPassageRow struct {
	model.PassageEmbedding
	Similarity float64
}

func (r *PassageEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]*contract.ScoredPassage, error) {
	if limit <= 0 {
		limit = 4
	}

	var rows []scoredPassageRow

	// pgvector cosine distance: embedding_value <=> query. Similarity = 1 - distance.
	// Secondary ORDER BY ingest_index keeps equal-similarity rows in ingestion
	// order, which makes results deterministic for identical inputs.
	vec := pgvector.NewVector(embedding)
	err := r.db.WithContext(ctx).
		Table("passage_embeddings").
		Select("passage_embeddings.*, 1 - (embedding_value <=> ?) AS similarity", vec).
		Where("1 - (embedding_value <=> ?) >= ?", vec, minSimilarity).
		Order("similarity DESC, ingest_index ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]*contract.ScoredPassage, len(rows))
	for i, row := range rows {
		results[i] = &contract.ScoredPassage{
			Passage: &entity.Passage{
				SourceId:    row.SourceId,
				Text:        row.Passage,
				IngestIndex: row.IngestIndex,
			},
			Similarity: row.Similarity,
		}
	}
	return results, nil
}
