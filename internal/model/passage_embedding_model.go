package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// PassageEmbedding is one corpus passage with its precomputed embedding.
// Rows are written by the offline ingestion pipeline; the orchestrator only reads.
type PassageEmbedding struct {
	Id             int64           `gorm:"primaryKey;autoIncrement"`
	SourceId       string          `gorm:"type:varchar(255);not null;index"` // originating document
	Passage        string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // must match the ingestion embedding model
	IngestIndex    int64           `gorm:"not null;index"`   // position in ingestion order, tie-break key
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (PassageEmbedding) TableName() string {
	return "passage_embeddings"
}
