package implementation

import (
	"context"

	"krishi-voice-be/internal/model"
	"krishi-voice-be/internal/repository/contract"

	"gorm.io/gorm"
)

type CallTranscriptRepositoryImpl struct {
	db *gorm.DB
}

func NewCallTranscriptRepository(db *gorm.DB) contract.CallTranscriptRepository {
	return &CallTranscriptRepositoryImpl{db: db}
}

func (r *CallTranscriptRepositoryImpl) Create(ctx context.Context, transcript *model.CallTranscript) error {
	return r.db.WithContext(ctx).Create(transcript).Error
}
