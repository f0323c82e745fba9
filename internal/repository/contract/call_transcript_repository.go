package contract

import (
	"context"

	"krishi-voice-be/internal/model"
)

// CallTranscriptRepository archives finished calls.
type CallTranscriptRepository interface {
	Create(ctx context.Context, transcript *model.CallTranscript) error
}
