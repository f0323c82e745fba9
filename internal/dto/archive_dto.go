package dto

import (
	"time"

	"krishi-voice-be/pkg/store"
)

// PublishArchiveCallMessage is the payload handed to the archiver when a call
// ends. It carries a full snapshot because the live session is already gone
// from the store by the time the consumer runs.
type PublishArchiveCallMessage struct {
	CallId        string              `json:"call_id"`
	Turns         []store.Turn        `json:"turns"`
	FarmerContext store.FarmerContext `json:"farmer_context"`
	StartedAt     time.Time           `json:"started_at"`
	EndedAt       time.Time           `json:"ended_at"`
}
