package dto

import "time"

// TurnWebhookRequest is the inbound telephony event: one transcribed caller
// utterance. Sequence is the provider's event counter within the call; it is
// how redeliveries are detected.
type TurnWebhookRequest struct {
	CallId    string `json:"call_id" validate:"required"`
	Sequence  int64  `json:"sequence" validate:"required,gt=0"`
	Utterance string `json:"utterance" validate:"required,max=2000"`
}

// TurnWebhookResponse carries plain text destined for speech synthesis.
// No markup, bounded length; the telephony layer reads it aloud verbatim.
type TurnWebhookResponse struct {
	CallId string `json:"call_id"`
	Reply  string `json:"reply"`
}

// HangupWebhookRequest signals call termination from the telephony layer.
type HangupWebhookRequest struct {
	CallId string `json:"call_id" validate:"required"`
}

// ActiveSessionResponse is one live call in the monitoring listing.
type ActiveSessionResponse struct {
	CallId       string    `json:"call_id"`
	TurnCount    int       `json:"turn_count"`
	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}
