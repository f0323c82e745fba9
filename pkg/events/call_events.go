package events

import "time"

const (
	TypeCallStarted = "CALL_STARTED"
	TypeCallEnded   = "CALL_ENDED"
)

// NewCallStartedEvent fires when the first webhook of a call creates a session.
func NewCallStartedEvent(callID string) Event {
	return BaseEvent{
		Type: TypeCallStarted,
		Data: map[string]interface{}{
			"call_id": callID,
		},
		OccurredAt: time.Now(),
	}
}

// NewCallEndedEvent fires on hangup or inactivity eviction.
func NewCallEndedEvent(callID string, turnCount int, duration time.Duration) Event {
	return BaseEvent{
		Type: TypeCallEnded,
		Data: map[string]interface{}{
			"call_id":          callID,
			"turn_count":       turnCount,
			"duration_seconds": int(duration.Seconds()),
		},
		OccurredAt: time.Now(),
	}
}
