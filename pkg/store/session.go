package store

import "time"

// Passage represents a knowledge snippet surfaced by the retrieval index.
// Returned sets are read-only evidence for the turn that requested them.
type Passage struct {
	SourceID string  `json:"source_id"`
	Text     string  `json:"text"`
	Score    float32 `json:"score"`
}

// ToolCallRecord captures a single tool invocation made while answering a turn.
type ToolCallRecord struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
	Result    string                 `json:"result,omitempty"`
	Failed    bool                   `json:"failed"`
	Error     string                 `json:"error,omitempty"`
	LatencyMs int64                  `json:"latency_ms"`
}

// Turn is one caller-utterance -> assistant-response cycle within a call.
type Turn struct {
	Sequence  int64            `json:"sequence"` // telephony event id, strictly increasing
	Utterance string           `json:"utterance"`
	Answer    string           `json:"answer"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
	Failed    bool             `json:"failed"` // reasoning engine was down; answer is a fixed fallback
	CreatedAt time.Time        `json:"created_at"`
}

// FarmerContext holds slots harvested opportunistically across turns.
// Values feed the system prompt so later turns stay personalized.
type FarmerContext struct {
	Location string `json:"location,omitempty"`
	Crop     string `json:"crop,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Session is the full in-memory state of one phone call.
// Owned by the session manager; turn executors receive it for one turn only.
type Session struct {
	CallID       string        `json:"call_id"`
	Turns        []Turn        `json:"turns"`
	Context      FarmerContext `json:"context"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActiveAt time.Time     `json:"last_active_at"`
	Ended        bool          `json:"ended"` // hangup received; no further turns accepted
}

// TurnBySequence returns the recorded turn for a telephony sequence id, if any.
// Used to answer webhook redeliveries without re-running the turn.
func (s *Session) TurnBySequence(seq int64) (*Turn, bool) {
	for i := range s.Turns {
		if s.Turns[i].Sequence == seq {
			return &s.Turns[i], true
		}
	}
	return nil, false
}

// LastSequence returns the highest sequence recorded so far, or 0.
func (s *Session) LastSequence() int64 {
	if len(s.Turns) == 0 {
		return 0
	}
	return s.Turns[len(s.Turns)-1].Sequence
}
