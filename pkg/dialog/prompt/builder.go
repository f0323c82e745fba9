package prompt

import (
	"fmt"
	"strings"

	"krishi-voice-be/internal/constant"
	"krishi-voice-be/pkg/llm"
	"krishi-voice-be/pkg/store"
)

// Builder assembles the reasoning context for one turn: the fixed system
// instruction, whatever farmer context has accumulated, the session's prior
// turns as alternating caller/assistant text, and the new utterance.
type Builder struct {
	systemPrompt string
}

func NewBuilder() *Builder {
	return &Builder{systemPrompt: constant.AgentSystemPrompt}
}

func (b *Builder) Build(session *store.Session, utterance string) []llm.Message {
	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: b.systemInstruction(session)},
	}

	for _, turn := range session.Turns {
		if turn.Failed {
			// A failed turn produced a canned apology, not a real exchange.
			// Replaying it would teach the model to apologize again.
			continue
		}
		messages = append(messages,
			llm.Message{Role: constant.ChatMessageRoleUser, Content: turn.Utterance},
			llm.Message{Role: constant.ChatMessageRoleAssistant, Content: turn.Answer},
		)
	}

	return append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: utterance})
}

func (b *Builder) systemInstruction(session *store.Session) string {
	fc := session.Context
	if fc.Location == "" && fc.Crop == "" && fc.Notes == "" {
		return b.systemPrompt
	}

	var sb strings.Builder
	sb.WriteString(b.systemPrompt)
	sb.WriteString("\n\nWHAT YOU KNOW ABOUT THIS CALLER SO FAR:")
	if fc.Location != "" {
		sb.WriteString(fmt.Sprintf("\n- Location: %s", fc.Location))
	}
	if fc.Crop != "" {
		sb.WriteString(fmt.Sprintf("\n- Crop: %s", fc.Crop))
	}
	if fc.Notes != "" {
		sb.WriteString(fmt.Sprintf("\n- Notes: %s", fc.Notes))
	}
	return sb.String()
}
