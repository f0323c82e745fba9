package tools

import (
	"context"
	"fmt"

	"krishi-voice-be/pkg/llm"
	"krishi-voice-be/pkg/store"
)

// Retriever is the read-only query interface of the grounded knowledge index.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]store.Passage, error)
}

// KnowledgeBaseTool exposes the retrieval index to the reasoning engine.
// Passages are evidence injected into the reasoning context; they are never
// returned verbatim to the caller.
type KnowledgeBaseTool struct {
	retriever Retriever
	k         int
}

func NewKnowledgeBaseTool(retriever Retriever, k int) *KnowledgeBaseTool {
	if k <= 0 {
		k = 4
	}
	return &KnowledgeBaseTool{
		retriever: retriever,
		k:         k,
	}
}

func (t *KnowledgeBaseTool) Definition() llm.ToolDefinition {
	return definition(
		"search_knowledge_base",
		"Searches the agricultural knowledge base of research advisories. Always use this for crop management, pest, disease, soil and cultivation questions, even if you think you know the answer.",
		map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The agricultural question to search for.",
			},
		},
		[]string{"query"},
	)
}

// Evidence is one retrieved passage formatted for the reasoning context.
type Evidence struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
}

type KnowledgeResult struct {
	Query    string     `json:"query"`
	Passages []Evidence `json:"passages"`
}

func (t *KnowledgeBaseTool) Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	query, _ := args["query"].(string)

	passages, err := t.retriever.Search(ctx, query, t.k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}

	result := KnowledgeResult{Query: query}
	for _, p := range passages {
		result.Passages = append(result.Passages, Evidence{
			Source: p.SourceID,
			Text:   p.Text,
			Score:  p.Score,
		})
	}
	return result, nil
}
