package tools

import (
	"context"
	"net/url"

	"krishi-voice-be/pkg/llm"
)

const defaultGNewsURL = "https://gnews.io/api/v4/search"

// newsTopicKeywords maps the small topic vocabulary exposed to the reasoning
// engine onto the search queries that actually work against the provider.
var newsTopicKeywords = map[string]string{
	"general":    `agriculture OR farming OR crops OR "farm subsidies"`,
	"technology": `"agricultural technology" OR "smart farming" OR "precision agriculture"`,
	"market":     `"agricultural market" OR "crop prices" OR "mandi prices"`,
	"weather":    `"weather agriculture" OR "monsoon farming" OR "drought crops"`,
}

// NewsTool fetches recent agricultural news headlines by topic.
type NewsTool struct {
	apiKey  string
	baseURL string
	http    HTTPConfig
}

func NewNewsTool(apiKey string, http HTTPConfig) *NewsTool {
	return &NewsTool{
		apiKey:  apiKey,
		baseURL: defaultGNewsURL,
		http:    http,
	}
}

func (t *NewsTool) Definition() llm.ToolDefinition {
	return definition(
		"get_agricultural_news",
		"Fetches the latest agricultural news on a topic: market trends, technology, weather impacts or general farming news.",
		map[string]interface{}{
			"topic": map[string]interface{}{
				"type":        "string",
				"description": "News category.",
				"enum":        []string{"general", "technology", "market", "weather"},
			},
		},
		[]string{"topic"},
	)
}

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

type NewsHeadline struct {
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

type NewsDigest struct {
	Topic     string         `json:"topic"`
	Headlines []NewsHeadline `json:"headlines"`
}

func (t *NewsTool) Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	topic, _ := args["topic"].(string)

	query := url.Values{}
	query.Set("q", newsTopicKeywords[topic])
	query.Set("lang", "en")
	query.Set("country", "in")
	query.Set("max", "5")
	query.Set("sortby", "publishedAt")
	query.Set("apikey", t.apiKey)

	var raw gnewsResponse
	if err := getJSON(ctx, t.http, t.baseURL, query, &raw); err != nil {
		return nil, err
	}

	digest := NewsDigest{Topic: topic}
	for _, article := range raw.Articles {
		digest.Headlines = append(digest.Headlines, NewsHeadline{
			Title:       article.Title,
			Summary:     article.Description,
			Source:      article.Source.Name,
			PublishedAt: article.PublishedAt,
		})
	}
	return digest, nil
}
