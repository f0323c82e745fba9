package tools

import (
	"context"
	"net/url"

	"krishi-voice-be/pkg/llm"
)

// MarketPriceTool fetches mandi prices from the data.gov.in commodity API.
type MarketPriceTool struct {
	apiKey  string
	baseURL string
	http    HTTPConfig
}

func NewMarketPriceTool(apiKey, baseURL string, http HTTPConfig) *MarketPriceTool {
	return &MarketPriceTool{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    http,
	}
}

func (t *MarketPriceTool) Definition() llm.ToolDefinition {
	return definition(
		"get_market_prices",
		"Gets current crop prices from government mandi data. Use for any price, selling or buying question.",
		map[string]interface{}{
			"crop": map[string]interface{}{
				"type":        "string",
				"description": "Crop/commodity name, e.g. \"Wheat\", \"Rice\", \"Tomato\".",
			},
			"market": map[string]interface{}{
				"type":        "string",
				"description": "Optional market/mandi name. Empty searches all markets.",
			},
			"state": map[string]interface{}{
				"type":        "string",
				"description": "Optional state name. Empty searches all states.",
			},
		},
		[]string{"crop"},
	)
}

type govPriceResponse struct {
	Records []struct {
		State      string `json:"state"`
		Market     string `json:"market"`
		Commodity  string `json:"commodity"`
		Variety    string `json:"variety"`
		ModalPrice string `json:"modal_price"`
		MinPrice   string `json:"min_price"`
		MaxPrice   string `json:"max_price"`
		Date       string `json:"arrival_date"`
	} `json:"records"`
}

// MarketQuote is one mandi price record, rupees per quintal.
type MarketQuote struct {
	State      string `json:"state"`
	Market     string `json:"market"`
	Commodity  string `json:"commodity"`
	Variety    string `json:"variety,omitempty"`
	ModalPrice string `json:"modal_price"`
	MinPrice   string `json:"min_price"`
	MaxPrice   string `json:"max_price"`
	Date       string `json:"date"`
}

type MarketPrices struct {
	Crop   string        `json:"crop"`
	Quotes []MarketQuote `json:"quotes"`
}

func (t *MarketPriceTool) Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	crop, _ := args["crop"].(string)

	query := url.Values{}
	query.Set("api-key", t.apiKey)
	query.Set("format", "json")
	query.Set("limit", "20")
	query.Set("filters[commodity]", crop)
	if market := stringArg(args, "market", ""); market != "" {
		query.Set("filters[market]", market)
	}
	if state := stringArg(args, "state", ""); state != "" {
		query.Set("filters[state.keyword]", state)
	}

	var raw govPriceResponse
	if err := getJSON(ctx, t.http, t.baseURL, query, &raw); err != nil {
		return nil, err
	}

	prices := MarketPrices{Crop: crop}
	for _, rec := range raw.Records {
		prices.Quotes = append(prices.Quotes, MarketQuote{
			State:      rec.State,
			Market:     rec.Market,
			Commodity:  rec.Commodity,
			Variety:    rec.Variety,
			ModalPrice: rec.ModalPrice,
			MinPrice:   rec.MinPrice,
			MaxPrice:   rec.MaxPrice,
			Date:       rec.Date,
		})
	}
	return prices, nil
}
