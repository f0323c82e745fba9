package executor

import (
	"strings"

	"krishi-voice-be/internal/constant"
)

// fallbackRoutes maps utterance keywords to canned spoken responses used when
// the reasoning engine is unreachable. A topical apology beats a generic one
// on a live call.
var fallbackRoutes = []struct {
	keywords []string
	response string
}{
	{
		keywords: []string{"weather", "rain", "temperature", "forecast"},
		response: "I would love to help with weather information, but I am having trouble reaching my weather service. Please try again in a moment.",
	},
	{
		keywords: []string{"price", "market", "sell", "buy", "mandi"},
		response: "I cannot reach current market prices right now. Please check with your local mandi or agricultural department, or try me again shortly.",
	},
	{
		keywords: []string{"crop", "plant", "seed", "harvest", "sow"},
		response: "I am having technical difficulties with crop advisory right now. In the meantime, make sure your crops get adequate water and watch for signs of pests or disease.",
	},
	{
		keywords: []string{"soil", "fertilizer", "manure", "khad"},
		response: "I cannot check soil data at the moment. Remember to maintain proper organic matter in your soil, and please try asking again shortly.",
	},
	{
		keywords: []string{"pest", "disease", "insect", "fungus"},
		response: "For pest and disease problems I recommend your local agricultural extension officer while my service recovers. Regular monitoring and early intervention are key.",
	},
}

// fallbackFor picks the apology response matching the caller's topic.
func fallbackFor(utterance string) string {
	lowered := strings.ToLower(utterance)
	for _, route := range fallbackRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(lowered, kw) {
				return route.response
			}
		}
	}
	return constant.FallbackGeneric
}
