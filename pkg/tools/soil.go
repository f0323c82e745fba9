package tools

import (
	"context"
	"net/url"
	"strconv"

	"krishi-voice-be/pkg/llm"
)

// SoilMoistureTool fetches district-level soil and weather observations from
// the data.gov.in agromet API and derives an irrigation recommendation.
type SoilMoistureTool struct {
	apiKey  string
	baseURL string
	http    HTTPConfig
}

func NewSoilMoistureTool(apiKey, baseURL string, http HTTPConfig) *SoilMoistureTool {
	return &SoilMoistureTool{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    http,
	}
}

func (t *SoilMoistureTool) Definition() llm.ToolDefinition {
	return definition(
		"get_soil_moisture",
		"Gets the latest soil moisture and weather observations for a district with an irrigation recommendation. Use for watering, irrigation and soil questions.",
		map[string]interface{}{
			"district": map[string]interface{}{
				"type":        "string",
				"description": "District name, e.g. \"Hisar\", \"Ludhiana\".",
			},
			"state": map[string]interface{}{
				"type":        "string",
				"description": "Optional state name for a more specific search, e.g. \"Haryana\".",
			},
		},
		[]string{"district"},
	)
}

type govSoilResponse struct {
	Records []struct {
		District   string `json:"district"`
		State      string `json:"state"`
		Date       string `json:"date"`
		RainfallMM string `json:"rainfall_mm"`
		Humidity   string `json:"humidity_percent"`
		MinTempC   string `json:"min_temp_c"`
		MaxTempC   string `json:"max_temp_c"`
	} `json:"records"`
}

// SoilReport is the structured observation handed back to the reasoning
// engine. IrrigationAdvice is always populated, even when no record was found.
type SoilReport struct {
	District         string `json:"district"`
	State            string `json:"state,omitempty"`
	Date             string `json:"date,omitempty"`
	RainfallMM       string `json:"rainfall_mm,omitempty"`
	HumidityPercent  string `json:"humidity_percent,omitempty"`
	MinTempC         string `json:"min_temp_c,omitempty"`
	MaxTempC         string `json:"max_temp_c,omitempty"`
	IrrigationAdvice string `json:"irrigation_advice"`
}

const soilNoDataAdvice = "No recent soil data is available for this district. Check soil moisture by hand two to three inches deep, water in the early morning, and use mulch to retain moisture."

func (t *SoilMoistureTool) Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	district, _ := args["district"].(string)

	query := url.Values{}
	query.Set("api-key", t.apiKey)
	query.Set("format", "json")
	query.Set("limit", "5")
	query.Set("filters[district.keyword]", district)
	if state := stringArg(args, "state", ""); state != "" {
		query.Set("filters[state.keyword]", state)
	}

	var raw govSoilResponse
	if err := getJSON(ctx, t.http, t.baseURL, query, &raw); err != nil {
		return nil, err
	}

	if len(raw.Records) == 0 {
		return SoilReport{District: district, IrrigationAdvice: soilNoDataAdvice}, nil
	}

	rec := raw.Records[0]
	return SoilReport{
		District:         district,
		State:            rec.State,
		Date:             rec.Date,
		RainfallMM:       rec.RainfallMM,
		HumidityPercent:  rec.Humidity,
		MinTempC:         rec.MinTempC,
		MaxTempC:         rec.MaxTempC,
		IrrigationAdvice: irrigationAdvice(rec.RainfallMM, rec.Humidity),
	}, nil
}

// irrigationAdvice maps recent rainfall and humidity to a recommendation the
// model can read out verbatim. Thresholds follow agromet guidance: >10mm of
// rain saturates the root zone, <40% humidity dries topsoil quickly.
func irrigationAdvice(rainfallMM, humidityPercent string) string {
	rainfall, rainErr := strconv.ParseFloat(rainfallMM, 64)
	humidity, humErr := strconv.ParseFloat(humidityPercent, 64)
	if rainErr != nil || humErr != nil {
		return "Data is incomplete for a specific recommendation. Check soil moisture manually before irrigating."
	}

	switch {
	case rainfall > 10:
		return "Significant recent rainfall. Irrigation is likely not needed; check the soil before watering."
	case rainfall > 5:
		return "Some recent rainfall. Check soil moisture before irrigating."
	case humidity < 40:
		return "Low humidity and little rain. Crops may need increased irrigation."
	case humidity > 80:
		return "High humidity. Reduce irrigation and watch for fungal diseases."
	default:
		return "Conditions are normal. Follow the regular irrigation schedule for the crop."
	}
}
