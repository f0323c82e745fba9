package tools

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"krishi-voice-be/pkg/llm"
)

const defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/forecast"

// WeatherTool answers forecast queries from OpenWeatherMap's 5-day/3-hour
// endpoint, aggregated into one summary per day.
type WeatherTool struct {
	apiKey  string
	baseURL string
	http    HTTPConfig
}

func NewWeatherTool(apiKey string, http HTTPConfig) *WeatherTool {
	return &WeatherTool{
		apiKey:  apiKey,
		baseURL: defaultOpenWeatherURL,
		http:    http,
	}
}

func (t *WeatherTool) Definition() llm.ToolDefinition {
	return definition(
		"get_weather_forecast",
		"Gets a 5-day weather forecast for a location. Primary tool for all weather-related queries.",
		map[string]interface{}{
			"location": map[string]interface{}{
				"type":        "string",
				"description": "City or district name, e.g. \"Hisar\", \"Ludhiana\", \"Pune\".",
			},
		},
		[]string{"location"},
	)
}

// --- Provider wire format (internal to this package) ---

type owmForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

// DailyForecast is the structured payload returned per day.
type DailyForecast struct {
	Date       string   `json:"date"`
	TempMinC   float64  `json:"temp_min_c"`
	TempMaxC   float64  `json:"temp_max_c"`
	Conditions []string `json:"conditions"`
	RainLikely bool     `json:"rain_likely"`
}

type WeatherForecast struct {
	Location string          `json:"location"`
	Days     []DailyForecast `json:"days"`
}

func (t *WeatherTool) Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	location, _ := args["location"].(string)

	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", t.apiKey)
	query.Set("units", "metric")

	var raw owmForecastResponse
	if err := getJSON(ctx, t.http, t.baseURL, query, &raw); err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyForecast)
	for _, point := range raw.List {
		date := time.Unix(point.Dt, 0).UTC().Format("2006-01-02")
		day, ok := byDay[date]
		if !ok {
			day = &DailyForecast{Date: date, TempMinC: point.Main.Temp, TempMaxC: point.Main.Temp}
			byDay[date] = day
		}
		if point.Main.Temp < day.TempMinC {
			day.TempMinC = point.Main.Temp
		}
		if point.Main.Temp > day.TempMaxC {
			day.TempMaxC = point.Main.Temp
		}
		for _, w := range point.Weather {
			desc := strings.ToLower(w.Description)
			if !contains(day.Conditions, desc) {
				day.Conditions = append(day.Conditions, desc)
			}
			if strings.Contains(desc, "rain") || strings.Contains(desc, "drizzle") || strings.Contains(desc, "shower") {
				day.RainLikely = true
			}
		}
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	forecast := WeatherForecast{Location: raw.City.Name}
	if forecast.Location == "" {
		forecast.Location = location
	}
	for _, date := range dates {
		forecast.Days = append(forecast.Days, *byDay[date])
	}
	return forecast, nil
}
