package tools

import (
	"context"
	"fmt"
	"time"

	"krishi-voice-be/pkg/llm"
)

// DateTimeTool reports the current date, time and crop season. Sowing and
// harvest advice depends on it, and callers rarely mention the date themselves.
type DateTimeTool struct {
	now func() time.Time // injectable clock
}

func NewDateTimeTool() *DateTimeTool {
	return &DateTimeTool{now: time.Now}
}

func (t *DateTimeTool) Definition() llm.ToolDefinition {
	return definition(
		"get_current_datetime",
		"Gets the current date, time and crop season. Use when advice depends on the time of year or day.",
		map[string]interface{}{
			"timezone": map[string]interface{}{
				"type":        "string",
				"description": "IANA timezone, defaults to \"Asia/Kolkata\".",
			},
		},
		nil,
	)
}

type CurrentDateTime struct {
	DateTime  string `json:"datetime"`
	Weekday   string `json:"weekday"`
	Season    string `json:"season"`
	HourOfDay int    `json:"hour_of_day"`
}

func (t *DateTimeTool) Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	zone := stringArg(args, "timezone", "Asia/Kolkata")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidArguments, zone)
	}

	now := t.now().In(loc)
	return CurrentDateTime{
		DateTime:  now.Format("Monday, January 2, 2006 at 3:04 PM MST"),
		Weekday:   now.Weekday().String(),
		Season:    seasonFor(now.Month()),
		HourOfDay: now.Hour(),
	}, nil
}

// seasonFor follows the Indian cropping calendar.
func seasonFor(month time.Month) string {
	switch {
	case month == time.December || month <= time.February:
		return "Winter (Rabi)"
	case month <= time.May:
		return "Spring (Zaid)"
	case month <= time.August:
		return "Monsoon (Kharif)"
	default:
		return "Post-Monsoon"
	}
}
