package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// HTTPConfig is shared by the external-data tools. Timeout bounds each
// outbound request; MaxRetries is 0 by default so a failing provider is
// surfaced immediately and the reasoning loop decides what to do next.
type HTTPConfig struct {
	Client     *http.Client
	MaxRetries int
}

// getJSON performs the tool's outbound GET and decodes the response into out.
// Timeouts and non-success statuses map to ErrToolUnavailable; the caller
// never sees provider-raw errors.
func getJSON(ctx context.Context, cfg HTTPConfig, endpoint string, query url.Values, out interface{}) error {
	attempts := cfg.MaxRetries + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = doGetJSON(ctx, cfg.Client, endpoint, query, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrToolUnavailable, lastErr)
}

func doGetJSON(ctx context.Context, client *http.Client, endpoint string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
