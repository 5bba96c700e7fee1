package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// browserUserAgent mimics a desktop browser. The platform rejects obvious
// bot traffic with 403s.
const browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

type Client struct {
	apiURL     string
	siteURL    string
	httpClient *http.Client
}

// NewClient fetches events from apiURL. siteURL, when set, is sent as
// Referer and Origin to look like calendar-page traffic.
func NewClient(apiURL, siteURL string) *Client {
	return &Client{
		apiURL:  apiURL,
		siteURL: siteURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchEvents retrieves the live event list. A response that is valid JSON
// but not an array yields an empty list, matching how the platform signals
// "nothing scheduled".
func (c *Client) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	slog.Debug("fetching studio events",
		slog.String("url", c.apiURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if c.siteURL != "" {
		req.Header.Set("Referer", c.siteURL+"/calendar")
		req.Header.Set("Origin", c.siteURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("failed to fetch studio events",
			slog.String("url", c.apiURL),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("unexpected status code fetching studio events",
			slog.String("url", c.apiURL),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	trimmed := string(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		slog.Warn("studio events response is not an array, treating as empty")
		return nil, nil
	}

	var records []eventRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	events := recordsToDomain(records)
	slog.Debug("fetched studio events",
		slog.Int("count", len(events)),
	)

	return events, nil
}
