// Package metabase reads the subscription report behind a Metabase embed
// token and caches the token between refreshes.
package metabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrNoReportRows is returned when the report query yields an empty result,
// which usually means the embed token no longer points at a live card.
var ErrNoReportRows = errors.New("report returned no rows")

// Row is one product/billing-cycle aggregate from the subscriptions report.
type Row struct {
	ProductName     string  `json:"Product Name"`
	BillingCycle    string  `json:"Billing Cycle"`
	ActiveSubs      int     `json:"# of Active Subscriptions"`
	RevenuePerCycle float64 `json:"Revenue per Cycle"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchRows runs the embedded card query and decodes its JSON rows.
func (c *Client) FetchRows(ctx context.Context, token string) ([]Row, error) {
	url := fmt.Sprintf("%s/api/embed/card/%s/query/json", c.baseURL, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("failed to fetch report rows", "error", err)
		return nil, fmt.Errorf("failed to fetch report rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode report rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoReportRows
	}

	slog.Debug("fetched report rows", "count", len(rows))
	return rows, nil
}
