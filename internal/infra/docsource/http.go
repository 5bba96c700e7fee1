package docsource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type HTTPSource struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewHTTPSource fetches the document over HTTP. token, when non-empty, is
// sent as a bearer token.
func NewHTTPSource(url, token string) *HTTPSource {
	return &HTTPSource{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	slog.Debug("fetching schedule document",
		slog.String("url", s.url),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Error("failed to fetch schedule document",
			slog.String("url", s.url),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("unexpected status code fetching schedule document",
			slog.String("url", s.url),
			slog.Int("status_code", resp.StatusCode),
		)
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
