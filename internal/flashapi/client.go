package flashapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
)

const requestTimeout = 10 * time.Second

// Client queries the upstream flash-list endpoint. A query anchored at max_id
// returns one batch of raw items at-or-before that id.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	appVersion string
	origin     string
}

// NewClient creates a flash API client. baseURL is the endpoint URL without
// query parameters.
func NewClient(httpClient *http.Client, baseURL, appID, appVersion, origin string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		appID:      appID,
		appVersion: appVersion,
		origin:     origin,
	}
}

type flashListPayload struct {
	Data []json.RawMessage `json:"data"`
}

// FlashList fetches the batch of raw items at-or-before maxID. Individual
// items that fail to decode are dropped; the rest of the batch is unaffected.
func (c *Client) FlashList(ctx context.Context, maxID string) ([]domain.RawFlash, error) {
	q := url.Values{}
	q.Set("channel", "-8200")
	q.Set("vip", "1")
	q.Set("max_id", maxID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build flash list request: %w", err)
	}
	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-version", c.appVersion)
	req.Header.Set("Origin", c.origin)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flash list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flash list returned status %d", resp.StatusCode)
	}

	var payload flashListPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode flash list payload: %w", err)
	}

	flashes := make([]domain.RawFlash, 0, len(payload.Data))
	for _, raw := range payload.Data {
		var f domain.RawFlash
		if err := json.Unmarshal(raw, &f); err != nil {
			slog.Warn("Dropping malformed flash list item", "error", err)
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
