package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
)

type clockPayload struct {
	Data struct {
		Datas []json.RawMessage `json:"datas"`
	} `json:"data"`
}

// Load fetches the trading-clock dataset and flattens its grouped market
// arrays. Groups that fail to decode as market lists are skipped.
func Load(ctx context.Context, client *http.Client, url string) ([]domain.Market, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build clock request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trading clock: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trading clock fetch returned status %d", resp.StatusCode)
	}

	var payload clockPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode trading clock payload: %w", err)
	}

	var markets []domain.Market
	for _, raw := range payload.Data.Datas {
		var group []domain.Market
		if err := json.Unmarshal(raw, &group); err != nil {
			continue
		}
		markets = append(markets, group...)
	}
	return markets, nil
}
