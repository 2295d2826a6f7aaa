// Package currency converts visit prices from the base currency through an
// external exchange-rate service.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/evcraddock/garage/internal/logging"
)

// DefaultURL is the exchange-rate service used when none is configured.
const DefaultURL = "https://free.currconv.com"

// Client fetches exchange rates. Requests are keyed by an API key and carry
// no backend credentials.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a rate client. An empty baseURL selects DefaultURL.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("currency API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

// Pair returns the rate key for a conversion, e.g. "BGN_USD".
func Pair(base, target string) string {
	return strings.ToUpper(base) + "_" + strings.ToUpper(target)
}

// Rate returns how many units of target one unit of base buys.
func (c *Client) Rate(ctx context.Context, base, target string) (rate decimal.Decimal, err error) {
	pair := Pair(base, target)
	params := url.Values{
		"compact": {"ultra"},
		"q":       {pair},
		"apiKey":  {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v7/convert?"+params.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("creating request: %w", err)
	}

	logging.L().Debug("fetching exchange rate", zap.String("pair", pair))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return decimal.Zero, fmt.Errorf("decoding response: %w", err)
	}

	rate, ok := result[pair]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s in response", pair)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid rate %s for %s", rate, pair)
	}
	return rate, nil
}
