package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Backtest/internal/model"
	httpclient "github.com/Alias1177/Backtest/internal/platform/http"
)

// dateLayouts covers the datetime formats Twelve Data returns for daily
// and intraday series.
var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05"}

// Client is the TwelveData API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new TwelveData client
type ClientOptions struct {
	APIKey          string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      uint64
	MaxRetryTimeout time.Duration
}

// NewClient creates a new TwelveData API client
func NewClient(options ClientOptions) *Client {
	return &Client{
		apiKey: options.APIKey,
		// baseURL is overridable in tests
		baseURL: "https://api.twelvedata.com",
		httpClient: httpclient.NewClient(httpclient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetries:      options.MaxRetries,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "twelvedata_client").Logger(),
	}
}

// SetBaseURL points the client at a different endpoint.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// GetDailyBars fetches up to outputSize daily bars for symbol, oldest
// first. API-level errors are surfaced to the caller unmodified.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, outputSize int) ([]model.Bar, error) {
	u := fmt.Sprintf(
		"%s/time_series?symbol=%s&interval=1day&outputsize=%d&apikey=%s",
		c.baseURL,
		url.QueryEscape(symbol),
		outputSize,
		c.apiKey,
	)

	c.logger.Debug().Str("symbol", symbol).Int("output_size", outputSize).Msg("Fetching daily bars")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if strings.Contains(string(body), `"status":"error"`) {
		c.logger.Error().Str("response", string(body)).Msg("Twelve Data API error")
		return nil, fmt.Errorf("Twelve Data API error: %s", string(body))
	}

	var data model.TwelveResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if len(data.Values) == 0 {
		return nil, fmt.Errorf("empty data returned for %s", symbol)
	}

	bars := make([]model.Bar, 0, len(data.Values))
	for _, v := range data.Values {
		ts, err := parseDatetime(v.Datetime)
		if err != nil {
			return nil, fmt.Errorf("parsing datetime %q: %w", v.Datetime, err)
		}
		bars = append(bars, model.Bar{
			Timestamp: ts,
			Open:      v.Open,
			High:      v.High,
			Low:       v.Low,
			Close:     v.Close,
			Volume:    v.Volume,
		})
	}

	// The API returns newest first; the simulation needs oldest first.
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	c.logger.Debug().Int("count", len(bars)).Msg("Fetched daily bars")
	return bars, nil
}

func parseDatetime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
