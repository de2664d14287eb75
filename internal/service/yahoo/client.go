package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/domain/repository"
	"MarketBoard/internal/service/ratelimit"
	httpkit "MarketBoard/pkg/http"
	"MarketBoard/pkg/logger"
)

// Config holds Yahoo Finance chart API settings.
type Config struct {
	BaseURL    string
	Range      string
	Interval   string
	MaxRetries int
	RatePerSec float64
	RateBurst  float64
}

// Client fetches daily bars from the Yahoo Finance chart API.
type Client struct {
	http    *httpkit.Client
	limiter *ratelimit.Limiter
	metrics repository.Metrics
	logger  *logger.Logger
	cfg     Config
}

var _ repository.MarketData = (*Client)(nil)

func NewClient(cfg Config, http *httpkit.Client, limiter *ratelimit.Limiter, metrics repository.Metrics, l *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Range == "" {
		cfg.Range = "1y"
	}
	if cfg.Interval == "" {
		cfg.Interval = "1d"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RatePerSec == 0 {
		cfg.RatePerSec = 5
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 10
	}
	return &Client{http: http, limiter: limiter, metrics: metrics, logger: l, cfg: cfg}
}

func (c *Client) Name() string { return "yahoo" }

// chartResponse is the Yahoo chart API payload. OHLC arrays use
// interface{} because missing values come back as JSON null.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []interface{} `json:"open"`
					High  []interface{} `json:"high"`
					Low   []interface{} `json:"low"`
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchDaily returns the daily bars for one ticker, oldest first. Bars
// with no data at all (holidays, halted sessions) are skipped.
func (c *Client) FetchDaily(ctx context.Context, symbol string) ([]models.Bar, error) {
	if err := c.limiter.Wait(ctx, "yahoo", c.cfg.RateBurst, c.cfg.RatePerSec); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	var chart chartResponse

	operation := func() error {
		return c.http.SendAndParse(ctx, &httpkit.RequestOptions{
			Method: httpkit.MethodGet,
			URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.cfg.BaseURL, url.PathEscape(symbol)),
			Headers: map[string]string{
				"User-Agent": "Mozilla/5.0",
			},
			QueryParams: map[string][]string{
				"interval": {c.cfg.Interval},
				"range":    {c.cfg.Range},
			},
		}, &chart)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		c.metrics.RecordFetchError(symbol)
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	bars, err := parseChart(&chart)
	if err != nil {
		c.metrics.RecordFetchError(symbol)
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	c.metrics.RecordFetch(symbol, time.Since(start))
	c.logger.Debug("fetched daily bars",
		logger.String("symbol", symbol),
		logger.Int("bars", len(bars)),
		logger.Duration("took", time.Since(start)))
	return bars, nil
}

func parseChart(chart *chartResponse) ([]models.Bar, error) {
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("upstream error %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data returned")
	}
	quote := result.Indicators.Quote[0]

	bars := make([]models.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		b := models.Bar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: toFloat(quote.Close[i]),
		}
		if i < len(quote.Open) {
			b.Open = toFloat(quote.Open[i])
		}
		if i < len(quote.High) {
			b.High = toFloat(quote.High[i])
		}
		if i < len(quote.Low) {
			b.Low = toFloat(quote.Low[i])
		}
		if b.Open == 0 && b.High == 0 && b.Low == 0 && b.Close == 0 {
			continue
		}
		bars = append(bars, b)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
