package yahoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketBoard/internal/service/ratelimit"
	httpkit "MarketBoard/pkg/http"
	"MarketBoard/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, time.Duration) {}
func (nopMetrics) RecordFetchError(string)           {}
func (nopMetrics) RecordLastPrice(string, float64)   {}
func (nopMetrics) RecordRefresh(time.Duration)       {}
func (nopMetrics) SetWSClients(int)                  {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

const chartPayload = `{
  "chart": {
    "result": [{
      "timestamp": [1700006400, 1700092800, 1700179200],
      "indicators": {
        "quote": [{
          "open":  [100.0, null, 102.0],
          "high":  [101.0, null, 103.0],
          "low":   [99.0,  null, 101.0],
          "close": [100.5, null, 102.5]
        }]
      }
    }],
    "error": null
  }
}`

func TestParseChartSkipsNullBars(t *testing.T) {
	var chart chartResponse
	if err := json.Unmarshal([]byte(chartPayload), &chart); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	bars, err := parseChart(&chart)
	if err != nil {
		t.Fatalf("parseChart: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 100.5 || bars[1].Close != 102.5 {
		t.Fatalf("unexpected closes %v %v", bars[0].Close, bars[1].Close)
	}
	if !bars[0].Time.Before(bars[1].Time) {
		t.Fatalf("bars not ascending")
	}
}

func TestParseChartUpstreamError(t *testing.T) {
	var chart chartResponse
	payload := `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	if err := json.Unmarshal([]byte(payload), &chart); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := parseChart(&chart); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseChartEmptyResult(t *testing.T) {
	var chart chartResponse
	if err := json.Unmarshal([]byte(`{"chart":{"result":[]}}`), &chart); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := parseChart(&chart); err == nil {
		t.Fatalf("expected error for empty result")
	}
}

func TestFetchDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/^KS11" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("unexpected interval %q", got)
		}
		if got := r.URL.Query().Get("range"); got != "1y" {
			t.Errorf("unexpected range %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL},
		httpkit.NewClient(), ratelimit.New(), nopMetrics{}, testLogger(t))

	bars, err := c.FetchDaily(context.Background(), "^KS11")
	if err != nil {
		t.Fatalf("FetchDaily: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
}

func TestFetchDailyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: 1},
		httpkit.NewClient(), ratelimit.New(), nopMetrics{}, testLogger(t))

	if _, err := c.FetchDaily(context.Background(), "^KS11"); err == nil {
		t.Fatalf("expected error")
	}
}
