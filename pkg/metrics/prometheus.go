package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	refreshes     prometheus.Counter
	refreshTime   prometheus.Histogram
	wsClients     prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketboard_fetch_duration_seconds",
				Help:    "Duration of market data fetches per symbol",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketboard_fetch_errors_total",
				Help: "Total number of failed market data fetches",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketboard_last_price",
				Help: "Last observed close price for a symbol",
			},
			[]string{"symbol"},
		),
		refreshes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "marketboard_refreshes_total",
				Help: "Total number of completed dashboard refresh cycles",
			},
		),
		refreshTime: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marketboard_refresh_duration_seconds",
				Help:    "Duration of a full dashboard refresh cycle",
				Buckets: prometheus.DefBuckets,
			},
		),
		wsClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketboard_ws_clients",
				Help: "Currently connected WebSocket clients",
			},
		),
	}
}

// RecordFetch records a successful fetch and its duration.
func (r *Recorder) RecordFetch(symbol string, d time.Duration) {
	r.fetchDuration.WithLabelValues(symbol).Observe(d.Seconds())
}

// RecordFetchError records a failed fetch for a symbol.
func (r *Recorder) RecordFetchError(symbol string) {
	r.fetchErrors.WithLabelValues(symbol).Inc()
}

// RecordLastPrice records the latest close for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordRefresh records one completed refresh cycle.
func (r *Recorder) RecordRefresh(d time.Duration) {
	r.refreshes.Inc()
	r.refreshTime.Observe(d.Seconds())
}

// SetWSClients records the current WebSocket client count.
func (r *Recorder) SetWSClients(n int) {
	r.wsClients.Set(float64(n))
}
