package models

import "time"

// AssetCard is the render-ready summary of one asset: latest price, delta
// against the previous close and the recent bars feeding the mini chart.
// Error carries the load-failure notice when the fetch for this asset
// failed; the rest of the snapshot is unaffected.
type AssetCard struct {
	Symbol     string            `json:"symbol"`
	Label      string            `json:"label"`
	SubLabel   string            `json:"sub_label,omitempty"`
	Price      float64           `json:"price"`
	Delta      float64           `json:"delta"`
	Format     string            `json:"format,omitempty"`
	Reference  string            `json:"reference,omitempty"`
	Flat       bool              `json:"flat"`
	Bars       []Bar             `json:"bars,omitempty"`
	Indicators *IndicatorOverlay `json:"indicators,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// AssetGroup bundles the cards of one dashboard section.
type AssetGroup struct {
	Name  string      `json:"name"`
	Cards []AssetCard `json:"cards"`
}

// Snapshot is the immutable result of one refresh cycle. Everything in it
// is recomputed from freshly fetched data; nothing is mutated in place
// across cycles.
type Snapshot struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Groups      []AssetGroup       `json:"groups"`
	Correlation *CorrelationMatrix `json:"correlation,omitempty"`
}

// Quote is the flattened per-asset event published downstream (Kafka,
// ClickHouse archive) on each refresh.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Label     string    `json:"label"`
	Price     float64   `json:"price"`
	Delta     float64   `json:"delta"`
	Timestamp time.Time `json:"timestamp"`
}
