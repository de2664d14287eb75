package repository

import (
	"context"
	"time"

	"MarketBoard/internal/domain/models"
)

// MarketData fetches daily price history for one symbol. Implementations
// must return an error rather than partial data; the caller degrades a
// failing symbol to an empty series.
type MarketData interface {
	FetchDaily(ctx context.Context, symbol string) ([]models.Bar, error)
	Name() string
}

// Publisher fans refresh quotes out to a message backend.
type Publisher interface {
	PublishQuotes(ctx context.Context, quotes []models.Quote) error
	Close() error
}

// Archive persists refresh quotes for later analysis. Archival never feeds
// back into a refresh cycle.
type Archive interface {
	InsertQuotes(ctx context.Context, quotes []models.Quote) error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordFetch(symbol string, d time.Duration)
	RecordFetchError(symbol string)
	RecordLastPrice(symbol string, price float64)
	RecordRefresh(d time.Duration)
	SetWSClients(n int)
}
