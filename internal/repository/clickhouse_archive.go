package repository

import (
	"context"
	"fmt"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	"MarketBoard/pkg/clickhouse"
	"MarketBoard/pkg/logger"
)

// ClickHouseArchive appends refresh quotes to a MergeTree table. The
// archive is write-only from the service's point of view.
type ClickHouseArchive struct {
	client *clickhouse.Client
	table  string
	logger *logger.Logger
}

var _ domrepo.Archive = (*ClickHouseArchive)(nil)

func NewClickHouseArchive(ctx context.Context, client *clickhouse.Client, table string, l *logger.Logger) (*ClickHouseArchive, error) {
	a := &ClickHouseArchive{client: client, table: table, logger: l}
	if err := client.InitSchema(ctx, []string{a.schemaDDL()}); err != nil {
		return nil, fmt.Errorf("archive schema: %w", err)
	}
	return a, nil
}

func (a *ClickHouseArchive) schemaDDL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		symbol    String,
		label     String,
		price     Float64,
		delta     Float64,
		ts        DateTime64(3, 'UTC')
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (symbol, ts)`, a.table)
}

func (a *ClickHouseArchive) InsertQuotes(ctx context.Context, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (symbol, label, price, delta, ts) VALUES (?, ?, ?, ?, ?)", a.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range quotes {
		if _, err := stmt.ExecContext(ctx, q.Symbol, q.Label, q.Price, q.Delta, q.Timestamp); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert quote %s: %w", q.Symbol, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	a.logger.Debug("archived refresh quotes",
		logger.String("table", a.table),
		logger.Int("count", len(quotes)))
	return nil
}

// NopArchive is used when no archive backend is configured.
type NopArchive struct{}

func (NopArchive) InsertQuotes(context.Context, []models.Quote) error { return nil }
