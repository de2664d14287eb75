package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	"MarketBoard/internal/services/analytics"
	"MarketBoard/pkg/cache"
	"MarketBoard/pkg/config"
	"MarketBoard/pkg/logger"
)

// ErrUnknownSymbol reports a ticker that is not part of the configured board.
var ErrUnknownSymbol = errors.New("symbol not configured")

// ErrNoHistory reports a configured symbol without enough price history
// for the requested operation (failed fetch or too few bars).
var ErrNoHistory = errors.New("insufficient price history")

const fetchWorkers = 4

// batchResult is one fetch cycle over every configured symbol. Failed
// symbols keep an empty series and a notice in Errors, so one bad ticker
// never poisons the rest of the board.
type batchResult struct {
	Series map[string]models.Series `json:"series"`
	Errors map[string]string        `json:"errors"`
}

// DashboardUseCase assembles render-ready snapshots from market data.
type DashboardUseCase struct {
	cfg     *config.Config
	source  domrepo.MarketData
	cache   cache.Service
	engine  *analytics.Engine
	sim     *analytics.Simulator
	metrics domrepo.Metrics
	logger  *logger.Logger

	assets   map[string]config.Asset
	cacheKey string
}

func NewDashboardUseCase(
	cfg *config.Config,
	source domrepo.MarketData,
	c cache.Service,
	engine *analytics.Engine,
	sim *analytics.Simulator,
	metrics domrepo.Metrics,
	l *logger.Logger,
) *DashboardUseCase {
	assets := make(map[string]config.Asset)
	for _, g := range cfg.Groups {
		for _, a := range g.Assets {
			assets[a.Symbol] = a
		}
	}

	symbols := cfg.Symbols()
	sort.Strings(symbols)

	return &DashboardUseCase{
		cfg:      cfg,
		source:   source,
		cache:    c,
		engine:   engine,
		sim:      sim,
		metrics:  metrics,
		logger:   l,
		assets:   assets,
		cacheKey: "bars:" + strings.Join(symbols, ","),
	}
}

// fetchBatch returns the cached batch when fresh, otherwise pulls every
// configured symbol and caches the result for the configured TTL.
func (uc *DashboardUseCase) fetchBatch(ctx context.Context) (*batchResult, error) {
	if cached, err := cache.GetTyped[batchResult](ctx, uc.cache, uc.cacheKey); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		uc.logger.Warn("batch cache read failed", logger.Error(err))
	}

	symbols := uc.cfg.Symbols()
	batch := &batchResult{
		Series: make(map[string]models.Series, len(symbols)),
		Errors: make(map[string]string),
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, fetchWorkers)
	)
	for _, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			asset := uc.assets[symbol]
			bars, err := uc.source.FetchDaily(ctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.logger.Warn("fetch failed, degrading to empty series",
					logger.String("symbol", symbol),
					logger.Error(err))
				batch.Series[symbol] = models.Series{Symbol: symbol}
				batch.Errors[symbol] = fmt.Sprintf("%s: data unavailable", symbol)
				return
			}
			s := models.Series{Symbol: symbol, Bars: models.Normalize(bars, asset.Scale)}
			batch.Series[symbol] = s
			if p := s.LastClose(); p > 0 {
				uc.metrics.RecordLastPrice(symbol, p)
			}
		}(symbol)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := cache.SetTyped(ctx, uc.cache, uc.cacheKey, batch, uc.cfg.MarketData.CacheTTL); err != nil {
		uc.logger.Warn("batch cache write failed", logger.Error(err))
	}
	return batch, nil
}

// Snapshot assembles the full board: group cards in configured order,
// optional indicator overlays and the correlation matrix.
func (uc *DashboardUseCase) Snapshot(ctx context.Context, withIndicators, withCorrelation bool) (*models.Snapshot, error) {
	batch, err := uc.fetchBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}

	snap := &models.Snapshot{GeneratedAt: time.Now().UTC()}
	for _, g := range uc.cfg.Groups {
		group := models.AssetGroup{Name: g.Name, Cards: make([]models.AssetCard, 0, len(g.Assets))}
		for _, a := range g.Assets {
			card := uc.buildCard(a, batch, withIndicators, 0)
			group.Cards = append(group.Cards, card)
		}
		snap.Groups = append(snap.Groups, group)
	}

	if withCorrelation {
		m := uc.correlationFrom(batch)
		snap.Correlation = &m
	}
	return snap, nil
}

// Asset returns one card with up to maxBars of history.
func (uc *DashboardUseCase) Asset(ctx context.Context, symbol string, maxBars int, withIndicators bool) (*models.AssetCard, error) {
	asset, ok := uc.assets[symbol]
	if !ok {
		return nil, ErrUnknownSymbol
	}
	batch, err := uc.fetchBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}
	card := uc.buildCard(asset, batch, withIndicators, maxBars)
	return &card, nil
}

// SimulatePaths runs a Monte Carlo fan for one configured symbol.
func (uc *DashboardUseCase) SimulatePaths(ctx context.Context, symbol string, sims, horizon int) (*models.SimulatedPaths, error) {
	if _, ok := uc.assets[symbol]; !ok {
		return nil, ErrUnknownSymbol
	}
	batch, err := uc.fetchBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}
	paths, err := uc.sim.Simulate(batch.Series[symbol], sims, horizon)
	if err != nil {
		return nil, err
	}
	if paths == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoHistory, symbol)
	}
	return paths, nil
}

// Correlation computes the return correlation matrix over the whole board.
func (uc *DashboardUseCase) Correlation(ctx context.Context) (*models.CorrelationMatrix, error) {
	batch, err := uc.fetchBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}
	m := uc.correlationFrom(batch)
	return &m, nil
}

// Quotes flattens the latest batch into per-asset refresh events.
func (uc *DashboardUseCase) Quotes(ctx context.Context) ([]models.Quote, error) {
	batch, err := uc.fetchBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}
	now := time.Now().UTC()
	quotes := make([]models.Quote, 0, len(uc.assets))
	for _, g := range uc.cfg.Groups {
		for _, a := range g.Assets {
			s := batch.Series[a.Symbol]
			if s.Empty() {
				continue
			}
			quotes = append(quotes, models.Quote{
				Symbol:    a.Symbol,
				Label:     a.Label,
				Price:     s.LastClose(),
				Delta:     s.Delta(),
				Timestamp: now,
			})
		}
	}
	return quotes, nil
}

// Refresh invalidates the batch cache and rebuilds a full snapshot.
func (uc *DashboardUseCase) Refresh(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()
	if err := uc.cache.Delete(ctx, uc.cacheKey); err != nil {
		uc.logger.Warn("batch cache invalidation failed", logger.Error(err))
	}
	snap, err := uc.Snapshot(ctx, true, true)
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordRefresh(time.Since(start))
	return snap, nil
}

func (uc *DashboardUseCase) buildCard(a config.Asset, batch *batchResult, withIndicators bool, maxBars int) models.AssetCard {
	s := batch.Series[a.Symbol]
	bars := s.Bars
	if maxBars > 0 && len(bars) > maxBars {
		bars = bars[len(bars)-maxBars:]
	}

	card := models.AssetCard{
		Symbol:    a.Symbol,
		Label:     a.Label,
		SubLabel:  a.SubLabel,
		Price:     s.LastClose(),
		Delta:     s.Delta(),
		Format:    a.Format,
		Reference: a.Note,
		Flat:      s.Flat(),
		Bars:      bars,
		Error:     batch.Errors[a.Symbol],
	}
	if withIndicators && !s.Empty() {
		overlay := uc.engine.Overlay(models.Series{Symbol: s.Symbol, Bars: bars})
		card.Indicators = &overlay
	}
	return card
}

func (uc *DashboardUseCase) correlationFrom(batch *batchResult) models.CorrelationMatrix {
	series := make([]models.Series, 0, len(uc.assets))
	for _, g := range uc.cfg.Groups {
		for _, a := range g.Assets {
			series = append(series, batch.Series[a.Symbol])
		}
	}
	return analytics.Correlate(series)
}
