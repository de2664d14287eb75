package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	domrepo "MarketBoard/internal/domain/repository"
	"MarketBoard/internal/handler/ws"
	"MarketBoard/internal/usecase"
	"MarketBoard/pkg/logger"
)

// Scheduler drives the refresh cycle: rebuild the snapshot on an interval,
// push it to websocket clients and fan the flattened quotes out to the
// optional message and archive backends.
type Scheduler struct {
	cron      *cron.Cron
	board     *usecase.DashboardUseCase
	hub       *ws.Hub
	publisher domrepo.Publisher
	archive   domrepo.Archive
	logger    *logger.Logger

	interval time.Duration
	onStart  bool
}

func New(
	board *usecase.DashboardUseCase,
	hub *ws.Hub,
	publisher domrepo.Publisher,
	archive domrepo.Archive,
	l *logger.Logger,
	interval time.Duration,
	onStart bool,
) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		board:     board,
		hub:       hub,
		publisher: publisher,
		archive:   archive,
		logger:    l,
		interval:  interval,
		onStart:   onStart,
	}
}

// Start registers the refresh job and begins the cron loop. With onStart
// set, one refresh runs immediately so the board is warm before the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.refresh(ctx) }); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}

	if s.onStart {
		go s.refresh(ctx)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", logger.String("interval", s.interval.String()))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	snap, err := s.board.Refresh(ctx)
	if err != nil {
		s.logger.Error("refresh cycle failed", logger.Error(err))
		return
	}
	s.hub.Broadcast(snap)

	quotes, err := s.board.Quotes(ctx)
	if err != nil {
		s.logger.Error("quote extraction failed", logger.Error(err))
		return
	}
	if err := s.publisher.PublishQuotes(ctx, quotes); err != nil {
		s.logger.Error("quote publish failed", logger.Error(err))
	}
	if err := s.archive.InsertQuotes(ctx, quotes); err != nil {
		s.logger.Error("quote archive failed", logger.Error(err))
	}

	s.logger.Info("refresh cycle complete",
		logger.Int("groups", len(snap.Groups)),
		logger.Int("quotes", len(quotes)))
}
