package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
)

// Lister is the slice of the repository the poller needs.
type Lister interface {
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

// Poller refreshes the store from the repository at a fixed interval.
// A failed poll is left for the next cycle; nothing is retried inline.
type Poller struct {
	store    *Store
	source   Lister
	interval time.Duration
	logger   *zap.Logger
}

// NewPoller creates a poller. Non-positive intervals fall back to the
// default.
func NewPoller(s *Store, source Lister, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{store: s, source: source, interval: interval, logger: logger}
}

// Run polls until ctx is cancelled. It performs one immediate refresh so
// the cache is warm before the first tick.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("ticket poller stopped")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	tickets, err := p.source.ListAll(ctx)
	if err != nil {
		p.logger.Warn("ticket refresh failed", zap.Error(err))
		return
	}
	p.store.Replace(tickets)
	p.logger.Debug("ticket cache refreshed", zap.Int("count", len(tickets)))
}
