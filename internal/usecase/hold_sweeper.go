package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultSweepInterval = time.Minute

// HoldSweeper periodically releases pending reservations whose hold lapsed.
// Availability already ignores lapsed holds; the sweeper makes the status
// match so reads and reports see them as cancelled.
type HoldSweeper struct {
	reservations ReservationService
	interval     time.Duration
	log          *zap.Logger
}

func NewHoldSweeper(reservations ReservationService, interval time.Duration, log *zap.Logger) *HoldSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &HoldSweeper{
		reservations: reservations,
		interval:     interval,
		log:          log.With(zap.String("worker", "hold_sweeper")),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (h *HoldSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.log.Info("Hold sweeper started", zap.Duration("interval", h.interval))

	for {
		h.Sweep(ctx)

		select {
		case <-ctx.Done():
			h.log.Info("Hold sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (h *HoldSweeper) Sweep(ctx context.Context) int {
	n, err := h.reservations.ExpireHolds(ctx)
	if err != nil {
		if ctx.Err() == nil {
			h.log.Error("Hold sweep failed", zap.Error(err))
		}
		return 0
	}
	if n > 0 {
		h.log.Info("Expired reservation holds", zap.Int("count", n))
	}
	return n
}
