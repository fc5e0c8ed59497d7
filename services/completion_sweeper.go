package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"houseshow-backend/models"
)

const defaultSweepBatch = 100

type bookingCompleter interface {
	MarkCompleted(ctx context.Context, actor Actor, id string) (*models.Booking, error)
}

// CompletionSweeper moves CONFIRMED bookings to COMPLETED once their show
// has ended. It is the external trigger for MarkCompleted.
type CompletionSweeper struct {
	completer bookingCompleter
	store     BookingStore
	interval  time.Duration
	batch     int
	log       *zap.SugaredLogger
	now       func() time.Time
}

func NewCompletionSweeper(completer bookingCompleter, store BookingStore, interval time.Duration, log *zap.SugaredLogger) *CompletionSweeper {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CompletionSweeper{
		completer: completer,
		store:     store,
		interval:  interval,
		batch:     defaultSweepBatch,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps every interval until ctx is done. A non-positive interval
// disables the sweeper.
func (s *CompletionSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Infow("completion sweeper disabled")
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Infow("completion sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("completion sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, s.now()); err != nil {
				s.log.Errorw("completion sweep failed", "error", err)
			}
		}
	}
}

// Sweep completes every due booking and returns how many were completed.
// Bookings that changed state in the meantime are skipped.
func (s *CompletionSweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListDueForCompletion(ctx, now, s.batch)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range due {
		b := &due[i]
		if b.ShowEndsAt().After(now) {
			continue
		}
		if _, err := s.completer.MarkCompleted(ctx, SystemActor, b.ID); err != nil {
			if IsInvalidStateError(err) || IsConcurrencyConflictError(err) {
				s.log.Debugw("booking no longer due for completion", "booking_id", b.ID, "error", err)
				continue
			}
			s.log.Warnw("failed to complete booking", "booking_id", b.ID, "error", err)
			continue
		}
		completed++
	}
	if completed > 0 {
		s.log.Infow("bookings completed", "count", completed)
	}
	return completed, nil
}
