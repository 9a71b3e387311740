package worker

import (
	"context"
	"time"

	"travelapp/internal/service"

	"github.com/sirupsen/logrus"
)

// CompletionWorker periodically sweeps confirmed bookings whose check-out
// date has passed into the completed state.
type CompletionWorker struct {
	bookingService service.BookingService
	interval       time.Duration
	logger         *logrus.Logger
}

// NewCompletionWorker creates a new CompletionWorker
func NewCompletionWorker(bookingService service.BookingService, interval time.Duration, logger *logrus.Logger) *CompletionWorker {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CompletionWorker{
		bookingService: bookingService,
		interval:       interval,
		logger:         logger,
	}
}

// Start runs the sweep loop until the context is cancelled
func (w *CompletionWorker) Start(ctx context.Context) {
	w.logger.WithField("interval", w.interval).Info("completion worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once on startup so a restart does not delay the sweep.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("completion worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CompletionWorker) sweep(ctx context.Context) {
	count, err := w.bookingService.CompleteFinishedBookings(ctx)
	if err != nil {
		w.logger.WithField("error", err).Error("completion sweep failed")
		return
	}
	if count > 0 {
		w.logger.WithField("count", count).Info("completion sweep finished")
	}
}
