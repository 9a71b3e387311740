package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"travelapp/internal/service"

	"github.com/stretchr/testify/assert"
)

type stubBookingService struct {
	service.BookingService
	sweeps int64
}

func (s *stubBookingService) CompleteFinishedBookings(_ context.Context) (int64, error) {
	atomic.AddInt64(&s.sweeps, 1)
	return 2, nil
}

func TestCompletionWorkerSweepsOnStartup(t *testing.T) {
	svc := &stubBookingService{}
	worker := NewCompletionWorker(svc, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// The first sweep runs before the ticker, so one call lands promptly.
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&svc.sweeps) >= 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestCompletionWorkerDefaultInterval(t *testing.T) {
	worker := NewCompletionWorker(&stubBookingService{}, 0, nil)
	assert.Equal(t, 30*time.Minute, worker.interval)
}
