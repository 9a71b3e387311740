package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationDispatcher hands booking events to the notification pipeline.
// Services call it after commits; a dispatch failure never rolls back the
// operation that triggered it.
type NotificationDispatcher interface {
	DispatchBookingCreated(ctx context.Context, bookingID int64) error
	DispatchPaymentConfirmed(ctx context.Context, bookingID int64) error
}

// queuedDispatcher publishes tasks to the queue for asynchronous delivery
type queuedDispatcher struct {
	publisher  TaskPublisher
	maxRetries int
	logger     *logrus.Logger
}

// NewQueuedDispatcher creates a dispatcher backed by a task queue
func NewQueuedDispatcher(publisher TaskPublisher, maxRetries int, logger *logrus.Logger) NotificationDispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &queuedDispatcher{
		publisher:  publisher,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (d *queuedDispatcher) dispatch(ctx context.Context, taskType string, bookingID int64) error {
	task := &Task{
		ID:   fmt.Sprintf("%s_%d_%s", taskType, bookingID, uuid.NewString()[:8]),
		Type: taskType,
		Data: map[string]interface{}{
			"booking_id": bookingID,
		},
		ExecuteAt:  time.Now(),
		MaxRetries: d.maxRetries,
	}

	if err := d.publisher.Publish(ctx, task); err != nil {
		d.logger.WithFields(logrus.Fields{
			"task_type":  taskType,
			"booking_id": bookingID,
			"error":      err,
		}).Error("failed to publish notification task")
		return fmt.Errorf("failed to publish %s task: %w", taskType, err)
	}

	d.logger.WithFields(logrus.Fields{
		"task_type":  taskType,
		"booking_id": bookingID,
	}).Info("notification task published")
	return nil
}

func (d *queuedDispatcher) DispatchBookingCreated(ctx context.Context, bookingID int64) error {
	return d.dispatch(ctx, TaskTypeBookingCreatedEmail, bookingID)
}

func (d *queuedDispatcher) DispatchPaymentConfirmed(ctx context.Context, bookingID int64) error {
	return d.dispatch(ctx, TaskTypePaymentConfirmedEmail, bookingID)
}

// InlineHandler executes a notification task in the caller's goroutine.
// Matches the queue worker's handler signature without depending on it.
type InlineHandler func(taskType string, bookingID int64) error

// inlineDispatcher runs notifications synchronously. Used in tests and in
// deployments without a broker.
type inlineDispatcher struct {
	handler InlineHandler
	logger  *logrus.Logger
}

// NewInlineDispatcher creates a dispatcher that executes tasks immediately
func NewInlineDispatcher(handler InlineHandler, logger *logrus.Logger) NotificationDispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &inlineDispatcher{
		handler: handler,
		logger:  logger,
	}
}

func (d *inlineDispatcher) dispatch(taskType string, bookingID int64) error {
	if err := d.handler(taskType, bookingID); err != nil {
		d.logger.WithFields(logrus.Fields{
			"task_type":  taskType,
			"booking_id": bookingID,
			"error":      err,
		}).Error("inline notification failed")
		return err
	}
	return nil
}

func (d *inlineDispatcher) DispatchBookingCreated(_ context.Context, bookingID int64) error {
	return d.dispatch(TaskTypeBookingCreatedEmail, bookingID)
}

func (d *inlineDispatcher) DispatchPaymentConfirmed(_ context.Context, bookingID int64) error {
	return d.dispatch(TaskTypePaymentConfirmedEmail, bookingID)
}
