package service

import (
	"context"

	"travelapp/pkg/queue"
)

// queueAdapter bridges the service-level TaskPublisher to the queue package
type queueAdapter struct {
	queue queue.Queue
}

// NewQueueAdapter wraps a queue.Queue as a TaskPublisher
func NewQueueAdapter(q queue.Queue) TaskPublisher {
	return &queueAdapter{queue: q}
}

func (a *queueAdapter) Publish(ctx context.Context, task *Task) error {
	return a.queue.Publish(ctx, &queue.Task{
		ID:         task.ID,
		Type:       queue.TaskType(task.Type),
		Data:       task.Data,
		ExecuteAt:  task.ExecuteAt,
		MaxRetries: task.MaxRetries,
		Attempts:   task.Attempts,
	})
}
