package queue

import (
	"context"
)

// Queue is the transport notification tasks travel through. Implementations:
// RedisQueue and RabbitQueue.
type Queue interface {
	Publish(ctx context.Context, task *Task) error
	Subscribe(ctx context.Context, handler func(*Task) error) error
	Close() error
}
