package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitQueue implements Queue on top of RabbitMQ. Retry delays use a
// per-message TTL queue that dead-letters back into the main queue, so no
// broker plugin is required.
type RabbitQueue struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	queue        amqp.Queue
	dlq          amqp.Queue
	config       RabbitQueueConfig
	retryManager *RetryManager
}

// RabbitQueueConfig contains configuration for RabbitQueue
type RabbitQueueConfig struct {
	URL        string
	QueueName  string
	DLQName    string
	MaxRetries int
	RetryDelay time.Duration
}

// NewRabbitQueue connects to RabbitMQ and declares the main and dead-letter
// queues.
func NewRabbitQueue(cfg RabbitQueueConfig, retryManager *RetryManager) (*RabbitQueue, error) {
	if cfg.QueueName == "" {
		cfg.QueueName = "travel_booking:tasks"
	}
	if cfg.DLQName == "" {
		cfg.DLQName = cfg.QueueName + ":dlq"
	}
	if retryManager == nil {
		retryManager = NewRetryManager(cfg.MaxRetries, cfg.RetryDelay)
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := channel.QueueDeclare(
		cfg.QueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		amqp.Table{
			"x-queue-mode": "lazy",
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	dlq, err := channel.QueueDeclare(
		cfg.DLQName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare DLQ: %w", err)
	}

	log.Printf("RabbitQueue initialized: queue=%s, dlq=%s", q.Name, dlq.Name)

	return &RabbitQueue{
		conn:         conn,
		channel:      channel,
		queue:        q,
		dlq:          dlq,
		config:       cfg,
		retryManager: retryManager,
	}, nil
}

// Publish sends a task to the queue
func (r *RabbitQueue) Publish(ctx context.Context, task *Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if task.ID == "" {
		task.ID = generateTaskID()
	}
	if task.MaxRetries == 0 {
		task.MaxRetries = r.retryManager.MaxRetries()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %v", err)
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if !task.ExecuteAt.IsZero() && task.ExecuteAt.After(time.Now()) {
		return r.publishWithTTLAndDLX(ctx, body, time.Until(task.ExecuteAt))
	}

	return r.publishTo(ctx, r.queue.Name, body)
}

func (r *RabbitQueue) publishTo(ctx context.Context, routingKey string, body []byte) error {
	err := r.channel.PublishWithContext(
		ctx,
		"",         // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// publishWithTTLAndDLX parks a message in a short-lived TTL queue that
// dead-letters into the main queue when the delay expires.
func (r *RabbitQueue) publishWithTTLAndDLX(ctx context.Context, body []byte, delay time.Duration) error {
	delayedQueueName := fmt.Sprintf("%s:delayed:%d", r.config.QueueName, time.Now().UnixNano())

	_, err := r.channel.QueueDeclare(
		delayedQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-message-ttl":             delay.Milliseconds(),
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": r.config.QueueName,
			"x-expires":                 delay.Milliseconds() + 60000,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare delayed queue: %w", err)
	}

	return r.publishTo(ctx, delayedQueueName, body)
}

// Subscribe starts consuming tasks from the queue
func (r *RabbitQueue) Subscribe(ctx context.Context, handler func(*Task) error) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	err := r.channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := r.channel.Consume(
		r.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to consume messages: %w", err)
	}

	go r.handleMessages(ctx, msgs, handler)

	log.Println("RabbitQueue subscriber started")
	return nil
}

func (r *RabbitQueue) handleMessages(ctx context.Context, msgs <-chan amqp.Delivery, handler func(*Task) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			r.handleDelivery(ctx, msg, handler)
		}
	}
}

func (r *RabbitQueue) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(*Task) error) {
	var task Task
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		log.Printf("Failed to unmarshal task, dropping to DLQ: %v", err)
		r.publishTo(ctx, r.dlq.Name, msg.Body)
		msg.Ack(false)
		return
	}

	task.Attempts++

	err := handler(&task)
	if err == nil {
		log.Printf("Task %s completed successfully", task.ID)
		msg.Ack(false)
		return
	}

	shouldRetry, delay := r.retryManager.ShouldRetry(&task, err)
	if shouldRetry {
		log.Printf("Task %s failed (attempt %d/%d), retrying in %v: %v",
			task.ID, task.Attempts, task.MaxRetries, delay, err)
		task.ExecuteAt = time.Now().Add(delay)
		if body, marshalErr := json.Marshal(&task); marshalErr == nil {
			if pubErr := r.publishWithTTLAndDLX(ctx, body, delay); pubErr == nil {
				msg.Ack(false)
				return
			}
		}
		// Could not schedule the retry, let the broker redeliver
		msg.Nack(false, true)
		return
	}

	log.Printf("Task %s failed after %d attempts, moving to DLQ: %v", task.ID, task.Attempts, err)
	failed := &FailedTask{
		Task:     &task,
		Error:    err.Error(),
		FailedAt: time.Now(),
		Attempts: task.Attempts,
	}
	if body, marshalErr := json.Marshal(failed); marshalErr == nil {
		r.publishTo(ctx, r.dlq.Name, body)
	}
	msg.Ack(false)
}

// HealthCheck verifies the broker connection is alive.
func (r *RabbitQueue) HealthCheck() error {
	if r.conn == nil || r.conn.IsClosed() {
		return fmt.Errorf("RabbitMQ connection is closed")
	}

	testChannel, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("RabbitMQ health check failed: %w", err)
	}
	testChannel.Close()

	return nil
}

// Close gracefully shuts down the queue
func (r *RabbitQueue) Close() error {
	var errs []error

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing RabbitMQ: %v", errs)
	}

	log.Println("RabbitQueue closed successfully")
	return nil
}
