package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/bigsources/jobdesk/internal/idgen"
	"github.com/bigsources/jobdesk/service/messaging"
)

// ErrQueueFull is returned by Publish when the buffer has no room.
var ErrQueueFull = errors.New("messaging: queue full")

// Config for memory queue implementation
type Config struct {
	// QueueBuffer is the channel capacity.
	QueueBuffer int
	// MaxRetries bounds how often a nacked message is requeued.
	MaxRetries int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		QueueBuffer: 256,
		MaxRetries:  0,
	}
}

// Message is a payload held by the in-memory queue.
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	mu         sync.Mutex
	processed  bool
}

// ID returns the message id.
func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T { return &m.payload }

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return errors.New("message already processed")
	}
	m.processed = true
	return nil
}

// Nack marks the message failed. It is requeued while the retry budget
// lasts and dropped afterwards; err is not retained.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return errors.New("message already processed")
	}
	m.processed = true
	if m.retryCount >= m.queue.config.MaxRetries {
		return nil
	}
	retry := &Message[T]{
		id:         m.id,
		payload:    m.payload,
		queue:      m.queue,
		retryCount: m.retryCount + 1,
	}
	select {
	case m.queue.messages <- retry:
		return nil
	default:
		return ErrQueueFull
	}
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a copy of t to the queue. It never waits for room.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return errors.New("messaging: nil payload")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{
		id:      idgen.New(),
		payload: *t,
		queue:   q,
	}
	select {
	case q.messages <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
