package messaging

import "context"

// Flush hands every buffered message to fn in queue order without waiting
// for new ones. A message fn fails on is nacked, so the queue may redeliver
// it within its retry budget; the first such error is returned once the
// buffer is empty. Flush assumes it is the only consumer.
func Flush[T any](ctx context.Context, queue Queue[T], fn func(*T) error) error {
	var result error
	for queue.Size() > 0 {
		msg, err := queue.Consume(ctx)
		if err != nil {
			return err
		}
		if err = fn(msg.T()); err != nil {
			if result == nil {
				result = err
			}
			if nackErr := msg.Nack(err); nackErr != nil {
				return nackErr
			}
			continue
		}
		if err = msg.Ack(); err != nil {
			return err
		}
	}
	return result
}
