package queue

// Option configures an InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets how many samples may wait before Enqueue refuses more.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}
