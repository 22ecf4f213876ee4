package pool

// Queue is a FIFO of objects in submission order.
type Queue[T any] struct {
	items []T
	head  int
}

func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// Pop returns false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.head >= len(q.items) {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return item, true
}

func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// Drain pops every item in order.
func (q *Queue[T]) Drain(fn func(T)) {
	for {
		item, ok := q.Pop()
		if !ok {
			return
		}
		fn(item)
	}
}
