package queue

// sliceQueue implements Queue with a growable ring buffer.
type sliceQueue[T any] struct {
	items []T
	head  int
	size  int
}

// NewSliceQueue creates a queue with room for prealloc items before it grows.
func NewSliceQueue[T any](prealloc int) Queue[T] {
	if prealloc < 1 {
		prealloc = 1
	}

	return &sliceQueue[T]{items: make([]T, prealloc)}
}

func (q *sliceQueue[T]) Enqueue(item T) {
	if q.size == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.size)%len(q.items)] = item
	q.size++
}

func (q *sliceQueue[T]) Dequeue() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = zero // release the reference
	q.head = (q.head + 1) % len(q.items)
	q.size--

	return item, true
}

func (q *sliceQueue[T]) Peek() (T, bool) {
	if q.size == 0 {
		var zero T
		return zero, false
	}

	return q.items[q.head], true
}

func (q *sliceQueue[T]) Reset() []T {
	out := make([]T, 0, q.size)
	for q.size > 0 {
		item, _ := q.Dequeue()
		out = append(out, item)
	}
	q.head = 0

	return out
}

func (q *sliceQueue[T]) IsEmpty() bool {
	return q.size == 0
}

func (q *sliceQueue[T]) Length() int {
	return q.size
}

func (q *sliceQueue[T]) grow() {
	items := make([]T, len(q.items)*2)
	for i := range q.size {
		items[i] = q.items[(q.head+i)%len(q.items)]
	}
	q.items = items
	q.head = 0
}
