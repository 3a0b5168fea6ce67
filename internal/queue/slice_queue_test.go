package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceQueue_FIFO(t *testing.T) {
	q := NewSliceQueue[int](2)
	assert.True(t, q.IsEmpty())

	_, ok := q.Dequeue()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)

	for i := range 5 {
		q.Enqueue(i)
	}
	assert.Equal(t, 5, q.Length())

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 0, head)

	for i := range 5 {
		v, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.True(t, q.IsEmpty())
}

func TestSliceQueue_WrapAround(t *testing.T) {
	q := NewSliceQueue[string](3)
	q.Enqueue("a")
	q.Enqueue("b")
	q.Dequeue()
	q.Enqueue("c")
	q.Enqueue("d") // wraps to index 0
	q.Enqueue("e") // grows while wrapped

	var got []string
	for !q.IsEmpty() {
		v, _ := q.Dequeue()
		got = append(got, v)
	}
	assert.Equal(t, []string{"b", "c", "d", "e"}, got)
}

func TestSliceQueue_Reset(t *testing.T) {
	q := NewSliceQueue[int](0)
	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)
	q.Dequeue()

	assert.Equal(t, []int{2, 3}, q.Reset())
	assert.Zero(t, q.Length())

	q.Enqueue(4)
	v, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 4, v)
}
