// SPDX-License-Identifier: MIT
package types

type (
	// Queue is a FIFO ring buffer whose capacity is always a power of two.
	Queue[E any] struct {
		buf   []E
		front int
		n     int
	}
)

const defQueueCap = 8

// Len retrieves the number of queued elements.
func (q *Queue[E]) Len() int { return q.n }

// Push an element to the back of the Queue.
func (q *Queue[E]) Push(e E) {
	if q.n == len(q.buf) {
		q.grow()
	}

	q.buf[(q.front+q.n)&(len(q.buf)-1)] = e
	q.n++
}

// Pop removes the front element.
func (q *Queue[E]) Pop() (e E, ok bool) {
	if q.n < 1 {
		return
	}

	var zero E
	e, ok = q.buf[q.front], true
	q.buf[q.front] = zero

	q.front = (q.front + 1) & (len(q.buf) - 1)
	q.n--

	return
}

// grow doubles the buffer, unwrapping the queued elements to the start.
func (q *Queue[E]) grow() {
	size := len(q.buf) * 2
	if size < defQueueCap {
		size = defQueueCap
	}

	buf := make([]E, size)
	for index := 0; index < q.n; index++ {
		buf[index] = q.buf[(q.front+index)&(len(q.buf)-1)]
	}

	q.buf, q.front = buf, 0
}
