package filelog

import (
	"sync"
)

// compactThreshold bounds the dead prefix kept before the backing array is shifted
const compactThreshold = 1024

// queue is an unbounded FIFO of pending records. Producers never block on
// capacity, memory is the only limit.
type queue struct {
	mu    sync.Mutex
	items []logRecord
	head  int
}

// push appends a record and returns the resulting depth
func (q *queue) push(r logRecord) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, r)
	return len(q.items) - q.head
}

// pop removes the oldest record
func (q *queue) pop() (logRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return logRecord{}, false
	}

	r := q.items[q.head]
	q.items[q.head] = logRecord{}
	q.head++

	if q.head >= compactThreshold && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return r, true
}

// len returns the number of pending records
func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
