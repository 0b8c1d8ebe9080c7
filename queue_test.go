package filelog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	var q queue

	_, ok := q.pop()
	assert.False(t, ok)

	for i := 0; i < 5; i++ {
		assert.Equal(t, i+1, q.push(logRecord{Message: fmt.Sprint(i)}))
	}
	assert.Equal(t, 5, q.len())

	for i := 0; i < 5; i++ {
		r, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), r.Message)
	}
	_, ok = q.pop()
	assert.False(t, ok)
	assert.Zero(t, q.len())
}

func TestQueueCompaction(t *testing.T) {
	var q queue
	const total = 5000

	for i := 0; i < total; i++ {
		q.push(logRecord{Message: fmt.Sprint(i)})
	}
	for i := 0; i < total-10; i++ {
		r, ok := q.pop()
		require.True(t, ok)
		require.Equal(t, fmt.Sprint(i), r.Message)
	}

	assert.Equal(t, 10, q.len())
	assert.Less(t, q.head, compactThreshold, "dead prefix is reclaimed")

	for i := total - 10; i < total; i++ {
		r, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), r.Message)
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	var q queue
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				q.push(logRecord{})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 2000, q.len())
}
