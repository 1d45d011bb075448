package metrics

import (
	"sync"
	"time"
)

// DefaultBufferCapacity is the default number of points kept per series.
const DefaultBufferCapacity = 10000

// CircularBuffer is a fixed-size, thread-safe ring of DataPoints.
// The oldest point is overwritten once the buffer is full.
type CircularBuffer struct {
	mu       sync.RWMutex
	data     []DataPoint
	capacity int
	head     int // next write position
	size     int
}

// NewCircularBuffer creates a buffer holding at most capacity points.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &CircularBuffer{
		data:     make([]DataPoint, capacity),
		capacity: capacity,
	}
}

// Push appends dp, dropping it silently if it is not valid.
func (b *CircularBuffer) Push(dp DataPoint) {
	if !dp.IsValid() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[b.head] = dp
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// at returns the i-th oldest point. Caller must hold the lock.
func (b *CircularBuffer) at(i int) DataPoint {
	oldest := (b.head - b.size + b.capacity) % b.capacity
	return b.data[(oldest+i)%b.capacity]
}

// Snapshot returns a copy of every point in chronological order.
func (b *CircularBuffer) Snapshot() []DataPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return nil
	}
	out := make([]DataPoint, b.size)
	for i := range out {
		out[i] = b.at(i)
	}
	return out
}

// GetRecent returns up to n of the newest points in chronological order.
func (b *CircularBuffer) GetRecent(n int) []DataPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || b.size == 0 {
		return nil
	}
	if n > b.size {
		n = b.size
	}

	out := make([]DataPoint, n)
	skip := b.size - n
	for i := range out {
		out[i] = b.at(skip + i)
	}
	return out
}

// GetAfter returns points strictly newer than t, oldest first.
func (b *CircularBuffer) GetAfter(t time.Time) []DataPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []DataPoint
	for i := 0; i < b.size; i++ {
		if dp := b.at(i); dp.Timestamp.After(t) {
			out = append(out, dp)
		}
	}
	return out
}

// GetSince returns points at or after t, oldest first.
func (b *CircularBuffer) GetSince(t time.Time) []DataPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []DataPoint
	for i := 0; i < b.size; i++ {
		if dp := b.at(i); !dp.Timestamp.Before(t) {
			out = append(out, dp)
		}
	}
	return out
}

// Latest returns the newest point, or false when the buffer is empty.
func (b *CircularBuffer) Latest() (DataPoint, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return DataPoint{}, false
	}
	return b.at(b.size - 1), true
}

// Len returns the number of buffered points.
func (b *CircularBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the buffer capacity.
func (b *CircularBuffer) Cap() int {
	return b.capacity
}

// IsFull reports whether the next Push will evict a point.
func (b *CircularBuffer) IsFull() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size == b.capacity
}

// Clear drops every buffered point.
func (b *CircularBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.head = 0
	b.size = 0
	clear(b.data)
}
