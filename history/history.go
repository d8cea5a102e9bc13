// Package history provides a bounded FIFO buffer of moisture readings
// for one sensor. When the buffer is full the oldest reading is evicted.
package history

import (
	"time"

	"github.com/n0S3curity/AquaGrow/models"
)

// Buffer stores up to Max readings for one sensor, oldest first.
type Buffer struct {
	points []models.HistoryPoint
	max    int
}

// NewBuffer creates a buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		points: make([]models.HistoryPoint, 0, capacity),
		max:    capacity,
	}
}

// Push appends a reading, evicting the oldest one at capacity.
func (b *Buffer) Push(value int, t time.Time) {
	p := models.HistoryPoint{Timestamp: t, Value: value}
	if len(b.points) >= b.max {
		copy(b.points, b.points[1:])
		b.points[len(b.points)-1] = p
		return
	}
	b.points = append(b.points, p)
}

// Len returns the number of stored readings.
func (b *Buffer) Len() int {
	return len(b.points)
}

// Last returns the most recent reading and whether one exists.
func (b *Buffer) Last() (models.HistoryPoint, bool) {
	if len(b.points) == 0 {
		return models.HistoryPoint{}, false
	}
	return b.points[len(b.points)-1], true
}

// Snapshot returns a copy of all stored readings, oldest first.
func (b *Buffer) Snapshot() []models.HistoryPoint {
	out := make([]models.HistoryPoint, len(b.points))
	copy(out, b.points)
	return out
}
