package utils

import (
	"dashboard-builder/src/models"
)

// -----------------------------------------------------------------------------
// RingBuffer is a fixed-size circular buffer of widget data envelopes.
// True ring buffer - no resizing allowed!
// -----------------------------------------------------------------------------

type RingBuffer struct {
	data     []*models.MWidgetDataResponse
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewRingBuffer creates a new buffer with fixed capacity
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 32 // Default reasonable size
	}

	return &RingBuffer{
		data:     make([]*models.MWidgetDataResponse, capacity),
		capacity: capacity,
		index:    0,
		size:     0,
	}
}

// -----------------------------------------------------------------------------

// Append adds an envelope, overwriting the oldest entry when full
func (rb *RingBuffer) Append(resp *models.MWidgetDataResponse) {
	rb.data[rb.index] = resp
	rb.index = (rb.index + 1) % rb.capacity

	// Update size (never exceeds capacity)
	if rb.size < rb.capacity {
		rb.size++
	}
}

// -----------------------------------------------------------------------------

// GetLatest returns the n most recent envelopes, oldest first
func (rb *RingBuffer) GetLatest(n int) []*models.MWidgetDataResponse {
	if rb.size == 0 || n <= 0 {
		return []*models.MWidgetDataResponse{}
	}

	count := n
	if n > rb.size {
		count = rb.size
	}

	result := make([]*models.MWidgetDataResponse, count)

	// Latest data sits just before the write index
	startIdx := (rb.index - count + rb.capacity) % rb.capacity

	for i := 0; i < count; i++ {
		idx := (startIdx + i) % rb.capacity
		result[i] = rb.data[idx]
	}

	return result
}

// -----------------------------------------------------------------------------

// GetAll returns all data in insertion order (oldest to newest)
func (rb *RingBuffer) GetAll() []*models.MWidgetDataResponse {
	if rb.size == 0 {
		return []*models.MWidgetDataResponse{}
	}

	result := make([]*models.MWidgetDataResponse, rb.size)

	// Oldest element: the write index once wrapped, zero before that
	var startIdx int
	if rb.size == rb.capacity {
		startIdx = rb.index
	} else {
		startIdx = 0
	}

	for i := 0; i < rb.size; i++ {
		idx := (startIdx + i) % rb.capacity
		result[i] = rb.data[idx]
	}

	return result
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (rb *RingBuffer) Size() int {
	return rb.size
}

// -----------------------------------------------------------------------------

// Capacity returns buffer capacity (fixed)
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// -----------------------------------------------------------------------------

// IsFull returns whether buffer is full
func (rb *RingBuffer) IsFull() bool {
	return rb.size == rb.capacity
}

// -----------------------------------------------------------------------------

// Clear resets the buffer
func (rb *RingBuffer) Clear() {
	rb.index = 0
	rb.size = 0
}
