// Package ring implements a lock-free single-producer/single-consumer
// circular buffer for audio samples.
//
// The buffer is the only structure shared between the producer clock domain
// (the emulated device) and the consumer clock domain (the host render
// callback). Exactly one goroutine may call TryWrite and exactly one may
// call TryRead; under that protocol no locks are required and both
// operations complete in O(n) with no allocation, making them safe to call
// from a real-time audio callback.
//
// Memory ordering: Go's sync/atomic provides sequential consistency. The
// producer publishes data before storing the write cursor; the consumer
// loads the write cursor before reading data, so it always observes fully
// written samples. The mirror argument holds for the read cursor.
package ring

import (
	"fmt"
	"sync/atomic"
)

// cursorPadding separates the producer and consumer cursors onto different
// cache lines to avoid false sharing. Cache lines are 64 bytes on the
// architectures that matter here; the atomic word itself occupies 8.
const cursorPadding = 56

// Buffer is a fixed-capacity SPSC ring buffer of samples.
//
// Capacity must be a power of two so cursor arithmetic reduces to a bitwise
// AND with capacity-1. One slot is always kept empty: with only two cursors
// a completely full buffer would otherwise be indistinguishable from an
// empty one, so a Buffer of capacity N holds at most N-1 samples.
type Buffer[T any] struct {
	writePos atomic.Uint32
	_        [cursorPadding]byte
	readPos  atomic.Uint32
	_        [cursorPadding]byte

	data []T
	mask uint32
}

// New creates a ring buffer holding up to capacity-1 samples.
//
// The capacity must be a power of two and at least 2. Violating that is a
// programming error, not a runtime condition, so New panics rather than
// returning an error; callers validate user-supplied sizes before reaching
// this point.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("ring: capacity %d is not a power of two", capacity))
	}

	return &Buffer[T]{
		data: make([]T, capacity),
		mask: uint32(capacity - 1),
	}
}

// TryWrite copies as many leading samples of src as currently fit, advances
// the write cursor by that count and returns it. It never blocks and never
// allocates. A short count is a partial accept, not an error; the caller
// decides whether the unwritten tail is dropped or resubmitted.
//
// Only the producer goroutine may call TryWrite.
func (b *Buffer[T]) TryWrite(src []T) int {
	w := b.writePos.Load()
	r := b.readPos.Load()

	free := (r - w - 1) & b.mask
	n := uint32(len(src))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	// The transfer may wrap past the end of the backing array; split it
	// into at most two contiguous copies.
	first := uint32(len(b.data)) - w
	if n <= first {
		copy(b.data[w:w+n], src[:n])
	} else {
		copy(b.data[w:], src[:first])
		copy(b.data, src[first:n])
	}

	b.writePos.Store((w + n) & b.mask)
	return int(n)
}

// TryRead copies up to len(dst) samples into dst, advances the read cursor
// by the count copied and returns it. It never blocks and never allocates.
// A short count means fewer samples were available, letting the caller
// distinguish "no data yet" from a closed stream.
//
// Only the consumer goroutine may call TryRead.
func (b *Buffer[T]) TryRead(dst []T) int {
	r := b.readPos.Load()
	w := b.writePos.Load()

	avail := (w - r) & b.mask
	n := uint32(len(dst))
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}

	first := uint32(len(b.data)) - r
	if n <= first {
		copy(dst[:n], b.data[r:r+n])
	} else {
		copy(dst[:first], b.data[r:])
		copy(dst[first:n], b.data[:n-first])
	}

	b.readPos.Store((r + n) & b.mask)
	return int(n)
}

// ReadAvailable returns the number of samples ready to read. Exact for the
// consumer; for any other observer it is a lower bound that only grows as
// the producer makes progress.
func (b *Buffer[T]) ReadAvailable() int {
	return int((b.writePos.Load() - b.readPos.Load()) & b.mask)
}

// WriteAvailable returns the free space in samples. Exact for the producer;
// for any other observer it is a lower bound.
func (b *Buffer[T]) WriteAvailable() int {
	return int((b.readPos.Load() - b.writePos.Load() - 1) & b.mask)
}

// Capacity returns the total slot count. Usable capacity is one less.
func (b *Buffer[T]) Capacity() int {
	return len(b.data)
}
