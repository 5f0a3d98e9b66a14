package audiobridge

import (
	"sync/atomic"

	"github.com/tphakala/go-audio-bridge/internal/gain"
	"github.com/tphakala/go-audio-bridge/internal/pcm"
	"github.com/tphakala/go-audio-bridge/internal/ring"
)

// InputStream carries captured audio from the host to the emulated device.
//
// The host side calls Push with interleaved float32 frames each capture
// callback; the device side calls Read on the guest clock. Gain and
// conversion happen on the device side, after the ring, so the capture
// callback is a bare ring write.
type InputStream struct {
	buf  *ring.Buffer[float32]
	gain *gain.Control

	channels int

	samplesTransferred atomic.Uint64
	overruns           atomic.Uint64

	// Device-side scratch for gain and conversion. Only the consumer
	// goroutine touches it.
	scratch []float32
}

func newInputStream(capacity, channels int) *InputStream {
	return &InputStream{
		buf:      ring.New[float32](capacity),
		gain:     gain.New(),
		channels: channels,
		scratch:  make([]float32, capacity),
	}
}

// Push offers captured samples to the ring and returns the count accepted.
// The unaccepted tail is dropped and counted as an overrun; the guest is
// not draining fast enough and stale capture data is worth less than
// stalling the host callback.
//
// Host capture side only. Never blocks, never allocates.
func (i *InputStream) Push(src []float32) int {
	n := i.buf.TryWrite(src)
	if n < len(src) {
		i.overruns.Add(1)
	}
	i.samplesTransferred.Add(uint64(n))
	return n
}

// Read drains up to len(dst) captured samples, applies input gain and
// converts to int16. The return count may be short; the shortfall is
// reported rather than zero-filled so the caller can tell "no data yet"
// from a closed stream. Zero-fill, if wanted, is the caller's business.
//
// Device side only. Never blocks, never allocates.
func (i *InputStream) Read(dst []int16) int {
	limit := len(dst)
	if limit > len(i.scratch) {
		limit = len(i.scratch)
	}

	n := i.buf.TryRead(i.scratch[:limit])
	if n == 0 {
		return 0
	}

	staged := i.scratch[:n]
	i.gain.Apply(staged, i.channels)
	pcm.Float32SliceToInt16(dst[:n], staged)
	return n
}

// Available returns the captured samples waiting for Read.
func (i *InputStream) Available() int {
	return i.buf.ReadAvailable()
}

// Gain exposes the stream's input gain control.
func (i *InputStream) Gain() *gain.Control {
	return i.gain
}

// Stats returns a snapshot of the endpoint counters.
func (i *InputStream) Stats() StreamStats {
	return StreamStats{
		SamplesTransferred: i.samplesTransferred.Load(),
		Overruns:           i.overruns.Load(),
	}
}
