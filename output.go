package audiobridge

import (
	"sync/atomic"

	"github.com/tphakala/go-audio-bridge/internal/gain"
	"github.com/tphakala/go-audio-bridge/internal/pcm"
	"github.com/tphakala/go-audio-bridge/internal/ring"
)

// OutputStream carries audio from the emulated device to the host render
// callback.
//
// The device side calls Write with interleaved int16 frames on the guest
// clock; the host side calls Pull with a float32 destination on the audio
// clock. Conversion and gain happen on the device side, before the ring, so
// the render path is a bare ring read.
type OutputStream struct {
	buf  *ring.Buffer[float32]
	gain *gain.Control

	channels int

	samplesTransferred atomic.Uint64
	underruns          atomic.Uint64
	overruns           atomic.Uint64

	// Device-side conversion scratch, sized to the ring so Write never
	// allocates. Only the producer goroutine touches it.
	scratch []float32
}

// StreamStats is a snapshot of one endpoint's transfer counters.
type StreamStats struct {
	// SamplesTransferred counts interleaved samples accepted into (output)
	// or drained from (input) the ring.
	SamplesTransferred uint64

	// Underruns counts transfers where the consumer wanted more samples
	// than were buffered.
	Underruns uint64

	// Overruns counts transfers where the producer offered more samples
	// than the ring had room for; the excess was dropped.
	Overruns uint64
}

func newOutputStream(capacity, channels int) *OutputStream {
	return &OutputStream{
		buf:      ring.New[float32](capacity),
		gain:     gain.New(),
		channels: channels,
		scratch:  make([]float32, capacity),
	}
}

// Write converts src to float32, applies the current volume and mute state
// and offers the result to the ring. It returns the number of samples
// accepted; the unaccepted tail is dropped, not queued, and counted as an
// overrun. The device's own rate control is expected to pace subsequent
// writes; the return value is the only back-pressure signal.
//
// Device side only. Never blocks, never allocates.
func (o *OutputStream) Write(src []int16) int {
	n := len(src)
	if free := o.buf.WriteAvailable(); n > free {
		n = free
		o.overruns.Add(1)
	}
	if n == 0 {
		return 0
	}

	staged := o.scratch[:n]
	pcm.Int16SliceToFloat32(staged, src[:n])
	o.gain.Apply(staged, o.channels)

	// Free space only grows between the check and the write, so the ring
	// accepts all n samples.
	written := o.buf.TryWrite(staged)
	o.samplesTransferred.Add(uint64(written))
	return written
}

// Pull drains up to len(dst) buffered samples into dst and returns the
// count. A short count is an underrun: the counter is incremented and the
// caller is expected to substitute silence for the missing tail. The
// stream itself never zero-fills, keeping the render path allocation- and
// branch-light.
//
// Host render side only. Never blocks, never allocates.
func (o *OutputStream) Pull(dst []float32) int {
	n := o.buf.TryRead(dst)
	if n < len(dst) {
		o.underruns.Add(1)
	}
	return n
}

// Free returns the space available for Write in samples. The device's rate
// control polls this to pace production.
func (o *OutputStream) Free() int {
	return o.buf.WriteAvailable()
}

// Buffered returns the samples queued for the host.
func (o *OutputStream) Buffered() int {
	return o.buf.ReadAvailable()
}

// Gain exposes the stream's volume/mute control.
func (o *OutputStream) Gain() *gain.Control {
	return o.gain
}

// Stats returns a snapshot of the endpoint counters.
func (o *OutputStream) Stats() StreamStats {
	return StreamStats{
		SamplesTransferred: o.samplesTransferred.Load(),
		Underruns:          o.underruns.Load(),
		Overruns:           o.overruns.Load(),
	}
}
