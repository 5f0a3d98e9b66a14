// Package gain holds per-stream volume and mute state shared between the
// control plane and the audio data path.
//
// Control actions (user moving a slider, hitting mute) happen on an
// arbitrary goroutine while the data path reads the current values on every
// transfer, possibly inside a real-time callback. All state therefore lives
// in single atomic words: reads are wait-free and writes take effect on the
// next transfer. No ramping is performed; an abrupt change is applied as-is.
package gain

import (
	"math"
	"sync/atomic"

	"github.com/tphakala/simd/f32"
)

// unityGain is the default pass-through volume.
const unityGain = 1.0

// Control is the gain state for one stream direction.
//
// Volume and mute are independent: muting does not disturb the stored
// volume, so unmuting restores the previous level without another
// SetVolume call.
type Control struct {
	// Both channel gains packed into one word so a concurrent reader can
	// never observe a half-applied stereo volume change.
	volume atomic.Uint64
	muted  atomic.Bool
}

// New returns a Control at unity gain, unmuted.
func New() *Control {
	c := &Control{}
	c.SetVolume(unityGain, unityGain)
	return c
}

// SetVolume sets the linear per-channel gains. Values are clamped to
// [0, 1]. For mono streams the left gain applies to every frame.
func (c *Control) SetVolume(left, right float32) {
	c.volume.Store(uint64(math.Float32bits(clamp01(left)))<<32 |
		uint64(math.Float32bits(clamp01(right))))
}

// SetGain sets a single gain applied uniformly to all channels.
func (c *Control) SetGain(g float32) {
	c.SetVolume(g, g)
}

// Volume returns the stored per-channel gains, independent of mute state.
func (c *Control) Volume() (left, right float32) {
	v := c.volume.Load()
	return math.Float32frombits(uint32(v >> 32)), math.Float32frombits(uint32(v))
}

// SetMute sets the mute flag without touching the stored volume.
func (c *Control) SetMute(mute bool) {
	c.muted.Store(mute)
}

// Muted reports the mute flag.
func (c *Control) Muted() bool {
	return c.muted.Load()
}

// Apply scales interleaved frames in place using the current gain state.
// Muted streams are zeroed. Wait-free and allocation-free, safe on the
// data path.
func (c *Control) Apply(frames []float32, channels int) {
	if c.muted.Load() {
		clear(frames)
		return
	}

	left, right := c.Volume()
	if left == right || channels != 2 {
		if left == unityGain {
			return
		}
		f32.Scale(frames, frames, left)
		return
	}

	for i := 0; i+1 < len(frames); i += 2 {
		frames[i] *= left
		frames[i+1] *= right
	}
}

func clamp01(x float32) float32 {
	// NaN fails both comparisons and falls through to 0.
	switch {
	case x >= 0 && x <= 1:
		return x
	case x > 1:
		return 1
	default:
		return 0
	}
}
