// Package pcm converts between the two sample representations crossing the
// bridge: interleaved signed 16-bit integers on the emulated-device side and
// normalized float32 on the host render side.
//
// All functions are stateless and total: every finite, infinite or NaN
// input maps to a defined in-range output. Channel layout is never touched;
// callers pass interleaved data and get interleaved data back.
package pcm

import "math"

// Full-scale factors for 16-bit PCM. Division by 32768 keeps -32768 inside
// [-1, 1]; multiplication by 32767 avoids positive overflow on the way back.
const (
	int16Scale   = 32768.0
	int16MaxStep = 32767.0
)

// Int16ToFloat32 converts a signed 16-bit sample to a normalized float32 in
// [-1, 1].
func Int16ToFloat32(s int16) float32 {
	return float32(s) / int16Scale
}

// Float32ToInt16 converts a normalized float32 sample to signed 16-bit,
// clamping to [-1, 1] first and rounding to nearest. NaN and Inf inputs map
// to 0 so adversarial data can never escape the valid range.
func Float32ToInt16(x float32) int16 {
	f := float64(x)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > 1 {
		f = 1
	} else if f < -1 {
		f = -1
	}
	return int16(math.Round(f * int16MaxStep))
}

// Int16SliceToFloat32 converts src into dst. The slices must be the same
// length; dst is caller-allocated so the conversion itself never allocates.
func Int16SliceToFloat32(dst []float32, src []int16) {
	for i, s := range src {
		dst[i] = float32(s) / int16Scale
	}
}

// Float32SliceToInt16 converts src into dst with per-sample clamping. The
// slices must be the same length; dst is caller-allocated.
func Float32SliceToInt16(dst []int16, src []float32) {
	for i, x := range src {
		dst[i] = Float32ToInt16(x)
	}
}

// Interleave merges two mono channels into interleaved stereo:
// dst[0]=left[0], dst[1]=right[0], dst[2]=left[1], ...
// dst must hold 2*min(len(left), len(right)) samples.
func Interleave(dst, left, right []float32) {
	n := min(len(left), len(right))
	for i := 0; i < n; i++ {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
}

// Deinterleave splits interleaved stereo into two mono channels. left and
// right must each hold len(src)/2 samples.
func Deinterleave(left, right, src []float32) {
	n := len(src) / 2
	for i := 0; i < n; i++ {
		left[i] = src[2*i]
		right[i] = src[2*i+1]
	}
}
