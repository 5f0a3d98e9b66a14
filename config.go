package audiobridge

import (
	"errors"
	"fmt"
)

// Config holds the negotiated stream format for a session.
//
// The format is fixed for the session's lifetime and all buffers are sized
// up front from it; renegotiating a format means closing the session and
// opening a new one, so nothing ever reallocates on the data path.
type Config struct {
	// SampleRate is the stream sample rate in Hz (e.g. 44100, 48000).
	// Both directions run at the same negotiated rate.
	SampleRate int

	// Channels is the interleaved channel count (1 = mono, 2 = stereo).
	Channels int

	// BufferCapacity is the ring buffer size in samples (not frames) for
	// each direction. Must be a power of two; one slot is reserved, so a
	// ring of capacity N holds N-1 samples. Size it to at least twice the
	// largest per-callback transfer the host will request. Zero selects
	// DefaultBufferCapacity.
	BufferCapacity int

	// EnableInput allocates the capture direction. Sessions without it
	// reject input operations with ErrInputDisabled.
	EnableInput bool

	// AutoplayAllowed seeds the autoplay policy. Hosts under a gating
	// policy (browsers before a user gesture) leave this false and call
	// SetAutoplayAllowed once a qualifying gesture arrives.
	AutoplayAllowed bool
}

// Common errors returned by the bridge.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid session configuration")

	// ErrAutoplayBlocked indicates playback may not start until the host
	// reports a qualifying user gesture. Resume may be retried after
	// SetAutoplayAllowed(true); the failed attempt changes no state.
	ErrAutoplayBlocked = errors.New("autoplay blocked until user gesture")

	// ErrInterrupted indicates the session is held by an external audio
	// interruption and cannot be resumed until the interruption ends.
	ErrInterrupted = errors.New("session interrupted")

	// ErrClosed indicates the session has been shut down. Closed is
	// terminal; open a new session instead.
	ErrClosed = errors.New("session closed")

	// ErrInputDisabled indicates the session was opened without capture.
	ErrInputDisabled = errors.New("input not enabled for this session")
)

// Validate checks if the configuration is valid.
//
// An invalid configuration is a programming error: it fails here, at
// construction, never per-call at runtime.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	}

	if c.Channels < monoChannels || c.Channels > maxChannels {
		return fmt.Errorf("%w: channels must be %d-%d", ErrInvalidConfig, monoChannels, maxChannels)
	}

	if c.BufferCapacity != 0 {
		if c.BufferCapacity < minBufferCapacity {
			return fmt.Errorf("%w: buffer capacity must be at least %d samples", ErrInvalidConfig, minBufferCapacity)
		}
		if c.BufferCapacity&(c.BufferCapacity-1) != 0 {
			return fmt.Errorf("%w: buffer capacity must be a power of two", ErrInvalidConfig)
		}
	}

	return nil
}

// bufferCapacity returns the configured ring size with the default applied.
func (c *Config) bufferCapacity() int {
	if c.BufferCapacity == 0 {
		return DefaultBufferCapacity
	}
	return c.BufferCapacity
}

// FramesToSamples converts a frame count to an interleaved sample count for
// the session's channel layout. All bridge APIs count samples; hosts that
// think in frames convert at the boundary.
func (c *Config) FramesToSamples(frames int) int {
	return frames * c.Channels
}

// SamplesToFrames converts an interleaved sample count to whole frames.
func (c *Config) SamplesToFrames(samples int) int {
	return samples / c.Channels
}
