package audiobridge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Session is an audio bridge instance: one output stream, an optional input
// stream and the lifecycle state machine tying them to the host transport.
//
// Sessions are explicit handles; there is no process-wide audio state, so
// multiple sessions coexist and tests run in isolation. A Session must not
// be copied after creation.
type Session struct {
	config Config

	out *OutputStream
	in  *InputStream // nil unless Config.EnableInput

	// state is read wait-free by the data path; transitions are serialized
	// by mu on the control plane.
	state    atomic.Int32
	autoplay atomic.Bool

	// resumeState remembers where an interruption began so its end can
	// put the session back.
	resumeState State

	mu sync.Mutex
}

// Stats is a point-in-time snapshot of a session's transfer counters and
// lifecycle state, for polling by an observability collaborator.
type Stats struct {
	// SamplesPlayed counts interleaved samples the device wrote into the
	// output stream and the ring accepted.
	SamplesPlayed uint64

	// SamplesCaptured counts interleaved samples the host pushed into the
	// input stream and the ring accepted.
	SamplesCaptured uint64

	// Underruns counts render callbacks that found fewer samples buffered
	// than they asked for.
	Underruns uint64

	// Overruns counts transfers, in either direction, whose tail was
	// dropped for lack of ring space.
	Overruns uint64

	// State is the lifecycle state at snapshot time.
	State State
}

// Open creates a session with the given stream format and places it in
// StateSuspended, ready for Resume.
//
// The configuration is validated up front; all ring and scratch storage is
// allocated here so the data path never allocates afterwards.
func Open(config *Config) (*Session, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		config:      *config,
		out:         newOutputStream(config.bufferCapacity(), config.Channels),
		resumeState: StateSuspended,
	}

	if config.EnableInput {
		s.in = newInputStream(config.bufferCapacity(), config.Channels)
	}

	s.autoplay.Store(config.AutoplayAllowed)
	s.state.Store(int32(StateSuspended))

	return s, nil
}

// Config returns the session's negotiated configuration.
func (s *Session) Config() Config {
	return s.config
}

// State returns the lifecycle state. Wait-free; safe from the render path.
func (s *Session) State() State {
	return State(s.state.Load())
}

// ---------------------------------------------------------------------------
// Lifecycle (control plane)
// ---------------------------------------------------------------------------

// Resume transitions Suspended → Running.
//
// While autoplay is disallowed it fails with ErrAutoplayBlocked, changes no
// state and may be retried after the host reports a qualifying gesture via
// SetAutoplayAllowed. Resuming a running session is a no-op; resuming
// during an interruption fails with ErrInterrupted.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.State() {
	case StateRunning:
		return nil
	case StateClosed:
		return ErrClosed
	case StateInterrupted:
		return ErrInterrupted
	}

	if !s.autoplay.Load() {
		return fmt.Errorf("%w: call SetAutoplayAllowed after a user gesture", ErrAutoplayBlocked)
	}

	s.state.Store(int32(StateRunning))
	return nil
}

// Suspend transitions Running → Suspended. On any other state it is a
// no-op: suspension of a suspended, interrupted or closed session has
// nothing to do.
func (s *Session) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == StateRunning {
		s.state.Store(int32(StateSuspended))
	}
}

// NotifyInterruption reports an external interruption boundary from the
// host transport (OS audio-session interruption, page backgrounding).
//
// Begin parks the session in StateInterrupted, remembering whether it was
// running or suspended; end restores that state. Both directions are
// idempotent: a repeated begin or end is absorbed without state thrash.
func (s *Session) NotifyInterruption(began bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.State()
	if began {
		if current == StateRunning || current == StateSuspended {
			s.resumeState = current
			s.state.Store(int32(StateInterrupted))
		}
		return
	}

	if current == StateInterrupted {
		s.state.Store(int32(s.resumeState))
	}
}

// Interrupted reports whether the session is currently held by an external
// interruption.
func (s *Session) Interrupted() bool {
	return s.State() == StateInterrupted
}

// SetAutoplayAllowed records the host's autoplay policy. Hosts call it with
// true once a qualifying user gesture has been observed, unblocking Resume.
func (s *Session) SetAutoplayAllowed(allowed bool) {
	s.autoplay.Store(allowed)
}

// AutoplayAllowed reports the current autoplay policy.
func (s *Session) AutoplayAllowed() bool {
	return s.autoplay.Load()
}

// Close shuts the session down. Closed is terminal: every later transfer
// returns 0 and every later lifecycle call fails or no-ops.
//
// The host transport must stop invoking the render callback before calling
// Close; the session does not manage that quiesce handshake itself.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Store(int32(StateClosed))
}

// ---------------------------------------------------------------------------
// Data plane
// ---------------------------------------------------------------------------

// WriteOutput feeds interleaved int16 samples from the emulated device into
// the output stream and returns the count accepted. Writes are never gated
// on the lifecycle state short of Closed: a suspended or interrupted
// session keeps absorbing device output until the ring is full, then drops.
//
// Device side only; see the package concurrency contract.
func (s *Session) WriteOutput(src []int16) int {
	if s.State() == StateClosed {
		return 0
	}
	return s.out.Write(src)
}

// PullOutput fills dst with buffered output samples for the host render
// callback and returns the count. When the session is not running it
// returns 0 without counting an underrun; a paused stream is paused, not
// failing. The host substitutes silence for whatever is not delivered.
//
// Host render side only.
func (s *Session) PullOutput(dst []float32) int {
	if s.State() != StateRunning {
		return 0
	}
	return s.out.Pull(dst)
}

// PushInput feeds captured samples from the host into the input stream and
// returns the count accepted. Returns 0 when input is disabled or the
// session is not running.
//
// Host capture side only.
func (s *Session) PushInput(src []float32) int {
	if s.in == nil || s.State() != StateRunning {
		return 0
	}
	return s.in.Push(src)
}

// ReadInput drains captured samples into dst as interleaved int16 with
// input gain applied, returning the count. A short count means no more
// data has arrived yet. Returns 0 when input is disabled or the session is
// closed; a suspended session may still be drained.
//
// Device side only.
func (s *Session) ReadInput(dst []int16) int {
	if s.in == nil || s.State() == StateClosed {
		return 0
	}
	return s.in.Read(dst)
}

// FreeOutputSpace returns the samples the output ring can accept right
// now. The device's rate-control layer polls this to pace production.
func (s *Session) FreeOutputSpace() int {
	return s.out.Free()
}

// AvailableInput returns the captured samples waiting to be read, or 0
// when input is disabled.
func (s *Session) AvailableInput() int {
	if s.in == nil {
		return 0
	}
	return s.in.Available()
}

// OutputLatency returns the playback delay represented by the samples
// currently buffered ahead of the host.
func (s *Session) OutputLatency() time.Duration {
	frames := s.config.SamplesToFrames(s.out.Buffered())
	return time.Duration(frames) * time.Second / time.Duration(s.config.SampleRate)
}

// ---------------------------------------------------------------------------
// Gain control (control plane)
// ---------------------------------------------------------------------------

// SetVolume sets the output volume per channel, each clamped to [0, 1].
// Takes effect on the next device write; no ramping is applied.
func (s *Session) SetVolume(left, right float32) {
	s.out.Gain().SetVolume(left, right)
}

// Volume returns the configured output volume, independent of mute.
func (s *Session) Volume() (left, right float32) {
	return s.out.Gain().Volume()
}

// SetMute mutes or unmutes the output without touching the configured
// volume; unmuting restores the previous level.
func (s *Session) SetMute(mute bool) {
	s.out.Gain().SetMute(mute)
}

// Muted reports the output mute flag.
func (s *Session) Muted() bool {
	return s.out.Gain().Muted()
}

// SetInputGain sets the capture gain, clamped to [0, 1]. No-op when input
// is disabled.
func (s *Session) SetInputGain(g float32) {
	if s.in == nil {
		return
	}
	s.in.Gain().SetGain(g)
}

// ---------------------------------------------------------------------------
// Observability
// ---------------------------------------------------------------------------

// Output returns the output endpoint for collaborators that need direct
// access to its counters.
func (s *Session) Output() *OutputStream {
	return s.out
}

// Input returns the input endpoint, or ErrInputDisabled when the session
// was opened without capture, the typed policy failure for callers that
// need to distinguish "no input configured" from "no data yet".
func (s *Session) Input() (*InputStream, error) {
	if s.in == nil {
		return nil, ErrInputDisabled
	}
	return s.in, nil
}

// Stats returns a snapshot of the session counters and state.
func (s *Session) Stats() Stats {
	outStats := s.out.Stats()

	st := Stats{
		SamplesPlayed: outStats.SamplesTransferred,
		Underruns:     outStats.Underruns,
		Overruns:      outStats.Overruns,
		State:         s.State(),
	}

	if s.in != nil {
		inStats := s.in.Stats()
		st.SamplesCaptured = inStats.SamplesTransferred
		st.Overruns += inStats.Overruns
	}

	return st
}
