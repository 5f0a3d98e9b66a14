package audiobridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-bridge/internal/testutil"
)

func newRunningSession(t *testing.T, config *Config) *Session {
	t.Helper()
	s, err := Open(config)
	require.NoError(t, err)
	s.SetAutoplayAllowed(true)
	require.NoError(t, s.Resume())
	return s
}

func TestOpen_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"NilConfig", nil},
		{"ZeroSampleRate", &Config{Channels: 2}},
		{"NegativeSampleRate", &Config{SampleRate: -44100, Channels: 2}},
		{"ZeroChannels", &Config{SampleRate: 48000}},
		{"TooManyChannels", &Config{SampleRate: 48000, Channels: 3}},
		{"NonPowerOfTwoCapacity", &Config{SampleRate: 48000, Channels: 2, BufferCapacity: 1000}},
		{"TinyCapacity", &Config{SampleRate: 48000, Channels: 2, BufferCapacity: 32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.config)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestOpen_StartsSuspended(t *testing.T) {
	s, err := OpenDefault()
	require.NoError(t, err)
	assert.Equal(t, StateSuspended, s.State())
	assert.Equal(t, DefaultSampleRate, s.Config().SampleRate)
	assert.Equal(t, DefaultChannels, s.Config().Channels)
}

// TestResume_AutoplayGating covers the documented retry scenario: a blocked
// resume fails without changing state and succeeds once the gesture
// arrives.
func TestResume_AutoplayGating(t *testing.T) {
	s, err := OpenDefault()
	require.NoError(t, err)

	err = s.Resume()
	require.ErrorIs(t, err, ErrAutoplayBlocked)
	assert.Equal(t, StateSuspended, s.State(), "failed resume must not change state")

	// Retry after the host reports a qualifying gesture.
	s.SetAutoplayAllowed(true)
	require.NoError(t, s.Resume())
	assert.Equal(t, StateRunning, s.State())
}

func TestResume_Idempotent(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2})

	require.NoError(t, s.Resume())
	assert.Equal(t, StateRunning, s.State())
}

func TestSuspend(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2})

	s.Suspend()
	assert.Equal(t, StateSuspended, s.State())

	// Idempotent.
	s.Suspend()
	assert.Equal(t, StateSuspended, s.State())
}

// TestNotifyInterruption_Idempotent verifies a doubled begin event is
// absorbed and a single end restores the pre-interruption state.
func TestNotifyInterruption_Idempotent(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2})

	s.NotifyInterruption(true)
	assert.Equal(t, StateInterrupted, s.State())
	assert.True(t, s.Interrupted())

	s.NotifyInterruption(true)
	assert.Equal(t, StateInterrupted, s.State(), "repeated begin must not thrash")

	s.NotifyInterruption(false)
	assert.Equal(t, StateRunning, s.State(), "end restores the interrupted state")

	s.NotifyInterruption(false)
	assert.Equal(t, StateRunning, s.State(), "repeated end is a no-op")
}

func TestNotifyInterruption_FromSuspended(t *testing.T) {
	s, err := OpenDefault()
	require.NoError(t, err)

	s.NotifyInterruption(true)
	assert.Equal(t, StateInterrupted, s.State())

	// Resume during an interruption is not a defined transition.
	s.SetAutoplayAllowed(true)
	assert.ErrorIs(t, s.Resume(), ErrInterrupted)

	s.NotifyInterruption(false)
	assert.Equal(t, StateSuspended, s.State(), "end restores suspension, not playback")
}

func TestClose_Terminal(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2})

	s.Close()
	assert.Equal(t, StateClosed, s.State())

	assert.ErrorIs(t, s.Resume(), ErrClosed)
	assert.Equal(t, 0, s.WriteOutput([]int16{1, 2, 3, 4}))
	assert.Equal(t, 0, s.PullOutput(make([]float32, 4)))
	assert.Equal(t, 0, s.ReadInput(make([]int16, 4)))

	s.Suspend()
	assert.Equal(t, StateClosed, s.State())
}

// TestMute_EndToEnd covers the documented scenario: muted writes surface as
// silence on the render side and unmuting restores the configured volume
// without another SetVolume call.
func TestMute_EndToEnd(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2, BufferCapacity: 1024})

	s.SetVolume(0.5, 0.5)
	s.SetMute(true)

	src := testutil.SineInt16(256, 440, RateDAT, 16000)
	require.Equal(t, len(src), s.WriteOutput(src))

	dst := make([]float32, len(src))
	require.Equal(t, len(dst), s.PullOutput(dst))
	testutil.AssertAllZero(t, dst)

	// Unmute: the previously configured volume applies again.
	s.SetMute(false)
	assert.False(t, s.Muted())
	left, right := s.Volume()
	assert.Equal(t, float32(0.5), left)
	assert.Equal(t, float32(0.5), right)

	require.Equal(t, len(src), s.WriteOutput(src))
	require.Equal(t, len(dst), s.PullOutput(dst))

	nonZero := 0
	for _, v := range dst {
		if v != 0 {
			nonZero++
		}
	}
	assert.Positive(t, nonZero, "unmuted audio should pass through")
	testutil.AssertAllInRange(t, dst, -0.5, 0.5)
}

// TestPullOutput_UnderrunAccounting verifies short render pulls count as
// underruns while the session runs, and that a paused session pulls
// nothing without counting failures.
func TestPullOutput_UnderrunAccounting(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2, BufferCapacity: 256})

	dst := make([]float32, 128)
	assert.Equal(t, 0, s.PullOutput(dst))
	assert.Equal(t, uint64(1), s.Stats().Underruns)

	s.Suspend()
	assert.Equal(t, 0, s.PullOutput(dst))
	assert.Equal(t, uint64(1), s.Stats().Underruns, "a paused stream is not failing")

	s.NotifyInterruption(true)
	assert.Equal(t, 0, s.PullOutput(dst))
	assert.Equal(t, uint64(1), s.Stats().Underruns)
}

func TestWriteOutput_WhileSuspended(t *testing.T) {
	s, err := Open(&Config{SampleRate: RateDAT, Channels: 2, BufferCapacity: 256})
	require.NoError(t, err)

	// The ring keeps absorbing device output while the host is paused.
	n := s.WriteOutput(make([]int16, 100))
	assert.Equal(t, 100, n)
	assert.Equal(t, 100, s.Output().Buffered())
}

func TestInput_Disabled(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2})

	_, err := s.Input()
	assert.ErrorIs(t, err, ErrInputDisabled)
	assert.Equal(t, 0, s.PushInput(make([]float32, 16)))
	assert.Equal(t, 0, s.ReadInput(make([]int16, 16)))
	assert.Equal(t, 0, s.AvailableInput())

	// No-op, must not panic.
	s.SetInputGain(0.5)
}

func TestInput_Duplex(t *testing.T) {
	s, err := OpenDuplex(RateVoIP, 1)
	require.NoError(t, err)
	s.SetAutoplayAllowed(true)
	require.NoError(t, s.Resume())

	captured := []float32{0.5, -0.5, 0.25, -0.25}
	require.Equal(t, len(captured), s.PushInput(captured))
	assert.Equal(t, len(captured), s.AvailableInput())

	dst := make([]int16, 8)
	n := s.ReadInput(dst)
	require.Equal(t, len(captured), n, "partial read reports what is available")
	assert.Equal(t, int16(16384), dst[0])
	assert.Equal(t, int16(-16384), dst[1])

	stats := s.Stats()
	assert.Equal(t, uint64(len(captured)), stats.SamplesCaptured)
}

func TestInput_GainAppliedOnRead(t *testing.T) {
	s, err := OpenDuplex(RateVoIP, 1)
	require.NoError(t, err)
	s.SetAutoplayAllowed(true)
	require.NoError(t, s.Resume())

	s.SetInputGain(0.5)
	require.Equal(t, 2, s.PushInput([]float32{1.0, -1.0}))

	dst := make([]int16, 2)
	require.Equal(t, 2, s.ReadInput(dst))
	assert.InDelta(t, 16384, dst[0], 1)
	assert.InDelta(t, -16384, dst[1], 1)
}

func TestStats_Snapshot(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2, BufferCapacity: 128, EnableInput: true})

	s.WriteOutput(make([]int16, 100))
	s.PullOutput(make([]float32, 50))
	s.PushInput(make([]float32, 30))

	stats := s.Stats()
	assert.Equal(t, uint64(100), stats.SamplesPlayed)
	assert.Equal(t, uint64(30), stats.SamplesCaptured)
	assert.Equal(t, StateRunning, stats.State)
	assert.Zero(t, stats.Underruns)
	assert.Zero(t, stats.Overruns)
}

func TestOutputLatency(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: 48000, Channels: 2, BufferCapacity: 16384})

	assert.Zero(t, s.OutputLatency())

	// 4800 stereo samples = 2400 frames = 50 ms at 48 kHz.
	s.WriteOutput(make([]int16, 4800))
	assert.Equal(t, 50*time.Millisecond, s.OutputLatency())
}

func TestFreeOutputSpace_Pacing(t *testing.T) {
	s := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2, BufferCapacity: 128})

	assert.Equal(t, 127, s.FreeOutputSpace())
	s.WriteOutput(make([]int16, 100))
	assert.Equal(t, 27, s.FreeOutputSpace())
}

// TestSessions_Isolated verifies two sessions share no state.
func TestSessions_Isolated(t *testing.T) {
	a := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2, BufferCapacity: 256})
	b := newRunningSession(t, &Config{SampleRate: RateDAT, Channels: 2, BufferCapacity: 256})

	a.WriteOutput(make([]int16, 64))
	a.SetMute(true)
	a.NotifyInterruption(true)

	assert.Equal(t, StateRunning, b.State())
	assert.False(t, b.Muted())
	assert.Zero(t, b.Output().Buffered())
	assert.Equal(t, uint64(0), b.Stats().SamplesPlayed)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "suspended", StateSuspended.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "interrupted", StateInterrupted.String())
	assert.Equal(t, "unknown", State(99).String())
}
