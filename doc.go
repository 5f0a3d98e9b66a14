// Package audiobridge streams PCM audio between an emulated sound device
// and a host real-time audio callback without locks or allocation on the
// data path.
//
// The two sides advance on independent clocks: the emulated device produces
// samples at guest-virtual-time pace while the host render callback pulls
// them at the audio hardware's fixed period. Each direction is bridged by a
// lock-free single-producer/single-consumer ring buffer with bounded,
// predictable behavior when the clocks drift: excess output is dropped and
// counted as an overrun, a shortfall on the render side is counted as an
// underrun and filled with silence by the host collaborator.
//
// # Features
//
//   - Lock-free SPSC ring buffers, power-of-two sized, wait-free operations
//   - int16 device frames converted to normalized float32 host frames
//   - Per-channel volume, mute and input gain applied without locking
//   - Session lifecycle state machine with autoplay gating and
//     interruption handling driven by host transport events
//   - Transfer, underrun and overrun counters for observability
//   - No allocation and no blocking on the real-time path
//
// # Quick Start
//
//	session, err := audiobridge.Open(&audiobridge.Config{
//	    SampleRate: audiobridge.RateDAT,
//	    Channels:   2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	session.SetAutoplayAllowed(true)
//	if err := session.Resume(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Emulated device, guest clock:
//	accepted := session.WriteOutput(deviceFrames) // []int16, interleaved
//
//	// Host render callback, audio clock:
//	n := session.PullOutput(callbackBuf) // []float32, interleaved
//	clear(callbackBuf[n:])               // host inserts silence on shortfall
//
// # Concurrency Contract
//
// Exactly one goroutine may call WriteOutput/ReadInput (the device side)
// and exactly one may call PullOutput/PushInput (the host side). Control
// methods (volume, mute, lifecycle) may be called from any goroutine;
// the data path observes them through single-word atomic reads.
//
// Teardown ordering is the host's responsibility: stop invoking the render
// callback before calling Close. The session does not manage that
// handshake itself.
package audiobridge
