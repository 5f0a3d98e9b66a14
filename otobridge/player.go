// Package otobridge connects an audiobridge session to the local audio
// hardware through the oto library.
//
// It plays the host-transport role: oto's playback goroutine is the
// real-time consumer, pulling from the session's output stream on the audio
// clock and inserting silence for whatever the session cannot deliver. The
// pull path takes no locks and performs no allocation after setup.
package otobridge

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	audiobridge "github.com/tphakala/go-audio-bridge"
)

const (
	// bytesPerSample is the wire size of one float32 PCM sample.
	bytesPerSample = 4

	// pullBufferSamples pre-sizes the read-callback pull buffer. oto asks
	// for a few KB per read; 8192 samples covers every period length seen
	// across its backends so the callback never allocates.
	pullBufferSamples = 8192
)

// Player renders a session's output stream to the default audio device.
//
// The session pointer is atomic so the oto read callback never takes a
// lock; the mutex covers only setup and control operations.
type Player struct {
	ctx     *oto.Context
	player  *oto.Player
	session atomic.Pointer[audiobridge.Session]

	// Pre-allocated pull buffer for the read callback.
	pullBuf []float32

	started bool
	mutex   sync.Mutex
}

// New creates a player for the session's negotiated format and blocks until
// the audio hardware is ready. The player starts paused; call Start once
// the session is running.
func New(session *audiobridge.Session) (*Player, error) {
	config := session.Config()

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &Player{
		ctx:     ctx,
		pullBuf: make([]float32, pullBufferSamples),
	}
	p.session.Store(session)
	p.player = ctx.NewPlayer(p)

	return p, nil
}

// Read implements io.Reader for oto: each call is one render-callback
// period on the host audio clock. The shortfall between what the session
// delivers and what the hardware wants is filled with silence here, on the
// host side, never inside the session.
func (p *Player) Read(buf []byte) (int, error) {
	session := p.session.Load()
	if session == nil {
		clear(buf)
		return len(buf), nil
	}

	numSamples := len(buf) / bytesPerSample
	if len(p.pullBuf) < numSamples {
		// Should not happen after New; resize outside steady state only.
		p.pullBuf = make([]float32, numSamples)
	}
	samples := p.pullBuf[:numSamples]

	n := session.PullOutput(samples)
	clear(samples[n:])

	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*bytesPerSample:], math.Float32bits(s))
	}
	return numSamples * bytesPerSample, nil
}

// Start begins hardware playback. Idempotent.
func (p *Player) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

// Stop pauses hardware playback without releasing the device. Idempotent.
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.started && p.player != nil {
		p.player.Pause()
		p.started = false
	}
}

// Close stops playback and detaches from the session. Call Close before
// closing the session so the render side is quiesced first.
func (p *Player) Close() error {
	p.Stop()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.session.Store(nil)
	if p.player != nil {
		err := p.player.Close()
		p.player = nil
		return err
	}
	return nil
}

// IsStarted reports whether hardware playback is active.
func (p *Player) IsStarted() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.started
}
