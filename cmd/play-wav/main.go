// Command play-wav streams a WAV file through an audio bridge session.
//
// Usage:
//
//	play-wav input.wav                  # play on the default device
//	play-wav -volume 0.5 input.wav      # at half volume
//	play-wav -rate 48000 input.wav      # resample the file to 48 kHz first
//	play-wav -o rendered.wav input.wav  # render through the bridge to a file
//
// The tool plays both collaborator roles around the bridge: it paces device
// writes the way an emulated sound device would (polling free space,
// backing off when the ring is full) while oto pulls on the real audio
// clock. With -o, a simulated render loop drains to a WAV file instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	audiobridge "github.com/tphakala/go-audio-bridge"
	"github.com/tphakala/go-audio-bridge/otobridge"
)

const (
	// writeChunkSamples is the per-iteration device write size.
	writeChunkSamples = 2048

	// pacingInterval is how long the producer backs off when the ring has
	// no room, standing in for the emulated device's rate control.
	pacingInterval = 5 * time.Millisecond

	// drainPollInterval is how often the tail drain checks the ring.
	drainPollInterval = 20 * time.Millisecond

	// renderChunkSamples is the simulated callback period for -o mode.
	renderChunkSamples = 1024

	minRequiredArgs = 1
)

func main() {
	volume := flag.Float64("volume", 1.0, "output volume 0.0-1.0")
	targetRate := flag.Int("rate", 0, "resample the file to this rate before playback (0 = keep file rate)")
	outPath := flag.String("o", "", "render to a WAV file instead of the audio device")
	quiet := flag.Bool("quiet", false, "skip source signal analysis")
	flag.Parse()

	if flag.NArg() < minRequiredArgs {
		fmt.Fprintln(os.Stderr, "usage: play-wav [flags] input.wav")
		flag.PrintDefaults()
		os.Exit(2)
	}

	clip, err := loadWAV(flag.Arg(0))
	if err != nil {
		log.Fatalf("load %s: %v", flag.Arg(0), err)
	}
	fmt.Printf("%s: %d Hz, %d channel(s), %d samples (%.2fs)\n",
		flag.Arg(0), clip.sampleRate, clip.channels, len(clip.samples),
		clip.duration().Seconds())

	if !*quiet {
		printAnalysis(clip)
	}

	if *targetRate != 0 && *targetRate != clip.sampleRate {
		clip = clip.resampled(*targetRate)
		fmt.Printf("resampled to %d Hz (%d samples)\n", clip.sampleRate, len(clip.samples))
	}

	session, err := audiobridge.Open(&audiobridge.Config{
		SampleRate:      clip.sampleRate,
		Channels:        clip.channels,
		AutoplayAllowed: true, // a CLI invocation is its own user gesture
	})
	if err != nil {
		log.Fatalf("open session: %v", err)
	}
	defer session.Close()

	session.SetVolume(float32(*volume), float32(*volume))
	if err := session.Resume(); err != nil {
		log.Fatalf("resume: %v", err)
	}

	if *outPath != "" {
		err = renderToFile(session, clip, *outPath)
	} else {
		err = playOnDevice(session, clip)
	}
	if err != nil {
		log.Fatal(err)
	}

	stats := session.Stats()
	fmt.Printf("done: %d samples played, %d underruns, %d overruns\n",
		stats.SamplesPlayed, stats.Underruns, stats.Overruns)
}

// playOnDevice streams the clip to the default audio device, pacing writes
// against the ring's free space.
func playOnDevice(session *audiobridge.Session, clip *wavClip) error {
	player, err := otobridge.New(session)
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	defer player.Close()

	player.Start()

	remaining := clip.samples
	for len(remaining) > 0 {
		chunk := remaining
		if len(chunk) > writeChunkSamples {
			chunk = chunk[:writeChunkSamples]
		}

		n := session.WriteOutput(chunk)
		remaining = remaining[n:]
		if n < len(chunk) {
			time.Sleep(pacingInterval)
		}
	}

	// Let the device drain what is still buffered.
	for session.Output().Buffered() > 0 {
		time.Sleep(drainPollInterval)
	}
	time.Sleep(session.OutputLatency() + drainPollInterval)

	return nil
}

// renderToFile drives the render side itself with a simulated callback
// loop, writing what a real host would have played to a WAV file.
func renderToFile(session *audiobridge.Session, clip *wavClip, path string) error {
	out, err := newWAVWriter(path, clip.sampleRate, clip.channels)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	remaining := clip.samples
	pull := make([]float32, renderChunkSamples)

	for len(remaining) > 0 || session.Output().Buffered() > 0 {
		// Respect the ring's pacing signal like a real device would, so the
		// render loop below is what drives progress.
		if len(remaining) > 0 && session.FreeOutputSpace() >= writeChunkSamples {
			chunk := remaining
			if len(chunk) > writeChunkSamples {
				chunk = chunk[:writeChunkSamples]
			}
			remaining = remaining[session.WriteOutput(chunk):]
		}

		n := session.PullOutput(pull)
		// The host role: substitute silence for any shortfall.
		clear(pull[n:])
		if err := out.write(pull); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	return out.close()
}
