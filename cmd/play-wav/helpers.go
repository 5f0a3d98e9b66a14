package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gonum.org/v1/gonum/stat"
)

const (
	bitDepth16    = 16
	pcmFormat     = 1 // WAV audio format tag for linear PCM
	maxInt16      = 32767.0
	fullScale     = 32768.0
	maxStereoChan = 2
)

// wavClip is a fully decoded WAV file as interleaved int16 samples.
type wavClip struct {
	samples    []int16
	sampleRate int
	channels   int
}

// loadWAV decodes a 16-bit PCM WAV file into memory.
func loadWAV(path string) (*wavClip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if dec.BitDepth != bitDepth16 {
		return nil, fmt.Errorf("unsupported bit depth %d (want 16-bit PCM)", dec.BitDepth)
	}
	if buf.Format.NumChannels > maxStereoChan {
		return nil, fmt.Errorf("unsupported channel count %d (want mono or stereo)", buf.Format.NumChannels)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}

	return &wavClip{
		samples:    samples,
		sampleRate: buf.Format.SampleRate,
		channels:   buf.Format.NumChannels,
	}, nil
}

func (c *wavClip) duration() time.Duration {
	frames := len(c.samples) / c.channels
	return time.Duration(frames) * time.Second / time.Duration(c.sampleRate)
}

// resampled converts the clip to a new rate with Catmull-Rom cubic
// interpolation per channel. Quick-quality rate adaptation is enough for a
// playback tool; the bridge itself always runs at a single negotiated rate.
func (c *wavClip) resampled(targetRate int) *wavClip {
	srcFrames := len(c.samples) / c.channels
	dstFrames := int(float64(srcFrames) * float64(targetRate) / float64(c.sampleRate))
	dst := make([]int16, dstFrames*c.channels)

	step := float64(c.sampleRate) / float64(targetRate)
	for ch := 0; ch < c.channels; ch++ {
		for i := 0; i < dstFrames; i++ {
			pos := float64(i) * step
			frame := int(pos)
			frac := float32(pos - float64(frame))

			y0 := c.frameSample(frame-1, ch)
			y1 := c.frameSample(frame, ch)
			y2 := c.frameSample(frame+1, ch)
			y3 := c.frameSample(frame+2, ch)

			v := cubicInterpolate(y0, y1, y2, y3, frac)
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			dst[i*c.channels+ch] = int16(v * maxInt16)
		}
	}

	return &wavClip{samples: dst, sampleRate: targetRate, channels: c.channels}
}

// frameSample returns the normalized sample for one channel of one frame,
// clamping frame indices at the clip edges.
func (c *wavClip) frameSample(frame, ch int) float32 {
	last := len(c.samples)/c.channels - 1
	if frame < 0 {
		frame = 0
	} else if frame > last {
		frame = last
	}
	return float32(c.samples[frame*c.channels+ch]) / fullScale
}

// cubicInterpolate evaluates a Catmull-Rom spline at fractional position x
// between y1 and y2.
func cubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}

// printAnalysis summarizes the source signal level before playback.
func printAnalysis(c *wavClip) {
	normalized := make([]float64, len(c.samples))
	peak := 0.0
	for i, s := range c.samples {
		v := float64(s) / fullScale
		normalized[i] = v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	mean, std := stat.MeanStdDev(normalized, nil)
	fmt.Printf("source: peak %.3f, DC offset %+.5f, stddev %.3f\n", peak, mean, std)
}

// wavWriter encodes pulled float32 frames back to a 16-bit PCM WAV file.
type wavWriter struct {
	f   *os.File
	enc *wav.Encoder
	buf *audio.IntBuffer
}

func newWAVWriter(path string, sampleRate, channels int) (*wavWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &wavWriter{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, bitDepth16, channels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth16,
		},
	}, nil
}

func (w *wavWriter) write(frames []float32) error {
	if cap(w.buf.Data) < len(frames) {
		w.buf.Data = make([]int, len(frames))
	}
	w.buf.Data = w.buf.Data[:len(frames)]

	for i, v := range frames {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		w.buf.Data[i] = int(v * maxInt16)
	}

	return w.enc.Write(w.buf)
}

func (w *wavWriter) close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
