package audiobridge

// Channel constants
const (
	monoChannels   = 1 // Mono channel count
	stereoChannels = 2 // Stereo channel count

	// maxChannels caps the negotiated channel count. The bridge carries one
	// output and one input stream; surround layouts are out of scope.
	maxChannels = stereoChannels
)

// Default stream configuration, matching common host audio graphs.
const (
	// DefaultSampleRate is used by the convenience constructors (48 kHz,
	// the rate most host audio stacks run at natively).
	DefaultSampleRate = RateDAT

	// DefaultChannels is interleaved stereo.
	DefaultChannels = stereoChannels

	// DefaultBufferCapacity is the ring capacity in samples. At 48 kHz
	// stereo this is ~170 ms, comfortably more than twice the largest
	// per-callback transfer of typical hosts, which is the headroom needed
	// to ride out worst-case scheduling jitter between the two clocks.
	DefaultBufferCapacity = 16384

	// minBufferCapacity rejects rings too small to absorb even a single
	// small render callback without immediate underruns.
	minBufferCapacity = 64
)
