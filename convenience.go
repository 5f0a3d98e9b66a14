package audiobridge

// Common sample rates for convenience constructors.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate, native for most host audio
	// stacks.
	RateDAT = 48000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// OpenDefault opens a playback-only stereo session at 48 kHz with the
// default ring capacity.
func OpenDefault() (*Session, error) {
	return Open(&Config{
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
	})
}

// OpenStereo opens a playback-only stereo session at the given rate.
func OpenStereo(sampleRate int) (*Session, error) {
	return Open(&Config{
		SampleRate: sampleRate,
		Channels:   stereoChannels,
	})
}

// OpenMono opens a playback-only mono session at the given rate.
func OpenMono(sampleRate int) (*Session, error) {
	return Open(&Config{
		SampleRate: sampleRate,
		Channels:   monoChannels,
	})
}

// OpenDuplex opens a session with both playback and capture at the given
// rate and channel count.
func OpenDuplex(sampleRate, channels int) (*Session, error) {
	return Open(&Config{
		SampleRate:  sampleRate,
		Channels:    channels,
		EnableInput: true,
	})
}
