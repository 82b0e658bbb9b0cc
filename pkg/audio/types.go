// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded chunk formats and float sample conversions
package audio

const (
	// Int16Scale is the divisor that maps signed 16-bit PCM onto [-1.0, 1.0)
	Int16Scale = 32768.0

	// DefaultSampleRate is the output rate used when none is configured
	DefaultSampleRate = 48000
)

// Format describes a decoded chunk
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// SampleFromInt16 converts a signed 16-bit sample to a normalized float
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / Int16Scale
}

// SampleFromInt converts a signed integer sample of the given bit depth to a
// normalized float
func SampleFromInt(sample int, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	scale := float64(int64(1) << uint(bitDepth-1))
	return Clamp(float32(float64(sample) / scale))
}

// SampleFromUint8 converts an unsigned 8-bit sample (WAV convention) to a
// normalized float
func SampleFromUint8(sample int) float32 {
	return float32(sample-128) / 128.0
}

// Clamp limits a sample to [-1.0, 1.0]
func Clamp(sample float32) float32 {
	if sample > 1.0 {
		return 1.0
	}
	if sample < -1.0 {
		return -1.0
	}
	return sample
}

// Downmix averages interleaved multichannel samples into a single channel.
// Mono input is returned as-is; a trailing partial frame is discarded.
func Downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// DurationSamples returns how many samples cover ms milliseconds at sampleRate
func DurationSamples(sampleRate, ms int) int {
	return sampleRate * ms / 1000
}

// SamplesToMs converts a sample count at sampleRate into milliseconds
func SamplesToMs(samples, sampleRate int) int {
	if sampleRate <= 0 {
		return 0
	}
	return samples * 1000 / sampleRate
}
