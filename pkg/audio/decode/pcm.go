// ABOUTME: Raw PCM fallback decoder
// ABOUTME: Interprets bytes as little-endian signed 16-bit mono samples
package decode

import (
	"encoding/binary"

	"github.com/Sendspin/chunkstream/pkg/audio"
)

// DecodeRawPCM reads data as little-endian int16 samples divided by 32768.
// Odd-length input fails with a *PCMError.
func DecodeRawPCM(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, &PCMError{Length: len(data)}
	}

	numSamples := len(data) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}
	return samples, nil
}
