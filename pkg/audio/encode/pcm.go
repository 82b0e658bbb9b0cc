// ABOUTME: Raw PCM encoder
// ABOUTME: Encodes float samples to little-endian signed 16-bit bytes
package encode

import (
	"encoding/binary"
	"math"

	"github.com/Sendspin/chunkstream/pkg/audio"
)

// SampleToInt16 scales a [-1, 1] sample by 32768, clamping to the int16 range
func SampleToInt16(sample float32) int16 {
	v := math.Round(float64(audio.Clamp(sample)) * audio.Int16Scale)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// RawPCM encodes mono samples as little-endian int16
func RawPCM(samples []float32) []byte {
	output := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(SampleToInt16(sample)))
	}
	return output
}
