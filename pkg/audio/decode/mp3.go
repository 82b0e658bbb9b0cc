// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes whole MP3 chunks to mono float samples
package decode

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/Sendspin/chunkstream/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 chunks
type MP3Decoder struct{}

// NewMP3 creates an MP3 decoder
func NewMP3() *MP3Decoder {
	return &MP3Decoder{}
}

// Decode converts MP3 bytes to mono float samples
func (d *MP3Decoder) Decode(data []byte) (Decoded, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Decoded{}, newDecodeError("mp3", err)
	}

	// go-mp3 always yields 16-bit little-endian stereo
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return Decoded{}, newDecodeError("mp3", err)
	}

	numSamples := len(pcm) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	return Decoded{
		Samples: audio.Downmix(samples, 2),
		Format: audio.Format{
			Codec:      string(ContainerMP3),
			SampleRate: decoder.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
	}, nil
}
