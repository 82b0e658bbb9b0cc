// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes whole Ogg Vorbis chunks to mono float samples
package decode

import (
	"bytes"

	"github.com/Sendspin/chunkstream/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis chunks
type VorbisDecoder struct{}

// NewVorbis creates an Ogg Vorbis decoder
func NewVorbis() *VorbisDecoder {
	return &VorbisDecoder{}
}

// Decode converts Ogg Vorbis bytes to mono float samples
func (d *VorbisDecoder) Decode(data []byte) (Decoded, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return Decoded{}, newDecodeError("vorbis", err)
	}

	return Decoded{
		Samples: audio.Downmix(samples, format.Channels),
		Format: audio.Format{
			Codec:      string(ContainerVorbis),
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   32,
		},
	}, nil
}
