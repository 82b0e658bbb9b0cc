// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes whole Ogg Opus chunks to mono float samples via libopusfile
package decode

import (
	"bytes"
	"io"

	"github.com/Sendspin/chunkstream/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

const (
	// opusfile always decodes at 48kHz
	opusSampleRate = 48000

	// 120ms, the longest Opus frame
	opusMaxFrameSamples = 5760
)

// OpusDecoder decodes Ogg Opus chunks
type OpusDecoder struct{}

// NewOpus creates an Ogg Opus decoder
func NewOpus() *OpusDecoder {
	return &OpusDecoder{}
}

// Decode converts Ogg Opus bytes to mono float samples
func (d *OpusDecoder) Decode(data []byte) (Decoded, error) {
	channels := opusChannels(data)

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return Decoded{}, newDecodeError("opus", err)
	}
	defer stream.Close()

	buf := make([]float32, opusMaxFrameSamples*channels)
	var pcm []float32
	for {
		// n is samples per channel
		n, err := stream.ReadFloat32(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Decoded{}, newDecodeError("opus", err)
		}
		pcm = append(pcm, buf[:n*channels]...)
	}

	return Decoded{
		Samples: audio.Downmix(pcm, channels),
		Format: audio.Format{
			Codec:      string(ContainerOpus),
			SampleRate: opusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}

// opusChannels reads the channel count from the OpusHead identification
// header: magic(8) version(1) channels(1)
func opusChannels(data []byte) int {
	idx := bytes.Index(data, magicOpusHead)
	if idx < 0 || idx+9 >= len(data) {
		return 1
	}
	channels := int(data[idx+9])
	if channels < 1 {
		return 1
	}
	return channels
}
