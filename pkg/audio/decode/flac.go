// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes whole FLAC chunks frame by frame to mono float samples
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Sendspin/chunkstream/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC chunks
type FLACDecoder struct{}

// NewFLAC creates a FLAC decoder
func NewFLAC() *FLACDecoder {
	return &FLACDecoder{}
}

// Decode converts FLAC bytes to mono float samples
func (d *FLACDecoder) Decode(data []byte) (Decoded, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return Decoded{}, newDecodeError("flac", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	if channels <= 0 {
		return Decoded{}, newDecodeError("flac", fmt.Errorf("invalid channel count %d", channels))
	}

	var samples []float32
	if info.NSamples > 0 {
		samples = make([]float32, 0, int(info.NSamples))
	}

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Decoded{}, newDecodeError("flac", err)
		}

		// Subframes are planar; fold them to mono as we go
		for i := 0; i < int(frame.BlockSize); i++ {
			var sum float32
			for ch := 0; ch < channels; ch++ {
				sum += audio.SampleFromInt(int(frame.Subframes[ch].Samples[i]), bitDepth)
			}
			samples = append(samples, sum/float32(channels))
		}
	}

	return Decoded{
		Samples: samples,
		Format: audio.Format{
			Codec:      string(ContainerFLAC),
			SampleRate: int(info.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}
