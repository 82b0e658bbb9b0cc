// ABOUTME: WAV audio decoder
// ABOUTME: Decodes integer PCM via go-audio/wav and IEEE float WAV chunks to mono float samples
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Sendspin/chunkstream/pkg/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// Tail shared by every KSDATAFORMAT_SUBTYPE GUID; the first two bytes carry the format tag
var wavSubformatSuffix = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// WAVDecoder decodes RIFF/WAVE chunks
type WAVDecoder struct{}

// NewWAV creates a WAV decoder
func NewWAV() *WAVDecoder {
	return &WAVDecoder{}
}

// Decode converts WAV bytes to mono float samples
func (d *WAVDecoder) Decode(data []byte) (Decoded, error) {
	hdr, err := parseWAVHeader(data)
	if err != nil {
		return Decoded{}, newDecodeError("wav", err)
	}

	switch hdr.format {
	case wavFormatPCM:
		return decodeIntWAV(data)
	case wavFormatFloat:
		return decodeFloatWAV(hdr)
	default:
		return Decoded{}, newDecodeError("wav", fmt.Errorf("unsupported wav audio format 0x%x", hdr.format))
	}
}

// decodeIntWAV reads integer PCM through go-audio/wav
func decodeIntWAV(data []byte) (Decoded, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return Decoded{}, newDecodeError("wav", dec.Err())
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Decoded{}, newDecodeError("wav", err)
	}
	if buf == nil || buf.Format == nil {
		return Decoded{}, newDecodeError("wav", errors.New("missing format chunk"))
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return Decoded{}, newDecodeError("wav", fmt.Errorf("invalid channel count %d", channels))
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			samples[i] = audio.SampleFromUint8(v)
		} else {
			samples[i] = audio.SampleFromInt(v, bitDepth)
		}
	}

	return Decoded{
		Samples: audio.Downmix(samples, channels),
		Format: audio.Format{
			Codec:      string(ContainerWAV),
			SampleRate: buf.Format.SampleRate,
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}

// decodeFloatWAV reads little-endian float32 or float64 samples
func decodeFloatWAV(hdr wavHeader) (Decoded, error) {
	if hdr.channels <= 0 {
		return Decoded{}, newDecodeError("wav", fmt.Errorf("invalid channel count %d", hdr.channels))
	}

	var samples []float32
	switch hdr.bitDepth {
	case 32:
		samples = make([]float32, len(hdr.data)/4)
		for i := range samples {
			samples[i] = audio.Clamp(math.Float32frombits(binary.LittleEndian.Uint32(hdr.data[i*4:])))
		}
	case 64:
		samples = make([]float32, len(hdr.data)/8)
		for i := range samples {
			samples[i] = audio.Clamp(float32(math.Float64frombits(binary.LittleEndian.Uint64(hdr.data[i*8:]))))
		}
	default:
		return Decoded{}, newDecodeError("wav", fmt.Errorf("unsupported float bit depth %d", hdr.bitDepth))
	}

	return Decoded{
		Samples: audio.Downmix(samples, hdr.channels),
		Format: audio.Format{
			Codec:      string(ContainerWAV),
			SampleRate: hdr.sampleRate,
			Channels:   hdr.channels,
			BitDepth:   hdr.bitDepth,
		},
	}, nil
}

// wavHeader is the fmt chunk plus the data chunk body
type wavHeader struct {
	format     uint16 // effective tag; extensible headers resolve to their subformat
	channels   int
	sampleRate int
	bitDepth   int
	data       []byte
}

// parseWAVHeader walks the RIFF chunks in memory. go-audio/wav does not
// expose the extensible subformat, so the tag is resolved here.
func parseWAVHeader(data []byte) (wavHeader, error) {
	var hdr wavHeader
	if len(data) < 12 || !bytes.Equal(data[0:4], magicRIFF) || !bytes.Equal(data[8:12], magicWAVE) {
		return hdr, errors.New("not a RIFF/WAVE file")
	}

	var haveFmt, haveData bool
	pos := 12
	for pos+8 <= len(data) && !(haveFmt && haveData) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := data[pos+8:]
		if size < 0 || size > len(body) {
			// Streamed WAVs often leave the data size unset
			size = len(body)
		}
		body = body[:size]

		switch id {
		case "fmt ":
			if size < 16 {
				return hdr, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			hdr.format = binary.LittleEndian.Uint16(body[0:2])
			hdr.channels = int(binary.LittleEndian.Uint16(body[2:4]))
			hdr.sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			hdr.bitDepth = int(binary.LittleEndian.Uint16(body[14:16]))
			if hdr.format == wavFormatExtensible {
				if size < 40 || !bytes.Equal(body[26:40], wavSubformatSuffix) {
					return hdr, errors.New("unrecognized extensible wav subformat")
				}
				hdr.format = binary.LittleEndian.Uint16(body[24:26])
			}
			haveFmt = true
		case "data":
			hdr.data = body
			haveData = true
		}

		// Chunks are word aligned
		pos += 8 + size + size&1
	}

	if !haveFmt {
		return hdr, errors.New("missing fmt chunk")
	}
	if !haveData {
		return hdr, errors.New("missing data chunk")
	}
	return hdr, nil
}
