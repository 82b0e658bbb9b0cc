// ABOUTME: Format-sniffing decoder
// ABOUTME: Routes each chunk to the decoder for its container and isolates decoder panics
package decode

import "fmt"

// Auto decodes any supported container by sniffing its magic bytes
type Auto struct {
	decoders map[Container]Decoder
}

// NewAuto creates a decoder covering WAV, FLAC, MP3, Ogg Vorbis and Ogg Opus
func NewAuto() *Auto {
	return &Auto{
		decoders: map[Container]Decoder{
			ContainerWAV:    NewWAV(),
			ContainerFLAC:   NewFLAC(),
			ContainerMP3:    NewMP3(),
			ContainerVorbis: NewVorbis(),
			ContainerOpus:   NewOpus(),
		},
	}
}

// Register replaces or adds the decoder used for a container
func (a *Auto) Register(c Container, d Decoder) {
	a.decoders[c] = d
}

// Decode sniffs data and decodes it with the matching decoder
func (a *Auto) Decode(data []byte) (out Decoded, err error) {
	c := Sniff(data)
	dec, ok := a.decoders[c]
	if !ok {
		return Decoded{}, &DecodeError{Format: "unknown", Err: ErrUnsupportedFormat}
	}

	// Third-party parsers can panic on hostile input; treat that as unparseable
	defer func() {
		if r := recover(); r != nil {
			out = Decoded{}
			err = newDecodeError(string(c), fmt.Errorf("decoder panic: %v", r))
		}
	}()

	return dec.Decode(data)
}
