// ABOUTME: Decoder interface definition
// ABOUTME: Common interface and result type for all chunk decoders
package decode

import "github.com/Sendspin/chunkstream/pkg/audio"

// Decoded is the result of decoding one chunk
type Decoded struct {
	// Samples are mono and normalized to [-1.0, 1.0]
	Samples []float32

	// Format describes the source; SampleRate is the chunk's native rate
	Format audio.Format
}

// Decoder decodes a self-contained audio chunk
type Decoder interface {
	// Decode converts encoded audio bytes to mono float samples.
	// Unparseable input fails with an error matching ErrDecode.
	Decode(data []byte) (Decoded, error)
}

// DecoderFunc adapts a function to the Decoder interface
type DecoderFunc func(data []byte) (Decoded, error)

// Decode calls f(data)
func (f DecoderFunc) Decode(data []byte) (Decoded, error) {
	return f(data)
}
