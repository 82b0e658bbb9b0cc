// ABOUTME: Audio decoder package for self-contained chunk decoding
// ABOUTME: Provides Decoder interface, container sniffing, and the raw PCM fallback
// Package decode turns opaque audio chunks into mono float32 samples.
//
// Supported containers: WAV, FLAC, MP3, Ogg Vorbis, Ogg Opus. The Auto
// decoder sniffs the leading magic bytes and dispatches to the matching
// format decoder. Everything is decoded from memory; no scratch files are
// written.
//
// Chunks that are not a recognized container fail with a *DecodeError
// (errors.Is(err, ErrDecode)). Callers then try DecodeRawPCM, which reads the
// bytes as little-endian signed 16-bit PCM and fails with a *PCMError on odd
// lengths.
//
// Example:
//
//	dec := decode.NewAuto()
//	out, err := dec.Decode(chunk)
//	if errors.Is(err, decode.ErrDecode) {
//	    samples, err := decode.DecodeRawPCM(chunk)
//	}
package decode
