// ABOUTME: Audio encoder package for producing raw PCM chunks
// ABOUTME: Inverse of the raw PCM fallback decoder
// Package encode converts float samples into the raw chunk format the
// player accepts without a container.
//
// Example:
//
//	chunk := encode.RawPCM(samples)
//	err := streamer.AddChunk(chunk)
package encode
