// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and normalized float sample conversion helpers
// Package audio provides the sample types shared by the chunkstream pipeline.
//
// Every stage after decoding works on mono float32 samples normalized to
// [-1.0, 1.0]. This package defines:
//   - Format: describes a decoded chunk (codec, sample rate, channels, bit depth)
//   - conversions from signed integer PCM of any bit depth to float32
//   - Downmix for folding interleaved multichannel audio down to mono
//
// Example:
//
//	mono := audio.Downmix(interleaved, 2)
//	s := audio.SampleFromInt16(-16384) // -0.5
package audio
