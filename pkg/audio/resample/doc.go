// ABOUTME: Audio resampling package
// ABOUTME: Converts mono float chunks between sample rates
// Package resample provides sample rate conversion for decoded chunks.
//
// It wraps the windowed-sinc resampler from github.com/oov/audio. Conversion is
// best effort and only used when a stream opts in; by default chunks pass
// through at their native rate.
//
// Example:
//
//	r := resample.New(24000, 48000)
//	out := r.Resample(samples)
package resample
