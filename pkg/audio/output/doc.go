// ABOUTME: Audio output package for callback-driven playback devices
// ABOUTME: Provides Device/Stream interfaces and malgo, oto, PortAudio, and null backends
// Package output opens pull-based audio output streams.
//
// A Device opens a Stream that periodically invokes a Callback requesting
// exactly StreamConfig.BlockSize frames of float32 audio. Backends whose
// driver pulls arbitrary sizes (oto, and malgo when the period drifts) are
// adapted so the callback still always sees whole blocks.
//
// Backends:
//   - malgo: miniaudio via github.com/gen2brain/malgo (default)
//   - oto: github.com/ebitengine/oto/v3, one context per process
//   - portaudio: github.com/gordonklaus/portaudio, build with -tags portaudio
//   - null: a ticker-driven device that discards output, for headless runs
//
// Example:
//
//	dev, err := output.New("malgo")
//	stream, err := dev.Open(output.StreamConfig{SampleRate: 48000, Channels: 1, BlockSize: 1024},
//	    func(out []float32, status output.Status) { ... })
//	err = stream.Start()
package output
