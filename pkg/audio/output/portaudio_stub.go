//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"
)

// ErrPortAudioDisabled is returned when built without the portaudio tag
var ErrPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a PortAudio device
func NewPortAudio() Device {
	return &PortAudio{}
}

// Name identifies the backend
func (p *PortAudio) Name() string {
	return "portaudio"
}

// Open always fails without the portaudio build tag
func (p *PortAudio) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	return nil, ErrPortAudioDisabled
}
