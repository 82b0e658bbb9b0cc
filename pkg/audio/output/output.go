// ABOUTME: Audio output interface definition
// ABOUTME: Common Device, Stream, Callback, and Status types for playback backends
package output

import (
	"fmt"
	"strings"
)

// Status carries device-level conditions reported alongside a callback
type Status uint32

const (
	StatusOutputUnderflow Status = 1 << iota
	StatusOutputOverflow
	StatusPrimingOutput
)

// String lists the set flags
func (s Status) String() string {
	if s == 0 {
		return "ok"
	}

	var parts []string
	if s&StatusOutputUnderflow != 0 {
		parts = append(parts, "output underflow")
	}
	if s&StatusOutputOverflow != 0 {
		parts = append(parts, "output overflow")
	}
	if s&StatusPrimingOutput != 0 {
		parts = append(parts, "priming output")
	}
	if rest := s &^ (StatusOutputUnderflow | StatusOutputOverflow | StatusPrimingOutput); rest != 0 {
		parts = append(parts, fmt.Sprintf("unknown(0x%x)", uint32(rest)))
	}
	return strings.Join(parts, ", ")
}

// StreamConfig describes the stream to open
type StreamConfig struct {
	SampleRate int
	Channels   int
	BlockSize  int // frames per callback
}

// Validate checks the config is usable
func (c StreamConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", c.Channels)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("invalid block size: %d", c.BlockSize)
	}
	return nil
}

// Callback fills out (BlockSize*Channels interleaved samples) with audio.
// It runs on the device's real-time thread and must not block.
type Callback func(out []float32, status Status)

// Device opens output streams
type Device interface {
	// Name identifies the backend
	Name() string

	// Open creates a stream that invokes cb once started
	Open(cfg StreamConfig, cb Callback) (Stream, error)
}

// Stream is an open output stream
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// Backends lists the names accepted by New
var Backends = []string{"malgo", "oto", "portaudio", "null"}

// New returns the device for a backend name
func New(backend string) (Device, error) {
	switch backend {
	case "malgo", "":
		return NewMalgo(), nil
	case "oto":
		return NewOto(), nil
	case "portaudio":
		return NewPortAudio(), nil
	case "null":
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unsupported output backend: %s (supported: %s)", backend, strings.Join(Backends, ", "))
	}
}
