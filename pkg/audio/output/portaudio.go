//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Callback-driven float32 output that surfaces PortAudio status flags
package output

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

// PortAudio opens streams on the default PortAudio output device
type PortAudio struct{}

// NewPortAudio creates a PortAudio device
func NewPortAudio() Device {
	return &PortAudio{}
}

// Name identifies the backend
func (p *PortAudio) Name() string {
	return "portaudio"
}

type portAudioStream struct {
	stream *portaudio.Stream
	closed bool
}

// Open initializes PortAudio and opens a fixed-block output stream
func (p *PortAudio) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	process := func(out []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		cb(out, statusFromFlags(flags))
	}

	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, float64(cfg.SampleRate), cfg.BlockSize, process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	log.Printf("Audio output opened: %dHz, %d channels, %d frames/block (portaudio)",
		cfg.SampleRate, cfg.Channels, cfg.BlockSize)

	return &portAudioStream{stream: stream}, nil
}

func statusFromFlags(flags portaudio.StreamCallbackFlags) Status {
	var s Status
	if flags&portaudio.OutputUnderflow != 0 {
		s |= StatusOutputUnderflow
	}
	if flags&portaudio.OutputOverflow != 0 {
		s |= StatusOutputOverflow
	}
	if flags&portaudio.PrimingOutput != 0 {
		s |= StatusPrimingOutput
	}
	return s
}

// Start begins playback
func (s *portAudioStream) Start() error {
	return s.stream.Start()
}

// Stop halts playback
func (s *portAudioStream) Stop() error {
	return s.stream.Stop()
}

// Close releases the stream and terminates PortAudio
func (s *portAudioStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}
	return portaudio.Terminate()
}
