// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo for callback-driven float32 playback
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
)

// Malgo opens streams on the default miniaudio playback device
type Malgo struct{}

// NewMalgo creates a malgo device
func NewMalgo() Device {
	return &Malgo{}
}

// Name identifies the backend
func (m *Malgo) Name() string {
	return "malgo"
}

// malgoStream is an open miniaudio playback device
type malgoStream struct {
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	reader   *blockReader
	channels int
	scratch  []float32
	mu       sync.Mutex
	closed   bool
}

// Open initializes the device; the callback runs once Start is called
func (m *Malgo) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	s := &malgoStream{
		malgoCtx: malgoCtx,
		reader:   newBlockReader(cb, cfg.BlockSize*cfg.Channels),
		channels: cfg.Channels,
		scratch:  make([]float32, cfg.BlockSize*cfg.Channels),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.BlockSize)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			s.dataCallback(pOutputSample, frameCount)
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		s.freeContext()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	s.device = device

	log.Printf("Audio output opened: %dHz, %d channels, %d frames/block (malgo)",
		cfg.SampleRate, cfg.Channels, cfg.BlockSize)

	return s, nil
}

// dataCallback is called by miniaudio to fill the output buffer
func (s *malgoStream) dataCallback(pOutput []byte, frameCount uint32) {
	total := int(frameCount) * s.channels
	if total > len(s.scratch) {
		// Only happens if the driver renegotiates a larger period
		s.scratch = make([]float32, total)
	}
	samples := s.scratch[:total]

	s.reader.fill(samples, 0)
	putFloat32s(pOutput, samples)
}

// Start begins playback
func (s *malgoStream) Start() error {
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	return nil
}

// Stop halts playback; the callback is not invoked after it returns
func (s *malgoStream) Stop() error {
	if err := s.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	return nil
}

// Close releases the device and context
func (s *malgoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.device != nil {
		s.device.Uninit()
		s.device = nil
	}
	s.freeContext()
	return nil
}

func (s *malgoStream) freeContext() {
	if s.malgoCtx == nil {
		return
	}
	if err := s.malgoCtx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	s.malgoCtx.Free()
	s.malgoCtx = nil
}
