// ABOUTME: Oto-based audio output implementation
// ABOUTME: Adapts oto's pull reader to fixed-size float32 callback blocks
package output

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto only allows one context per process
var (
	otoMu         sync.Mutex
	otoCtx        *oto.Context
	otoSampleRate int
	otoChannels   int
)

// Oto opens streams on the process-wide oto context
type Oto struct{}

// NewOto creates an oto device
func NewOto() Device {
	return &Oto{}
}

// Name identifies the backend
func (o *Oto) Name() string {
	return "oto"
}

// otoStream feeds an oto player from the callback
type otoStream struct {
	player   *oto.Player
	reader   *blockReader
	channels int
	scratch  []float32
}

// Open creates a player reading from cb
func (o *Oto) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, err := otoContext(cfg)
	if err != nil {
		return nil, err
	}

	s := &otoStream{
		reader:   newBlockReader(cb, cfg.BlockSize*cfg.Channels),
		channels: cfg.Channels,
		scratch:  make([]float32, cfg.BlockSize*cfg.Channels),
	}

	s.player = ctx.NewPlayer(s)
	s.player.SetBufferSize(cfg.BlockSize * cfg.Channels * 4)

	log.Printf("Audio output opened: %dHz, %d channels, %d frames/block (oto)",
		cfg.SampleRate, cfg.Channels, cfg.BlockSize)

	return s, nil
}

// otoContext returns the shared context, creating it on first use
func otoContext(cfg StreamConfig) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoSampleRate != cfg.SampleRate || otoChannels != cfg.Channels {
			return nil, fmt.Errorf("oto context already initialized at %dHz/%dch, cannot reopen at %dHz/%dch",
				otoSampleRate, otoChannels, cfg.SampleRate, cfg.Channels)
		}
		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("failed to resume oto context: %w", err)
		}
		return otoCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(cfg.BlockSize) * time.Second / time.Duration(cfg.SampleRate),
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	otoCtx = ctx
	otoSampleRate = cfg.SampleRate
	otoChannels = cfg.Channels
	return ctx, nil
}

// Read is called by oto's mixer; it never blocks and never returns EOF
func (s *otoStream) Read(p []byte) (int, error) {
	total := len(p) / 4
	if total > len(s.scratch) {
		s.scratch = make([]float32, total)
	}
	samples := s.scratch[:total]

	s.reader.fill(samples, 0)
	putFloat32s(p, samples)
	return total * 4, nil
}

// Start begins playback
func (s *otoStream) Start() error {
	s.player.Play()
	return nil
}

// Stop pauses playback
func (s *otoStream) Stop() error {
	s.player.Pause()
	return nil
}

// Close releases the player; the shared context stays alive
func (s *otoStream) Close() error {
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
