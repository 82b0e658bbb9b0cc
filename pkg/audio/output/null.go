// ABOUTME: Null audio output for headless runs
// ABOUTME: Invokes the callback on a ticker at the stream's block period and discards the audio
package output

import (
	"context"
	"sync"
	"time"
)

// Null is a device with no audio hardware behind it
type Null struct{}

// NewNull creates a null device
func NewNull() Device {
	return &Null{}
}

// Name identifies the backend
func (n *Null) Name() string {
	return "null"
}

type nullStream struct {
	cb     Callback
	block  []float32
	period time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Open creates a stream clocked at BlockSize/SampleRate
func (n *Null) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &nullStream{
		cb:     cb,
		block:  make([]float32, cfg.BlockSize*cfg.Channels),
		period: time.Duration(cfg.BlockSize) * time.Second / time.Duration(cfg.SampleRate),
	}, nil
}

// Start launches the clock goroutine; starting twice is a no-op
func (s *nullStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
	return nil
}

func (s *nullStream) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cb(s.block, 0)
		}
	}
}

// Stop halts the clock and waits for the in-flight callback to finish
func (s *nullStream) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// Close stops the stream
func (s *nullStream) Close() error {
	return s.Stop()
}
