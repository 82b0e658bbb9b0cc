// ABOUTME: Stream controller tying queue, worker, buffer and output together
// ABOUTME: Idempotent Start/Stop lifecycle and non-blocking AddChunk
package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sendspin/chunkstream/pkg/audio"
	"github.com/Sendspin/chunkstream/pkg/audio/decode"
	"github.com/Sendspin/chunkstream/pkg/audio/output"
)

// Defaults applied by New
const (
	DefaultSampleRate  = audio.DefaultSampleRate
	DefaultBlockSize   = 1024
	DefaultJoinTimeout = time.Second

	// warningBacklog bounds undelivered device status warnings
	warningBacklog = 16
)

// State is the lifecycle state of a Streamer
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Config holds streamer configuration
type Config struct {
	// SampleRate is the output device rate in Hz (default: 48000)
	SampleRate int

	// BlockSize is the number of frames per device callback (default: 1024)
	BlockSize int

	// QueueSize is the chunk queue capacity (default: 256)
	QueueSize int

	// JoinTimeout bounds how long Stop waits for the worker (default: 1s)
	JoinTimeout time.Duration

	// Resample converts chunks whose native rate differs from SampleRate
	Resample bool

	// Debug logs every decoded chunk
	Debug bool

	// Device opens the output stream (default: malgo)
	Device output.Device

	// Decoder decodes chunks (default: decode.NewAuto())
	Decoder decode.Decoder

	// OnError receives asynchronous errors; nil logs them
	OnError func(error)

	// OnStateChange is called after every Start/Stop transition
	OnStateChange func(State)
}

// Streamer plays chunks added with AddChunk through a continuous output stream
type Streamer struct {
	config Config
	queue  *Queue
	stats  counters
	state  atomic.Int32
	buffer atomic.Pointer[Buffer]

	// mu serializes Start and Stop
	mu         sync.Mutex
	stream     output.Stream
	cancel     context.CancelFunc
	workerDone chan struct{}
}

// New creates a stopped streamer
func New(config Config) (*Streamer, error) {
	if config.SampleRate == 0 {
		config.SampleRate = DefaultSampleRate
	}
	if config.BlockSize == 0 {
		config.BlockSize = DefaultBlockSize
	}
	if config.QueueSize == 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.JoinTimeout == 0 {
		config.JoinTimeout = DefaultJoinTimeout
	}
	if config.Device == nil {
		config.Device = output.NewMalgo()
	}
	if config.Decoder == nil {
		config.Decoder = decode.NewAuto()
	}

	if config.SampleRate < 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", config.SampleRate)
	}
	if config.BlockSize < 0 {
		return nil, fmt.Errorf("invalid block size: %d", config.BlockSize)
	}
	if config.QueueSize < 0 {
		return nil, fmt.Errorf("invalid queue size: %d", config.QueueSize)
	}

	return &Streamer{
		config: config,
		queue:  NewQueue(config.QueueSize),
	}, nil
}

// Config returns the effective configuration
func (s *Streamer) Config() Config {
	return s.config
}

// State returns the current lifecycle state
func (s *Streamer) State() State {
	return State(s.state.Load())
}

// AddChunk queues an encoded or raw PCM chunk for playback. It never
// blocks; when the queue is full the chunk is dropped and ErrQueueFull is
// returned. Chunks added while stopped are played after Start.
func (s *Streamer) AddChunk(chunk []byte) error {
	s.stats.received.Add(1)
	if err := s.queue.Submit(chunk); err != nil {
		s.stats.rejected.Add(1)
		s.report(err)
		return err
	}
	return nil
}

// Start opens the output device and launches the decode worker. It is a
// no-op when already running.
func (s *Streamer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == Running {
		return nil
	}

	buffer := NewBuffer(s.config.BlockSize * 8)
	warnings := make(chan output.Status, warningBacklog)
	driver := newDriver(buffer, warnings, &s.stats)

	streamConfig := output.StreamConfig{
		SampleRate: s.config.SampleRate,
		Channels:   1,
		BlockSize:  s.config.BlockSize,
	}

	stream, err := s.config.Device.Open(streamConfig, driver.Fill)
	if err != nil {
		return fmt.Errorf("failed to open %s output: %w", s.config.Device.Name(), err)
	}

	if err := stream.Start(); err != nil {
		if closeErr := stream.Close(); closeErr != nil {
			log.Printf("Error closing output after failed start: %v", closeErr)
		}
		return fmt.Errorf("failed to start %s output: %w", s.config.Device.Name(), err)
	}

	// The device plays silence until the worker delivers the first samples
	ctx, cancel := context.WithCancel(context.Background())
	worker := newWorker(WorkerConfig{
		Queue:      s.queue,
		Buffer:     buffer,
		Decoder:    s.config.Decoder,
		OutputRate: s.config.SampleRate,
		Resample:   s.config.Resample,
		Report:     s.report,
		Debug:      s.config.Debug,
	}, &s.stats)

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(ctx)
	}()
	go s.reportWarnings(ctx, warnings)

	s.buffer.Store(buffer)
	s.stream = stream
	s.cancel = cancel
	s.workerDone = workerDone
	s.state.Store(int32(Running))

	log.Printf("Started streaming audio output at %dHz (%s, %d frames per block)",
		s.config.SampleRate, s.config.Device.Name(), s.config.BlockSize)
	s.notifyState(Running)
	return nil
}

// Stop halts the worker and closes the output device. Unplayed audio is
// discarded; queued chunks stay queued. It is a no-op when stopped.
func (s *Streamer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == Stopped {
		return nil
	}

	s.state.Store(int32(Stopped))
	s.cancel()

	var errs []error
	if err := s.stream.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop output: %w", err))
	}
	if err := s.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close output: %w", err))
	}

	s.join(s.workerDone)

	s.stream = nil
	s.cancel = nil
	s.workerDone = nil
	s.buffer.Store(nil)

	log.Printf("Stopped streaming audio output")
	s.notifyState(Stopped)
	return errors.Join(errs...)
}

// join waits for the worker up to JoinTimeout
func (s *Streamer) join(done <-chan struct{}) {
	timer := time.NewTimer(s.config.JoinTimeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		s.report(ErrWorkerUnresponsive)
	}
}

// Stats returns a snapshot of the pipeline counters
func (s *Streamer) Stats() Stats {
	stats := s.stats.snapshot()
	stats.State = s.State()
	stats.QueuedChunks = s.queue.Len()
	if buffer := s.buffer.Load(); buffer != nil {
		stats.BufferedSamples = buffer.Len()
		stats.BufferedMs = audio.SamplesToMs(stats.BufferedSamples, s.config.SampleRate)
	}
	return stats
}

func (s *Streamer) reportWarnings(ctx context.Context, warnings <-chan output.Status) {
	for {
		select {
		case <-ctx.Done():
			return
		case status := <-warnings:
			s.report(&DeviceStatusWarning{Status: status})
		}
	}
}

func (s *Streamer) report(err error) {
	if s.config.OnError != nil {
		s.config.OnError(err)
		return
	}
	log.Printf("Audio error: %v", err)
}

func (s *Streamer) notifyState(state State) {
	if s.config.OnStateChange != nil {
		s.config.OnStateChange(state)
	}
}
