// ABOUTME: Decode worker goroutine
// ABOUTME: Pulls chunks, decodes with raw PCM fallback, and appends samples to the buffer
package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Sendspin/chunkstream/pkg/audio/decode"
	"github.com/Sendspin/chunkstream/pkg/audio/resample"
)

// WorkerConfig wires a Worker to its collaborators
type WorkerConfig struct {
	Queue   *Queue
	Buffer  *Buffer
	Decoder decode.Decoder

	// OutputRate is the device rate; raw PCM chunks are assumed to be at this rate
	OutputRate int

	// Resample converts chunks whose native rate differs from OutputRate
	Resample bool

	// Report receives per-chunk failures; nil discards them
	Report func(error)

	// Debug logs every appended chunk
	Debug bool
}

// Worker is the single consumer of a Queue
type Worker struct {
	config     WorkerConfig
	stats      *counters
	resamplers map[int]*resample.Resampler
	seq        uint64

	// active is the resampler holding the current source's filter tail
	active *resample.Resampler
}

// NewWorker creates a worker
func NewWorker(config WorkerConfig) *Worker {
	return newWorker(config, &counters{})
}

func newWorker(config WorkerConfig, stats *counters) *Worker {
	return &Worker{
		config:     config,
		stats:      stats,
		resamplers: make(map[int]*resample.Resampler),
	}
}

// Run processes chunks in order until ctx is cancelled. A failing chunk is
// reported and skipped; it never ends the loop.
func (w *Worker) Run(ctx context.Context) {
	for {
		chunk, ok := w.next(ctx)
		if !ok {
			return
		}
		w.process(chunk)
	}
}

// next waits for the next chunk. While a resampler holds a tail, it waits only
// until half the buffered audio has played, then treats the source as ended
// and flushes the tail so it plays contiguously.
func (w *Worker) next(ctx context.Context) ([]byte, bool) {
	if w.active == nil {
		return w.config.Queue.Take(ctx)
	}

	var wait time.Duration
	if w.config.OutputRate > 0 {
		wait = time.Duration(w.config.Buffer.Len()) * time.Second / time.Duration(2*w.config.OutputRate)
	}

	idleCtx, cancel := context.WithTimeout(ctx, wait)
	chunk, ok := w.config.Queue.Take(idleCtx)
	cancel()
	if ok || ctx.Err() != nil {
		return chunk, ok
	}

	w.flush()
	return w.config.Queue.Take(ctx)
}

func (w *Worker) process(chunk []byte) {
	w.seq++
	seq := w.seq

	defer func() {
		if r := recover(); r != nil {
			w.stats.dropped.Add(1)
			w.report(&ChunkError{Seq: seq, Size: len(chunk), Err: fmt.Errorf("%w: %v", ErrChunkPanic, r)})
		}
	}()

	samples, rate, err := w.decode(chunk)
	if err != nil {
		w.stats.dropped.Add(1)
		w.report(&ChunkError{Seq: seq, Size: len(chunk), Err: err})
		return
	}

	samples = w.convertRate(samples, rate)
	w.config.Buffer.Append(samples)

	if w.config.Debug {
		log.Printf("Added audio chunk #%d: %d samples at %dHz to buffer", seq, len(samples), rate)
	}
}

// decode tries the container decoder, then raw PCM
func (w *Worker) decode(chunk []byte) ([]float32, int, error) {
	decoded, err := w.config.Decoder.Decode(chunk)
	if err == nil {
		w.stats.decoded.Add(1)
		rate := decoded.Format.SampleRate
		if rate <= 0 {
			rate = w.config.OutputRate
		}
		return decoded.Samples, rate, nil
	}

	if !errors.Is(err, decode.ErrDecode) {
		return nil, 0, err
	}

	samples, pcmErr := decode.DecodeRawPCM(chunk)
	if pcmErr != nil {
		return nil, 0, fmt.Errorf("%w (raw pcm fallback: %w)", err, pcmErr)
	}

	w.stats.fallback.Add(1)
	return samples, w.config.OutputRate, nil
}

func (w *Worker) convertRate(samples []float32, rate int) []float32 {
	if len(samples) == 0 {
		return samples
	}

	resampling := w.config.Resample && rate != w.config.OutputRate

	// A rate change means a new source; the old one's tail goes first
	if w.active != nil && (!resampling || w.active.InputRate() != rate) {
		w.flush()
	}
	if !resampling {
		return samples
	}

	r, ok := w.resamplers[rate]
	if !ok {
		r = resample.New(rate, w.config.OutputRate)
		w.resamplers[rate] = r
		log.Printf("Resampling %dHz chunks to %dHz", rate, w.config.OutputRate)
	}
	w.active = r
	return r.Resample(samples)
}

// flush appends the active resampler's held-back samples
func (w *Worker) flush() {
	if w.active == nil {
		return
	}
	tail := w.active.Flush()
	w.active = nil
	if len(tail) > 0 {
		w.config.Buffer.Append(tail)
	}
}

func (w *Worker) report(err error) {
	if w.config.Report != nil {
		w.config.Report(err)
	}
}
