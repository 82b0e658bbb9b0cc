// ABOUTME: Mono float resampler for converting chunk sample rates
// ABOUTME: Keeps filter state between chunks of the same stream and flushes its tail at the end
package resample

import (
	"github.com/oov/audio/resampler"
)

// Quality passed to the underlying sinc resampler (0-10)
const Quality = 10

const (
	// flushBlock is how much silence is fed per step while draining the filter
	flushBlock = 1024

	// maxFlushBlocks bounds the drain; the filter latency is far below this
	maxFlushBlocks = 8
)

// Resampler converts mono samples from one rate to another
type Resampler struct {
	inputRate  int
	outputRate int
	r          *resampler.Resampler

	// consumed and produced count samples since the last Flush
	consumed int
	produced int
}

// New creates a resampler
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		r:          resampler.New(1, inputRate, outputRate, Quality),
	}
}

// InputRate returns the source sample rate
func (r *Resampler) InputRate() int {
	return r.inputRate
}

// OutputRate returns the target sample rate
func (r *Resampler) OutputRate() int {
	return r.outputRate
}

// Resample converts input to the output rate. The filter holds back a few
// samples of latency; call Flush once the stream ends to release them.
func (r *Resampler) Resample(input []float32) []float32 {
	if len(input) == 0 {
		return nil
	}
	if r.inputRate == r.outputRate {
		return input
	}

	output := make([]float32, r.OutputSamplesNeeded(len(input))+Quality*2)
	read, written := 0, 0
	for read < len(input) {
		if written >= len(output) {
			output = append(output, make([]float32, len(output))...)
		}
		n, w := r.r.ProcessFloat32(0, input[read:], output[written:])
		read += n
		written += w
		if n == 0 && w == 0 {
			break
		}
	}
	r.consumed += read
	r.produced += written
	return output[:written]
}

// Flush returns the samples still held by the filter, padded with silence so
// the stream's total output matches its input length at the output rate. The
// resampler starts a fresh stream afterwards.
func (r *Resampler) Flush() []float32 {
	if r.inputRate == r.outputRate {
		return nil
	}

	need := r.OutputSamplesNeeded(r.consumed) - r.produced
	var tail []float32
	if need > 0 {
		silence := make([]float32, flushBlock)
		out := make([]float32, r.OutputSamplesNeeded(flushBlock)+Quality*2)
		for i := 0; i < maxFlushBlocks && len(tail) < need; i++ {
			_, w := r.r.ProcessFloat32(0, silence, out)
			tail = append(tail, out[:w]...)
		}
		if len(tail) > need {
			tail = tail[:need]
		}
	}

	r.r = resampler.New(1, r.inputRate, r.outputRate, Quality)
	r.consumed = 0
	r.produced = 0
	return tail
}

// OutputSamplesNeeded estimates how many samples input samples become
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	return int(int64(inputSamples) * int64(r.outputRate) / int64(r.inputRate))
}
