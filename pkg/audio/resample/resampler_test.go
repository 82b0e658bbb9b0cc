// ABOUTME: Tests for the mono resampler
// ABOUTME: Checks pass-through, output lengths, and tail flushing
package resample

import "testing"

func TestResamplePassthrough(t *testing.T) {
	r := New(48000, 48000)
	input := []float32{0.1, 0.2, 0.3}

	output := r.Resample(input)
	if len(output) != len(input) {
		t.Fatalf("expected %d samples, got %d", len(input), len(output))
	}
	for i := range input {
		if output[i] != input[i] {
			t.Errorf("sample %d: expected %v, got %v", i, input[i], output[i])
		}
	}
}

func TestResampleEmpty(t *testing.T) {
	r := New(24000, 48000)
	if out := r.Resample(nil); out != nil {
		t.Errorf("expected nil for empty input, got %d samples", len(out))
	}
}

func TestResampleUpsampleLength(t *testing.T) {
	r := New(24000, 48000)
	input := make([]float32, 2400)

	output := r.Resample(input)

	// The sinc filter holds back a few samples of latency
	if len(output) < 4400 || len(output) > 4800 {
		t.Errorf("expected roughly 4800 samples, got %d", len(output))
	}
}

func TestResampleFlushReleasesTail(t *testing.T) {
	r := New(22050, 44100)
	input := make([]float32, 2205)
	for i := range input {
		input[i] = 0.25
	}

	output := r.Resample(input)
	tail := r.Flush()

	if total := len(output) + len(tail); total != 4410 {
		t.Errorf("expected 4410 samples after flush, got %d (%d + %d tail)", total, len(output), len(tail))
	}
	if len(tail) == 0 {
		t.Error("expected the filter to hold back a tail")
	}

	// A second stream on the same resampler starts from a clean count
	output = r.Resample(input)
	tail = r.Flush()
	if total := len(output) + len(tail); total != 4410 {
		t.Errorf("expected 4410 samples for second stream, got %d", total)
	}
}

func TestResampleFlushPassthrough(t *testing.T) {
	r := New(48000, 48000)
	r.Resample([]float32{0.1, 0.2})
	if tail := r.Flush(); tail != nil {
		t.Errorf("expected no tail for pass-through, got %d samples", len(tail))
	}
}

func TestOutputSamplesNeeded(t *testing.T) {
	r := New(44100, 48000)
	if got := r.OutputSamplesNeeded(44100); got != 48000 {
		t.Errorf("expected 48000, got %d", got)
	}
	if r.InputRate() != 44100 || r.OutputRate() != 48000 {
		t.Errorf("unexpected rates %d -> %d", r.InputRate(), r.OutputRate())
	}
}
