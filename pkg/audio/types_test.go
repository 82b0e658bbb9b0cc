// ABOUTME: Tests for audio types
// ABOUTME: Tests sample normalization and downmixing
package audio

import "testing"

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float32
	}{
		{"zero", 0, 0},
		{"half", 16384, 0.5},
		{"negative half", -16384, -0.5},
		{"min", -32768, -1.0},
		{"max", 32767, 32767.0 / 32768.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestSampleFromInt(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		bitDepth int
		expected float32
	}{
		{"8bit signed", -64, 8, -0.5},
		{"16bit half", 16384, 16, 0.5},
		{"24bit min", -8388608, 24, -1.0},
		{"24bit quarter", 2097152, 24, 0.25},
		{"32bit half", 1 << 30, 32, 0.5},
		{"invalid depth", 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt(tt.input, tt.bitDepth)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestSampleFromUint8(t *testing.T) {
	if got := SampleFromUint8(128); got != 0 {
		t.Errorf("expected midpoint to be silence, got %v", got)
	}
	if got := SampleFromUint8(0); got != -1.0 {
		t.Errorf("expected -1.0, got %v", got)
	}
	if got := SampleFromUint8(192); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(1.5) != 1.0 {
		t.Errorf("expected 1.0, got %v", Clamp(1.5))
	}
	if Clamp(-2) != -1.0 {
		t.Errorf("expected -1.0, got %v", Clamp(-2))
	}
	if Clamp(0.25) != 0.25 {
		t.Errorf("expected 0.25, got %v", Clamp(0.25))
	}
}

func TestDownmixStereo(t *testing.T) {
	input := []float32{1.0, 0.0, 0.5, 0.5, -1.0, 1.0}
	output := Downmix(input, 2)

	expected := []float32{0.5, 0.5, 0}
	if len(output) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(output))
	}
	for i := range expected {
		if output[i] != expected[i] {
			t.Errorf("sample %d: expected %v, got %v", i, expected[i], output[i])
		}
	}
}

func TestDownmixMonoPassthrough(t *testing.T) {
	input := []float32{0.1, 0.2, 0.3}
	output := Downmix(input, 1)
	if len(output) != 3 || &output[0] != &input[0] {
		t.Error("expected mono input to be returned unchanged")
	}
}

func TestDownmixDropsPartialFrame(t *testing.T) {
	output := Downmix([]float32{0.2, 0.4, 0.6}, 2)
	if len(output) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(output))
	}
}

func TestDurationConversions(t *testing.T) {
	if got := DurationSamples(48000, 20); got != 960 {
		t.Errorf("expected 960 samples, got %d", got)
	}
	if got := SamplesToMs(24000, 48000); got != 500 {
		t.Errorf("expected 500ms, got %d", got)
	}
	if got := SamplesToMs(100, 0); got != 0 {
		t.Errorf("expected 0ms for zero rate, got %d", got)
	}
}
