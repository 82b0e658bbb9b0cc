// ABOUTME: Unit tests for the raw PCM encoder
// ABOUTME: Tests scaling, clamping and round trips through the fallback decoder
package encode

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Sendspin/chunkstream/pkg/audio/decode"
)

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"silence", 0, 0},
		{"half", 0.5, 16384},
		{"negative half", -0.5, -16384},
		{"full negative", -1, math.MinInt16},
		{"full positive clamps", 1, math.MaxInt16},
		{"over range", 3, math.MaxInt16},
		{"under range", -3, math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleToInt16(tt.input); got != tt.want {
				t.Errorf("SampleToInt16(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestRawPCMLayout(t *testing.T) {
	out := RawPCM([]float32{0.5, -0.5})
	if len(out) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(out))
	}
	if got := int16(binary.LittleEndian.Uint16(out[0:])); got != 16384 {
		t.Errorf("first sample: expected 16384, got %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[2:])); got != -16384 {
		t.Errorf("second sample: expected -16384, got %d", got)
	}
}

func TestRawPCMEmpty(t *testing.T) {
	if out := RawPCM(nil); len(out) != 0 {
		t.Errorf("expected no bytes, got %d", len(out))
	}
}

func TestRawPCMRoundTrip(t *testing.T) {
	input := []float32{0, 0.25, -0.25, 0.125, -1}

	decoded, err := decode.DecodeRawPCM(RawPCM(input))
	if err != nil {
		t.Fatalf("DecodeRawPCM: %v", err)
	}
	for i := range input {
		if decoded[i] != input[i] {
			t.Errorf("sample %d: expected %v, got %v", i, input[i], decoded[i])
		}
	}
}
