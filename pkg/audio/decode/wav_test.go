// ABOUTME: Tests for WAV decoder
// ABOUTME: Encodes integer fixtures with go-audio/wav, builds float fixtures by hand, and checks decoded samples
package decode

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// encodeWAV renders 16-bit PCM samples to WAV bytes
func encodeWAV(t *testing.T, sampleRate, channels int, data []int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize fixture: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close fixture: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return raw
}

func TestWAVDecodeMono(t *testing.T) {
	input := encodeWAV(t, 24000, 1, []int{0, 16384, -16384, -32768})

	out, err := NewWAV().Decode(input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if out.Format.SampleRate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", out.Format.SampleRate)
	}
	if out.Format.Channels != 1 {
		t.Errorf("expected 1 channel, got %d", out.Format.Channels)
	}

	expected := []float32{0, 0.5, -0.5, -1.0}
	if len(out.Samples) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(out.Samples))
	}
	for i := range expected {
		if out.Samples[i] != expected[i] {
			t.Errorf("sample %d: expected %v, got %v", i, expected[i], out.Samples[i])
		}
	}
}

func TestWAVDecodeStereoDownmix(t *testing.T) {
	input := encodeWAV(t, 48000, 2, []int{16384, 0, -16384, -16384})

	out, err := NewWAV().Decode(input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	expected := []float32{0.25, -0.5}
	if len(out.Samples) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(out.Samples))
	}
	for i := range expected {
		if out.Samples[i] != expected[i] {
			t.Errorf("sample %d: expected %v, got %v", i, expected[i], out.Samples[i])
		}
	}
}

func TestWAVDecode_HeaderOnly(t *testing.T) {
	_, err := NewWAV().Decode([]byte("RIFF\x04\x00\x00\x00WAVE"))
	if err == nil {
		t.Fatal("expected error for truncated wav, got nil")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

// floatWAV builds an IEEE float WAV. subformat 0 writes a plain fmt chunk
// tagged as float; otherwise an extensible fmt chunk carries subformat.
func floatWAV(sampleRate, channels, bitDepth int, subformat uint16, samples []float64) []byte {
	blockAlign := channels * bitDepth / 8

	fmtChunk := make([]byte, 16, 40)
	tag := uint16(wavFormatFloat)
	if subformat != 0 {
		tag = wavFormatExtensible
	}
	binary.LittleEndian.PutUint16(fmtChunk[0:], tag)
	binary.LittleEndian.PutUint16(fmtChunk[2:], uint16(channels))
	binary.LittleEndian.PutUint32(fmtChunk[4:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(fmtChunk[8:], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(fmtChunk[12:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(fmtChunk[14:], uint16(bitDepth))
	if subformat != 0 {
		ext := make([]byte, 24)
		binary.LittleEndian.PutUint16(ext[0:], 22)
		binary.LittleEndian.PutUint16(ext[2:], uint16(bitDepth))
		binary.LittleEndian.PutUint16(ext[8:], subformat)
		copy(ext[10:], wavSubformatSuffix)
		fmtChunk = append(fmtChunk, ext...)
	}

	data := make([]byte, len(samples)*bitDepth/8)
	for i, v := range samples {
		if bitDepth == 64 {
			binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
		} else {
			binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(float32(v)))
		}
	}

	var out []byte
	out = append(out, "RIFF\x00\x00\x00\x00WAVE"...)
	out = appendChunk(out, "fmt ", fmtChunk)
	out = appendChunk(out, "data", data)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(out)-8))
	return out
}

func appendChunk(out []byte, id string, body []byte) []byte {
	out = append(out, id...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

func TestWAVDecodeFloat(t *testing.T) {
	tests := []struct {
		name      string
		channels  int
		bitDepth  int
		subformat uint16
		input     []float64
		expected  []float32
	}{
		{"float32 mono", 1, 32, 0, []float64{0, 0.25, -0.25, 1.5}, []float32{0, 0.25, -0.25, 1.0}},
		{"float64 mono", 1, 64, 0, []float64{0.5, -2}, []float32{0.5, -1.0}},
		{"extensible float32 stereo", 2, 32, wavFormatFloat, []float64{0.25, 0.25, 0.5, -0.5}, []float32{0.25, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewWAV().Decode(floatWAV(48000, tt.channels, tt.bitDepth, tt.subformat, tt.input))
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if out.Format.SampleRate != 48000 {
				t.Errorf("expected sample rate 48000, got %d", out.Format.SampleRate)
			}
			if out.Format.BitDepth != tt.bitDepth {
				t.Errorf("expected bit depth %d, got %d", tt.bitDepth, out.Format.BitDepth)
			}
			if len(out.Samples) != len(tt.expected) {
				t.Fatalf("expected %d samples, got %d", len(tt.expected), len(out.Samples))
			}
			for i := range tt.expected {
				if out.Samples[i] != tt.expected[i] {
					t.Errorf("sample %d: expected %v, got %v", i, tt.expected[i], out.Samples[i])
				}
			}
		})
	}
}

func TestParseWAVHeaderExtensiblePCM(t *testing.T) {
	input := encodeWAV(t, 16000, 1, []int{16384, -16384})

	// Rewrite the fmt chunk as extensible with a PCM subformat
	fmtChunk := make([]byte, 40)
	copy(fmtChunk, input[20:36])
	binary.LittleEndian.PutUint16(fmtChunk[0:], wavFormatExtensible)
	binary.LittleEndian.PutUint16(fmtChunk[16:], 22)
	binary.LittleEndian.PutUint16(fmtChunk[24:], wavFormatPCM)
	copy(fmtChunk[26:], wavSubformatSuffix)

	hdr, err := parseWAVHeader(appendChunk([]byte("RIFF\x00\x00\x00\x00WAVE"), "fmt ", fmtChunk))
	if err == nil {
		t.Fatal("expected missing data chunk error, got nil")
	}
	if hdr.format != wavFormatPCM {
		t.Errorf("expected extensible PCM to resolve to format 1, got %d", hdr.format)
	}
}

func TestWAVDecode_UnsupportedSubformat(t *testing.T) {
	// 0x0002 is MS ADPCM
	input := floatWAV(48000, 1, 32, 0x0002, []float64{0.1})

	_, err := NewWAV().Decode(input)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestAutoDecodeFloatWAV(t *testing.T) {
	samples := make([]float64, 480)
	for i := range samples {
		samples[i] = 0.25 * math.Sin(2*math.Pi*float64(i)/48)
	}

	out, err := NewAuto().Decode(floatWAV(48000, 1, 32, 0, samples))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(out.Samples) != 480 {
		t.Fatalf("expected 480 samples, got %d", len(out.Samples))
	}

	var peak float32
	for _, s := range out.Samples {
		if s > peak {
			peak = s
		}
	}
	if peak > 0.2501 || peak < 0.24 {
		t.Errorf("expected peak near 0.25, got %v", peak)
	}
}
