// ABOUTME: Container detection by magic bytes
// ABOUTME: Identifies WAV, FLAC, Ogg Opus, Ogg Vorbis, and MP3 chunks
package decode

import "bytes"

// Container identifies a self-contained audio format
type Container string

const (
	ContainerUnknown Container = ""
	ContainerWAV     Container = "wav"
	ContainerFLAC    Container = "flac"
	ContainerOpus    Container = "opus"
	ContainerVorbis  Container = "vorbis"
	ContainerMP3     Container = "mp3"
)

// Ogg identification headers live in the first page, well within this window
const oggHeaderWindow = 512

var (
	magicRIFF     = []byte("RIFF")
	magicWAVE     = []byte("WAVE")
	magicFLAC     = []byte("fLaC")
	magicOgg      = []byte("OggS")
	magicOpusHead = []byte("OpusHead")
	magicID3      = []byte("ID3")
)

// Sniff reports which container data starts with
func Sniff(data []byte) Container {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], magicRIFF) && bytes.Equal(data[8:12], magicWAVE):
		return ContainerWAV
	case bytes.HasPrefix(data, magicFLAC):
		return ContainerFLAC
	case bytes.HasPrefix(data, magicOgg):
		window := data
		if len(window) > oggHeaderWindow {
			window = window[:oggHeaderWindow]
		}
		if bytes.Contains(window, magicOpusHead) {
			return ContainerOpus
		}
		return ContainerVorbis
	case bytes.HasPrefix(data, magicID3):
		return ContainerMP3
	case isMPEGFrameHeader(data):
		return ContainerMP3
	}
	return ContainerUnknown
}

// isMPEGFrameHeader checks for an 11-bit frame sync followed by a valid
// layer, bitrate index, and sample rate index
func isMPEGFrameHeader(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	if data[0] != 0xFF || data[1]&0xE0 != 0xE0 {
		return false
	}
	version := (data[1] >> 3) & 0x03
	layer := (data[1] >> 1) & 0x03
	bitrate := data[2] >> 4
	sampleRate := (data[2] >> 2) & 0x03
	return version != 0x01 && layer != 0x00 && bitrate != 0x0F && bitrate != 0x00 && sampleRate != 0x03
}
