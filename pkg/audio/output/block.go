// ABOUTME: Fixed-block adapter for variable-size device pulls
// ABOUTME: Serves arbitrary reads while invoking the callback in whole blocks only
package output

import (
	"encoding/binary"
	"math"
)

// blockReader slices fixed-size callback blocks into whatever the driver asks for
type blockReader struct {
	cb    Callback
	block []float32
	pos   int // next unread sample in block; len(block) when drained
}

func newBlockReader(cb Callback, samplesPerBlock int) *blockReader {
	block := make([]float32, samplesPerBlock)
	return &blockReader{
		cb:    cb,
		block: block,
		pos:   len(block),
	}
}

// fill writes exactly len(out) samples. status is delivered with the first
// block requested during this call.
func (b *blockReader) fill(out []float32, status Status) {
	for len(out) > 0 {
		if b.pos == len(b.block) {
			b.cb(b.block, status)
			status = 0
			b.pos = 0
		}
		n := copy(out, b.block[b.pos:])
		b.pos += n
		out = out[n:]
	}
}

// putFloat32s encodes samples as little-endian IEEE 754 into dst
func putFloat32s(dst []byte, samples []float32) {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
	}
}
