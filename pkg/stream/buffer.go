// ABOUTME: Playback sample buffer shared by the decode worker and the audio callback
// ABOUTME: Growable ring buffer behind a single mutex with copy-only critical sections
package stream

import "sync"

// minBufferCapacity is the smallest ring allocated on first append
const minBufferCapacity = 4096

// Buffer is a FIFO of mono float samples. Appends never drop samples;
// drains never wait for data.
type Buffer struct {
	mu    sync.Mutex
	data  []float32
	head  int // index of the oldest sample
	count int // samples currently buffered
}

// NewBuffer creates a buffer with room for capacity samples before growing
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{
		data: make([]float32, capacity),
	}
}

// Append adds samples to the tail
func (b *Buffer) Append(samples []float32) {
	if len(samples) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.grow(len(samples))

	tail := (b.head + b.count) % len(b.data)
	n := copy(b.data[tail:], samples)
	copy(b.data, samples[n:])
	b.count += len(samples)
}

// grow makes room for n more samples (must hold b.mu)
func (b *Buffer) grow(n int) {
	if b.count+n <= len(b.data) {
		return
	}

	newCap := 2 * len(b.data)
	if newCap < b.count+n {
		newCap = b.count + n
	}
	if newCap < minBufferCapacity {
		newCap = minBufferCapacity
	}

	data := make([]float32, newCap)
	b.copyOut(data[:b.count])
	b.data = data
	b.head = 0
}

// copyOut copies the oldest len(dst) samples into dst without consuming them (must hold b.mu)
func (b *Buffer) copyOut(dst []float32) {
	if len(dst) == 0 {
		return
	}
	n := copy(dst, b.data[b.head:])
	copy(dst[n:], b.data)
}

// DrainInto removes up to len(dst) samples from the head into dst and
// returns how many were written. It does not allocate.
func (b *Buffer) DrainInto(dst []float32) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(dst)
	if n > b.count {
		n = b.count
	}
	if n == 0 {
		return 0
	}

	b.copyOut(dst[:n])
	b.head = (b.head + n) % len(b.data)
	b.count -= n
	if b.count == 0 {
		b.head = 0
	}
	return n
}

// Drain removes and returns up to n samples from the head
func (b *Buffer) Drain(n int) []float32 {
	if n <= 0 {
		return nil
	}
	if avail := b.Len(); n > avail {
		n = avail
	}
	out := make([]float32, n)
	return out[:b.DrainInto(out)]
}

// Len returns the number of buffered samples
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Cap returns the current ring capacity
func (b *Buffer) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Reset discards all buffered samples
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}
