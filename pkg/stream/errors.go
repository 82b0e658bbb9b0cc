// ABOUTME: Pipeline error taxonomy
// ABOUTME: Queue, device status, worker shutdown, and per-chunk failure errors
package stream

import (
	"errors"
	"fmt"

	"github.com/Sendspin/chunkstream/pkg/audio/output"
)

var (
	// ErrQueueFull is returned by AddChunk when the chunk was dropped
	ErrQueueFull = errors.New("chunk queue is full, dropping chunk")

	// ErrDeviceStatus matches every DeviceStatusWarning
	ErrDeviceStatus = errors.New("audio device status")

	// ErrWorkerUnresponsive is reported when Stop gives up waiting for the worker
	ErrWorkerUnresponsive = errors.New("decode worker did not stop in time")

	// ErrChunkPanic wraps a recovered panic while processing a chunk
	ErrChunkPanic = errors.New("chunk processing panicked")
)

// DeviceStatusWarning reports a transient underrun/overrun signaled by the device
type DeviceStatusWarning struct {
	Status output.Status
}

func (w *DeviceStatusWarning) Error() string {
	return fmt.Sprintf("audio device status: %s", w.Status)
}

// Is lets errors.Is(err, ErrDeviceStatus) match any DeviceStatusWarning
func (w *DeviceStatusWarning) Is(target error) bool {
	return target == ErrDeviceStatus
}

// ChunkError reports a chunk that was dropped by the worker
type ChunkError struct {
	Seq  uint64 // 1-based position in worker processing order
	Size int
	Err  error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("dropped chunk #%d (%d bytes): %v", e.Seq, e.Size, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
