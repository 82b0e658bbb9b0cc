// ABOUTME: Pipeline counters and the Stats snapshot
// ABOUTME: Lock-free counters shared by caller, worker and audio callback
package stream

import "sync/atomic"

// Stats is a point-in-time view of the pipeline
type Stats struct {
	State State

	ChunksReceived int64 // accepted or rejected by AddChunk
	ChunksRejected int64 // dropped because the queue was full
	ChunksDecoded  int64 // decoded by a container decoder
	ChunksFallback int64 // decoded as raw PCM after the container decoder failed
	ChunksDropped  int64 // could not be decoded at all

	Callbacks      int64 // device callbacks served
	SilentBlocks   int64 // callbacks that found the buffer empty
	PartialBlocks  int64 // callbacks that found fewer samples than requested
	DeviceWarnings int64 // callbacks carrying a non-zero device status
	SamplesPlayed  int64

	QueuedChunks    int
	BufferedSamples int
	BufferedMs      int
}

// Underruns returns callbacks that had to pad with silence
func (s Stats) Underruns() int64 {
	return s.SilentBlocks + s.PartialBlocks
}

type counters struct {
	received atomic.Int64
	rejected atomic.Int64
	decoded  atomic.Int64
	fallback atomic.Int64
	dropped  atomic.Int64

	callbacks      atomic.Int64
	silentBlocks   atomic.Int64
	partialBlocks  atomic.Int64
	deviceWarnings atomic.Int64
	samplesPlayed  atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		ChunksReceived: c.received.Load(),
		ChunksRejected: c.rejected.Load(),
		ChunksDecoded:  c.decoded.Load(),
		ChunksFallback: c.fallback.Load(),
		ChunksDropped:  c.dropped.Load(),
		Callbacks:      c.callbacks.Load(),
		SilentBlocks:   c.silentBlocks.Load(),
		PartialBlocks:  c.partialBlocks.Load(),
		DeviceWarnings: c.deviceWarnings.Load(),
		SamplesPlayed:  c.samplesPlayed.Load(),
	}
}
