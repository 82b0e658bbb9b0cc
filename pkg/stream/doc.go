// ABOUTME: Chunk-buffered continuous playback pipeline
// ABOUTME: Decouples irregular chunk arrival from a fixed-rate pull-based audio device
// Package stream plays asynchronously arriving audio chunks through a
// continuous output stream.
//
// The pipeline, leaves first:
//   - Queue: bounded, drop-on-full hand-off from callers to the decode worker
//   - Worker: one goroutine that decodes chunks and appends samples
//   - Buffer: mutex-guarded FIFO of mono float samples
//   - Driver: the real-time callback that drains the buffer, padding with silence
//   - Streamer: Start/Stop/AddChunk lifecycle tying it all together
//
// Example:
//
//	s, err := stream.New(stream.Config{SampleRate: 48000})
//	err = s.Start()
//	err = s.AddChunk(wavBytes)
//	defer s.Stop()
package stream
