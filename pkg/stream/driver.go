// ABOUTME: Real-time output callback
// ABOUTME: Drains the playback buffer into device blocks and pads with silence
package stream

import "github.com/Sendspin/chunkstream/pkg/audio/output"

// Driver serves device callbacks from a Buffer. Fill never blocks beyond
// the buffer mutex and never allocates.
type Driver struct {
	buffer   *Buffer
	warnings chan<- output.Status
	stats    *counters
}

// NewDriver creates a driver. Non-zero device statuses are offered to
// warnings without blocking; warnings may be nil.
func NewDriver(buffer *Buffer, warnings chan<- output.Status) *Driver {
	return newDriver(buffer, warnings, &counters{})
}

func newDriver(buffer *Buffer, warnings chan<- output.Status, stats *counters) *Driver {
	return &Driver{
		buffer:   buffer,
		warnings: warnings,
		stats:    stats,
	}
}

// Fill writes len(out) samples: buffered audio first, then zeros
func (d *Driver) Fill(out []float32, status output.Status) {
	d.stats.callbacks.Add(1)

	if status != 0 {
		d.stats.deviceWarnings.Add(1)
		select {
		case d.warnings <- status:
		default:
		}
	}

	n := d.buffer.DrainInto(out)
	d.stats.samplesPlayed.Add(int64(n))
	if n == len(out) {
		return
	}

	clear(out[n:])
	if n == 0 {
		d.stats.silentBlocks.Add(1)
	} else {
		d.stats.partialBlocks.Add(1)
	}
}
