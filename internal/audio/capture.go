// SPDX-License-Identifier: MIT
package audio

import (
	"sync/atomic"

	"beatpulse/internal/ringbuf"

	"github.com/go-audio/audio"
)

// Capture is the real-time side of the sample channel. Process runs on the
// PortAudio callback thread and must not block, allocate or log.
type Capture struct {
	producer *ringbuf.Producer
	format   *audio.Format
	stride   int

	dropped atomic.Uint64 // Samples lost to a full channel.
}

// NewCapture wraps producer for an interleaved stream described by format.
func NewCapture(producer *ringbuf.Producer, format *audio.Format) *Capture {
	return &Capture{
		producer: producer,
		format:   format,
		stride:   max(format.NumChannels, 1),
	}
}

// Process is the input stream callback. It pushes the first channel of every
// frame in the interleaved buffer and counts the samples the channel could
// not take.
func (c *Capture) Process(in []float32) {
	for i := 0; i < len(in); i += c.stride {
		if !c.producer.Push(in[i]) {
			c.dropped.Add(1)
		}
	}
}

// Dropped returns the number of samples dropped so far. Safe to call from any
// goroutine.
func (c *Capture) Dropped() uint64 {
	return c.dropped.Load()
}

// Format returns the stream format the capture was built for.
func (c *Capture) Format() *audio.Format {
	return c.format
}
