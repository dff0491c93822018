// SPDX-License-Identifier: MIT
/*
Package ringbuf implements the single-producer/single-consumer sample channel
between the PortAudio capture callback and the analysis loop.

New returns two capability-restricted handles over one preallocated buffer:
the Producer only pushes, the Consumer only inspects and discards. Each
handle must be owned by exactly one goroutine (or driver thread) for its whole
life; they are never shared.

Thread Safety:
  - head (write sequence) is stored only by the producer
  - tail (read sequence) is stored only by the consumer
  - both are atomics, so a sample written before head is published is
    visible to the consumer that observes the new head
  - sequences grow monotonically and are masked into the buffer, so full and
    empty are distinguishable without a spare slot

Push, Peek and Discard take no locks, make no syscalls and do not allocate.
*/
package ringbuf

import (
	"errors"
	"fmt"
	"sync/atomic"

	"beatpulse/pkg/bitint"
)

// ErrCapacity is returned by New for a capacity that is not a positive
// power of two.
var ErrCapacity = errors.New("ringbuf: capacity must be a positive power of two")

// cacheLine separates the two cursors so the capture thread and the
// application thread do not invalidate each other's cache line.
const cacheLine = 64

type ring struct {
	buf  []float32
	mask uint64

	head atomic.Uint64 // next sequence to write
	_    [cacheLine - 8]byte
	tail atomic.Uint64 // next sequence to read
	_    [cacheLine - 8]byte
}

func (r *ring) len() int {
	// Load tail first: head only grows, so head-tail can never underflow.
	tail := r.tail.Load()
	return int(r.head.Load() - tail)
}

// Producer is the write half of the channel. Only the capture callback may
// hold it.
type Producer struct {
	r *ring
}

// Consumer is the read half of the channel. Only the analysis loop may
// hold it.
type Consumer struct {
	r *ring
}

// New allocates a channel holding capacity samples and splits it into its
// producer and consumer handles.
func New(capacity int) (*Producer, *Consumer, error) {
	if !bitint.IsPowerOfTwo(capacity) {
		return nil, nil, fmt.Errorf("%w: got %d", ErrCapacity, capacity)
	}
	r := &ring{
		buf:  make([]float32, capacity),
		mask: bitint.Mask(capacity),
	}
	return &Producer{r: r}, &Consumer{r: r}, nil
}

// Push appends one sample. It returns false and drops the sample when the
// channel is full; the buffered samples are left untouched.
func (p *Producer) Push(v float32) bool {
	r := p.r
	head := r.head.Load()
	if head-r.tail.Load() == uint64(len(r.buf)) {
		return false
	}
	r.buf[head&r.mask] = v
	r.head.Store(head + 1)
	return true
}

// PushSlice appends samples until the channel is full and returns how many
// were accepted. The remainder is dropped.
func (p *Producer) PushSlice(vs []float32) int {
	r := p.r
	head := r.head.Load()
	free := uint64(len(r.buf)) - (head - r.tail.Load())
	n := min(uint64(len(vs)), free)
	for i := uint64(0); i < n; i++ {
		r.buf[(head+i)&r.mask] = vs[i]
	}
	r.head.Store(head + n)
	return int(n)
}

// Free returns the number of samples that can be pushed before the channel
// is full.
func (p *Producer) Free() int {
	return len(p.r.buf) - p.r.len()
}

// Len returns the number of samples available to read.
func (c *Consumer) Len() int {
	return c.r.len()
}

// Cap returns the fixed capacity of the channel.
func (c *Consumer) Cap() int {
	return len(c.r.buf)
}

// Peek copies up to len(out) of the oldest available samples into out
// without consuming them and returns the number copied.
func (c *Consumer) Peek(out []float32) int {
	r := c.r
	tail := r.tail.Load()
	n := min(len(out), int(r.head.Load()-tail))
	if n == 0 {
		return 0
	}

	start := int(tail & r.mask)
	first := min(n, len(r.buf)-start)
	copy(out[:first], r.buf[start:start+first])
	copy(out[first:n], r.buf[:n-first])
	return n
}

// Discard advances the read cursor by up to n samples, freeing capacity for
// the producer, and returns the number discarded.
func (c *Consumer) Discard(n int) int {
	if n <= 0 {
		return 0
	}
	r := c.r
	tail := r.tail.Load()
	n = min(n, int(r.head.Load()-tail))
	r.tail.Store(tail + uint64(n))
	return n
}
