// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"sync/atomic"

	applog "beatpulse/internal/log"
)

// ErrDevice wraps every failure reported by the capture device.
var ErrDevice = errors.New("audio device error")

// Controller starts and stops a capture stream on request of the
// presentation layer. It is not safe for concurrent Play/Pause calls; state
// reads through IsPlaying are.
type Controller struct {
	stream  Stream
	playing atomic.Bool
	closed  atomic.Bool
}

// NewController wraps an opened, stopped stream.
func NewController(stream Stream) *Controller {
	return &Controller{stream: stream}
}

// IsPlaying reports whether the stream is delivering samples.
func (c *Controller) IsPlaying() bool {
	return c.playing.Load()
}

// Play starts the stream. Calling it while playing does nothing.
func (c *Controller) Play() error {
	if c.closed.Load() {
		return fmt.Errorf("%w: stream is closed", ErrDevice)
	}
	if c.playing.Load() {
		return nil
	}
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("%w: start stream: %w", ErrDevice, err)
	}
	c.playing.Store(true)
	applog.Debugf("Audio: Stream started")
	return nil
}

// Pause stops the stream. Calling it while paused does nothing.
func (c *Controller) Pause() error {
	if c.closed.Load() {
		return fmt.Errorf("%w: stream is closed", ErrDevice)
	}
	if !c.playing.Load() {
		return nil
	}
	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("%w: stop stream: %w", ErrDevice, err)
	}
	c.playing.Store(false)
	applog.Debugf("Audio: Stream stopped")
	return nil
}

// Toggle switches between playing and paused.
func (c *Controller) Toggle() error {
	if c.IsPlaying() {
		return c.Pause()
	}
	return c.Play()
}

// Close stops the stream if needed and releases it. Further calls are no-ops.
func (c *Controller) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	var errs []error
	if c.playing.Load() {
		if err := c.stream.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("%w: stop stream: %w", ErrDevice, err))
		}
		c.playing.Store(false)
	}
	if err := c.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("%w: close stream: %w", ErrDevice, err))
	}
	return errors.Join(errs...)
}
