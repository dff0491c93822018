// SPDX-License-Identifier: MIT
/*
Package audio implements the capture side of the beat visualizer:
- PortAudio device discovery and input streams
- A lock-free capture callback feeding the sample channel
- A stream controller for start/stop from the presentation layer

Thread Safety:
- The capture callback only touches the ring producer and an atomic counter
- Buffers are allocated before the stream starts
- Controller state is read through atomics
*/
package audio

import (
	"errors"
	"fmt"

	"beatpulse/internal/config"
	applog "beatpulse/internal/log"
	"beatpulse/internal/ringbuf"

	"github.com/go-audio/audio"
	"github.com/gordonklaus/portaudio"
)

// Engine owns the sample channel, the capture callback and the stream
// controller for one input device.
type Engine struct {
	config *config.Config

	inputDevice *portaudio.DeviceInfo
	format      *audio.Format

	capture    *Capture
	consumer   *ringbuf.Consumer
	controller *Controller
}

// NewEngine resolves the configured input device, creates the sample channel
// and opens a stopped input stream feeding it.
func NewEngine(cfg *config.Config) (*Engine, error) {
	device, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDevice, err)
	}
	return newEngine(cfg, device)
}

func newEngine(cfg *config.Config, device *portaudio.DeviceInfo) (*Engine, error) {
	if cfg.Analysis.ChannelCapacity < cfg.Analysis.WindowSize {
		return nil, fmt.Errorf("channel capacity %d is smaller than the window size %d",
			cfg.Analysis.ChannelCapacity, cfg.Analysis.WindowSize)
	}

	producer, consumer, err := ringbuf.New(cfg.Analysis.ChannelCapacity)
	if err != nil {
		return nil, err
	}

	format := &audio.Format{
		NumChannels: cfg.Audio.InputChannels,
		SampleRate:  int(cfg.Audio.SampleRate),
	}
	capture := NewCapture(producer, format)

	stream, err := OpenInputStream(device, cfg.Audio, capture.Process)
	if err != nil {
		return nil, err
	}

	applog.Infof("Audio: Opened '%s' (%d ch @ %.0f Hz, %d frames/buffer, low latency: %t)",
		device.Name, format.NumChannels, cfg.Audio.SampleRate, cfg.Audio.FramesPerBuffer, cfg.Audio.LowLatency)

	return &Engine{
		config:      cfg,
		inputDevice: device,
		format:      format,
		capture:     capture,
		consumer:    consumer,
		controller:  NewController(stream),
	}, nil
}

// Consumer returns the reading side of the sample channel.
func (e *Engine) Consumer() *ringbuf.Consumer {
	return e.consumer
}

// Controller returns the stream controller.
func (e *Engine) Controller() *Controller {
	return e.controller
}

// Dropped returns the number of samples lost to a full channel.
func (e *Engine) Dropped() uint64 {
	return e.capture.Dropped()
}

// DeviceName returns the name of the opened input device.
func (e *Engine) DeviceName() string {
	return e.inputDevice.Name
}

// Format returns the stream format.
func (e *Engine) Format() *audio.Format {
	return e.format
}

// Close stops and releases the stream. The callback is not invoked after
// Close returns.
func (e *Engine) Close() error {
	if err := e.controller.Close(); err != nil {
		return err
	}
	if dropped := e.Dropped(); dropped > 0 {
		applog.Warnf("Audio: %d samples dropped while the channel was full", dropped)
	}
	return nil
}

// IsDeviceError reports whether err came from the capture device.
func IsDeviceError(err error) bool {
	return errors.Is(err, ErrDevice)
}
