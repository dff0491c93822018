// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"

	"beatpulse/internal/config"

	"github.com/gordonklaus/portaudio"
)

// Stream is an opened capture stream. *portaudio.Stream satisfies it.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// openStreamFunc opens a PortAudio stream, replaced in tests.
var openStreamFunc = func(params portaudio.StreamParameters, callback func(in []float32)) (Stream, error) {
	return portaudio.OpenStream(params, callback)
}

// streamParameters builds input-only parameters for device. The latency
// follows cfg.LowLatency.
func streamParameters(device *portaudio.DeviceInfo, cfg config.AudioConfig) portaudio.StreamParameters {
	latency := device.DefaultHighInputLatency
	if cfg.LowLatency {
		latency = device.DefaultLowInputLatency
	}

	return portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.InputChannels,
			Latency:  latency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0, // No output device
			Device:   nil,
		},
		FramesPerBuffer: cfg.FramesPerBuffer,
		SampleRate:      cfg.SampleRate,
	}
}

// OpenInputStream opens a float32 input stream on device that calls callback
// with interleaved samples. The stream is created stopped.
func OpenInputStream(device *portaudio.DeviceInfo, cfg config.AudioConfig, callback func(in []float32)) (Stream, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: no input device", ErrDevice)
	}
	if cfg.InputChannels > device.MaxInputChannels {
		return nil, fmt.Errorf("%w: device %q has %d input channels, %d requested",
			ErrDevice, device.Name, device.MaxInputChannels, cfg.InputChannels)
	}

	stream, err := openStreamFunc(streamParameters(device, cfg), callback)
	if err != nil {
		return nil, fmt.Errorf("%w: open stream on %q: %w", ErrDevice, device.Name, err)
	}
	return stream, nil
}
