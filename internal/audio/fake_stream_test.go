// SPDX-License-Identifier: MIT
package audio

import "github.com/gordonklaus/portaudio"

// fakeStream records calls and returns the configured errors.
type fakeStream struct {
	startErr, stopErr, closeErr error

	starts, stops, closes int
}

func (s *fakeStream) Start() error {
	s.starts++
	return s.startErr
}

func (s *fakeStream) Stop() error {
	s.stops++
	return s.stopErr
}

func (s *fakeStream) Close() error {
	s.closes++
	return s.closeErr
}

// withFakeOpen replaces openStreamFunc for the duration of the test and
// returns pointers to what the opener received.
func withFakeOpen(t interface{ Cleanup(func()) }, stream *fakeStream) (*portaudio.StreamParameters, *func([]float32)) {
	var (
		params   portaudio.StreamParameters
		callback func([]float32)
	)
	orig := openStreamFunc
	t.Cleanup(func() { openStreamFunc = orig })
	openStreamFunc = func(p portaudio.StreamParameters, cb func(in []float32)) (Stream, error) {
		params, callback = p, cb
		return stream, nil
	}
	return &params, &callback
}

func fakeDevice(inputs int) *portaudio.DeviceInfo {
	return &portaudio.DeviceInfo{
		Name:                    "Fake Input",
		MaxInputChannels:        inputs,
		DefaultSampleRate:       44100,
		DefaultLowInputLatency:  5_000_000,  // 5ms
		DefaultHighInputLatency: 40_000_000, // 40ms
	}
}
