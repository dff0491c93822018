// SPDX-License-Identifier: MIT
package transport

import (
	applog "beatpulse/internal/log"
	"beatpulse/internal/pulse"
)

// LoggingTransport implements the Transport interface by logging frames: a
// line per beat at INFO and a line per frame at DEBUG. It is the headless
// presenter.
type LoggingTransport struct {
	frames uint64
	beats  uint64
}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Infof("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs frame.
func (lt *LoggingTransport) Send(frame pulse.Frame) error {
	lt.frames++

	if frame.Beat {
		lt.beats++
		applog.Infof("BEAT #%d strength=%.2f bpm=%.1f", lt.beats, frame.Strength, frame.BPM)
	}
	applog.Debugf("frame=%d strength=%.3f windows=%d playing=%t dropped=%d",
		lt.frames, frame.Strength, frame.Windows, frame.Playing, frame.Dropped)

	return nil // Logging never fails to "send"
}

// Close logs a summary.
func (lt *LoggingTransport) Close() error {
	applog.Infof("Transport: Closed after %d frames, %d beats", lt.frames, lt.beats)
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
