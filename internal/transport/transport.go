// SPDX-License-Identifier: MIT
package transport

import "beatpulse/internal/pulse"

// Transport receives the frame produced by every analysis tick.
// Send is called from the application goroutine and must not block for long.
type Transport interface {
	Send(frame pulse.Frame) error
	Close() error
}
