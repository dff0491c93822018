// SPDX-License-Identifier: MIT
package pulse

import (
	"context"
	"time"
)

// Run ticks the loop every interval and hands each frame to sink until ctx
// is cancelled. It returns nil on cancellation and the first tick or sink
// error otherwise.
func (l *Loop) Run(ctx context.Context, interval time.Duration, sink func(Frame) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			frame, err := l.Tick()
			if err != nil {
				return err
			}
			if err := sink(frame); err != nil {
				return err
			}
		}
	}
}
