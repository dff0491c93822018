// SPDX-License-Identifier: MIT
/*
Package pulse turns the sample channel into a decaying beat strength.

The loop runs on the application goroutine, once per display tick. Each tick
drains every complete window from the channel into the detector and then
decays the strength once, so the visual fall-off is tied to the tick rate and
not to how much audio arrived.
*/
package pulse

import (
	"errors"
	"fmt"

	"beatpulse/internal/analysis"
	applog "beatpulse/internal/log"
)

// Loop defaults.
const (
	DefaultWindowSize = 1024
	DefaultHopSize    = 512
	DefaultDecay      = 0.8
)

// ErrDetection wraps a failure reported by the detector. It is fatal to the
// application.
var ErrDetection = errors.New("beat detection failed")

// Source is the reading side of the sample channel.
type Source interface {
	Len() int
	Peek(out []float32) int
	Discard(n int) int
}

// Config sizes the analysis windows and the strength decay.
type Config struct {
	WindowSize int     // Samples per detection call.
	HopSize    int     // Samples discarded after each call.
	Decay      float32 // Strength multiplier per tick.
}

// DefaultConfig returns a 1024/512 window with 0.8 decay.
func DefaultConfig() Config {
	return Config{
		WindowSize: DefaultWindowSize,
		HopSize:    DefaultHopSize,
		Decay:      DefaultDecay,
	}
}

// Frame is the result of one tick.
type Frame struct {
	Strength float32 // Beat strength after this tick's decay, in [0,1].
	Beat     bool    // A detection happened during this tick.
	BPM      float64 // Tempo estimate, 0 if unknown.
	Windows  int     // Windows analysed during this tick.
	Playing  bool    // Capture stream state.
	Dropped  uint64  // Samples lost by the capture callback so far.
}

// Stats are running totals since the loop was created.
type Stats struct {
	Ticks   uint64
	Windows uint64
	Beats   uint64
	Dropped uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithParams sets the initial detection parameters.
func WithParams(p Params) Option {
	return func(l *Loop) { l.params = p }
}

// WithPlayState reports the capture stream state in every frame.
func WithPlayState(isPlaying func() bool) Option {
	return func(l *Loop) { l.isPlaying = isPlaying }
}

// WithDropCounter reports the capture drop counter in every frame.
func WithDropCounter(dropped func() uint64) Option {
	return func(l *Loop) { l.dropped = dropped }
}

// Loop is the analysis loop. It owns the detector and the analysis window;
// none of its methods are safe for concurrent use.
type Loop struct {
	source   Source
	detector analysis.Detector
	tempo    analysis.TempoReporter
	cfg      Config

	window   []float32
	params   Params
	strength float32
	stats    Stats

	isPlaying func() bool
	dropped   func() uint64
}

// NewLoop creates a loop reading source and feeding detector. The detector
// receives the initial parameters immediately.
func NewLoop(source Source, detector analysis.Detector, cfg Config, opts ...Option) (*Loop, error) {
	if cfg.WindowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", cfg.WindowSize)
	}
	if cfg.HopSize <= 0 || cfg.HopSize > cfg.WindowSize {
		return nil, fmt.Errorf("hop size must be within [1, %d], got %d", cfg.WindowSize, cfg.HopSize)
	}
	if cfg.Decay < 0 || cfg.Decay >= 1 {
		return nil, fmt.Errorf("decay must be within [0, 1), got %.2f", cfg.Decay)
	}

	l := &Loop{
		source:    source,
		detector:  detector,
		cfg:       cfg,
		window:    make([]float32, cfg.WindowSize),
		params:    DefaultParams(),
		isPlaying: func() bool { return true },
		dropped:   func() uint64 { return 0 },
	}
	for _, opt := range opts {
		opt(l)
	}
	if tr, ok := detector.(analysis.TempoReporter); ok {
		l.tempo = tr
	}

	l.applyParams()
	applog.Debugf("Pulse: Loop ready (window %d, hop %d, decay %.2f, threshold %.2f, silence %.2f)",
		cfg.WindowSize, cfg.HopSize, cfg.Decay, l.params.Threshold, l.params.Silence)
	return l, nil
}

// Tick drains every complete window from the source into the detector, then
// decays the strength once. A detection error aborts the tick and is
// returned wrapped in ErrDetection.
func (l *Loop) Tick() (Frame, error) {
	var frame Frame

	for l.source.Len() >= l.cfg.WindowSize {
		l.source.Peek(l.window)
		l.source.Discard(l.cfg.HopSize)

		l.applyParams()
		result, err := l.detector.Process(l.window)
		if err != nil {
			return Frame{}, fmt.Errorf("%w: %w", ErrDetection, err)
		}

		frame.Windows++
		if result > 0 {
			l.strength = 1.0
			frame.Beat = true
			l.stats.Beats++
		}
	}

	l.strength *= l.cfg.Decay

	l.stats.Ticks++
	l.stats.Windows += uint64(frame.Windows)
	l.stats.Dropped = l.dropped()

	frame.Strength = l.strength
	frame.Playing = l.isPlaying()
	frame.Dropped = l.stats.Dropped
	if l.tempo != nil {
		frame.BPM = l.tempo.BPM()
	}
	return frame, nil
}

// Apply updates the parameters and pushes them into the detector. They take
// effect from the next detection call.
func (l *Loop) Apply(cmd Command) {
	l.params = l.params.With(cmd)
	l.applyParams()
	applog.Debugf("Pulse: Applied %s", cmd)
}

// Params returns the current detection parameters.
func (l *Loop) Params() Params {
	return l.params
}

// Strength returns the current beat strength.
func (l *Loop) Strength() float32 {
	return l.strength
}

// Stats returns the running totals.
func (l *Loop) Stats() Stats {
	return l.stats
}

func (l *Loop) applyParams() {
	l.detector.SetThreshold(l.params.Threshold)
	l.detector.SetSilence(l.params.Silence)
}
