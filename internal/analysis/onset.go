// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	applog "beatpulse/internal/log"

	"gonum.org/v1/gonum/stat"
)

const (
	// historySize is the number of past ODF values used for the adaptive
	// threshold.
	historySize = 8

	// warmupFrames windows are analysed before the first onset can be
	// reported, so the threshold has some history to work with.
	warmupFrames = 3

	// minInterOnset is the shortest gap between two reported onsets.
	minInterOnset = 0.05 // seconds

	// odfFloor keeps numerical noise on near-constant input from being
	// picked as a peak.
	odfFloor = 1e-6
)

// OnsetConfig configures an OnsetDetector.
type OnsetConfig struct {
	Mode       OnsetMode
	WindowSize int        // Samples per Process call (power of 2).
	HopSize    int        // Samples advanced between calls.
	SampleRate float64    // Hz.
	Window     WindowFunc // Spectral taper.
}

// OnsetDetector is a Detector built on a per-window onset detection
// function (ODF) with median/mean adaptive peak picking, a silence gate and
// a tempo estimate over the reported onsets.
type OnsetDetector struct {
	cfg  OnsetConfig
	spectrum *spectrum

	threshold float32
	silence   float32

	// Previous spectra for the difference-based ODFs.
	prevMag    []float64
	prevPhase  []float64
	prev2Phase []float64

	// ODF history ring and a sort scratch buffer for the median.
	history  []float64
	histPos  int
	histLen  int
	scratch  []float64
	prevODF  float64
	frames   uint64 // windows processed
	lastHit  uint64 // frame index of the last reported onset
	hasHit   bool
	minGap   uint64 // minInterOnset in frames
	tempo    *Tempo
	position uint64 // absolute sample index of the current window start
}

// Compile-time checks for interface implementations.
var _ Detector = (*OnsetDetector)(nil)
var _ TempoReporter = (*OnsetDetector)(nil)

// NewOnsetDetector validates cfg and preallocates every buffer Process needs.
func NewOnsetDetector(cfg OnsetConfig) (*OnsetDetector, error) {
	if cfg.HopSize <= 0 || cfg.HopSize > cfg.WindowSize {
		return nil, fmt.Errorf("hop size must be within [1, %d], got %d", cfg.WindowSize, cfg.HopSize)
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", cfg.SampleRate)
	}
	sp, err := newSpectrum(cfg.WindowSize, cfg.Window)
	if err != nil {
		return nil, err
	}

	bins := sp.bins()
	minGap := uint64(math.Ceil(minInterOnset * cfg.SampleRate / float64(cfg.HopSize)))

	applog.Infof("Analysis: Initializing OnsetDetector (Mode: %s, Window: %d, Hop: %d, SampleRate: %.0f Hz)",
		cfg.Mode, cfg.WindowSize, cfg.HopSize, cfg.SampleRate)

	return &OnsetDetector{
		cfg:        cfg,
		spectrum:   sp,
		prevMag:    make([]float64, bins),
		prevPhase:  make([]float64, bins),
		prev2Phase: make([]float64, bins),
		history:    make([]float64, historySize),
		scratch:    make([]float64, historySize),
		minGap:     max(minGap, 1),
		tempo:      NewTempo(cfg.SampleRate),
	}, nil
}

// SetThreshold implements Detector.
func (d *OnsetDetector) SetThreshold(threshold float32) {
	d.threshold = threshold
}

// SetSilence implements Detector.
func (d *OnsetDetector) SetSilence(silence float32) {
	d.silence = silence
}

// Threshold returns the current peak-picking threshold.
func (d *OnsetDetector) Threshold() float32 {
	return d.threshold
}

// Silence returns the current silence floor parameter.
func (d *OnsetDetector) Silence() float32 {
	return d.silence
}

// BPM implements TempoReporter.
func (d *OnsetDetector) BPM() float64 {
	return d.tempo.BPM()
}

// Process implements Detector.
func (d *OnsetDetector) Process(window []float32) (float32, error) {
	if len(window) != d.cfg.WindowSize {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrWindowSize, len(window), d.cfg.WindowSize)
	}

	d.spectrum.compute(window)
	odf := d.odf()
	d.shiftSpectra()

	frame := d.frames
	d.frames++
	start := d.position
	d.position += uint64(d.cfg.HopSize)

	hit := d.pick(odf, frame) && !isSilent(window, d.silence)
	d.pushHistory(odf)
	d.prevODF = odf

	if !hit {
		return 0, nil
	}

	d.lastHit = frame
	d.hasHit = true

	offset := onsetOffset(window, d.cfg.HopSize)
	d.tempo.Observe(start + uint64(offset) - 1)
	return float32(offset), nil
}

// Reset clears the detector history; parameters are kept.
func (d *OnsetDetector) Reset() {
	clear(d.prevMag)
	clear(d.prevPhase)
	clear(d.prev2Phase)
	clear(d.history)
	d.histPos, d.histLen = 0, 0
	d.prevODF = 0
	d.frames, d.lastHit, d.hasHit = 0, 0, false
	d.position = 0
	d.tempo.Reset()
}

// odf evaluates the configured onset detection function on the current
// spectrum against the previous ones.
func (d *OnsetDetector) odf() float64 {
	mag := d.spectrum.magnitude
	var sum float64

	switch d.cfg.Mode {
	case Energy:
		for _, m := range mag {
			sum += m * m
		}
	case SpectralFlux:
		for i, m := range mag {
			if diff := m - d.prevMag[i]; diff > 0 {
				sum += diff
			}
		}
	default: // ComplexDomain
		phase := d.spectrum.phase
		for i, m := range mag {
			predicted := 2*d.prevPhase[i] - d.prev2Phase[i]
			target := cmplx.Rect(d.prevMag[i], predicted)
			sum += cmplx.Abs(cmplx.Rect(m, phase[i]) - target)
		}
	}
	return sum
}

func (d *OnsetDetector) shiftSpectra() {
	copy(d.prev2Phase, d.prevPhase)
	copy(d.prevPhase, d.spectrum.phase)
	copy(d.prevMag, d.spectrum.magnitude)
}

// pick applies the adaptive threshold to odf: it must exceed
// median(history) + threshold*mean(history), be rising, and come at least
// minGap frames after the previous onset.
func (d *OnsetDetector) pick(odf float64, frame uint64) bool {
	if frame < warmupFrames || d.histLen == 0 {
		return false
	}
	if d.hasHit && frame-d.lastHit < d.minGap {
		return false
	}
	if odf <= d.prevODF {
		return false
	}

	hist := d.scratch[:d.histLen]
	copy(hist, d.history[:d.histLen])
	slices.Sort(hist)

	var median float64
	if n := len(hist); n%2 == 1 {
		median = hist[n/2]
	} else {
		median = (hist[n/2-1] + hist[n/2]) / 2
	}
	mean := stat.Mean(hist, nil)

	return odf > median+float64(d.threshold)*mean+odfFloor
}

func (d *OnsetDetector) pushHistory(odf float64) {
	d.history[d.histPos] = odf
	d.histPos = (d.histPos + 1) % len(d.history)
	if d.histLen < len(d.history) {
		d.histLen++
	}
}

// onsetOffset locates the onset inside the window as the 1-based position of
// the largest rise in absolute amplitude between consecutive sub-blocks. The
// block size is a quarter hop so the estimate is finer than the hop.
func onsetOffset(window []float32, hop int) int {
	block := max(hop/4, 1)
	var (
		prev     float64
		bestRise = math.Inf(-1)
		best     int
	)
	for start := 0; start < len(window); start += block {
		end := min(start+block, len(window))
		var peak float64
		for _, v := range window[start:end] {
			peak = math.Max(peak, math.Abs(float64(v)))
		}
		if rise := peak - prev; rise > bestRise {
			bestRise = rise
			best = start
		}
		prev = peak
	}
	return best + 1
}
