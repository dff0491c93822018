// SPDX-License-Identifier: MIT
package analysis

import "slices"

// Tempo range accepted by the estimator. Inter-onset intervals outside it
// are treated as off-beat onsets and skipped.
const (
	MinBPM = 40.0
	MaxBPM = 240.0

	tempoIntervals = 8
)

// Tempo estimates beats per minute from onset positions as the median of the
// most recent inter-onset intervals.
type Tempo struct {
	sampleRate float64
	minIOI     float64
	maxIOI     float64

	last    uint64
	hasLast bool

	intervals []float64
	pos       int
	n         int
	scratch   []float64
	bpm       float64
}

// NewTempo creates an estimator for positions counted at sampleRate.
func NewTempo(sampleRate float64) *Tempo {
	return &Tempo{
		sampleRate: sampleRate,
		minIOI:     sampleRate * 60 / MaxBPM,
		maxIOI:     sampleRate * 60 / MinBPM,
		intervals:  make([]float64, tempoIntervals),
		scratch:    make([]float64, tempoIntervals),
	}
}

// Observe records an onset at the absolute sample position pos. Positions
// must not decrease.
func (t *Tempo) Observe(pos uint64) {
	prev, had := t.last, t.hasLast
	t.last, t.hasLast = pos, true
	if !had || pos <= prev {
		return
	}

	ioi := float64(pos - prev)
	if ioi < t.minIOI || ioi > t.maxIOI {
		return
	}

	t.intervals[t.pos] = ioi
	t.pos = (t.pos + 1) % len(t.intervals)
	if t.n < len(t.intervals) {
		t.n++
	}

	sorted := t.scratch[:t.n]
	copy(sorted, t.intervals[:t.n])
	slices.Sort(sorted)
	median := sorted[t.n/2]
	if t.n%2 == 0 {
		median = (sorted[t.n/2-1] + sorted[t.n/2]) / 2
	}
	t.bpm = 60 * t.sampleRate / median
}

// BPM returns the current estimate, or 0 before the first usable interval.
func (t *Tempo) BPM() float64 {
	return t.bpm
}

// Reset forgets all observed onsets.
func (t *Tempo) Reset() {
	clear(t.intervals)
	t.pos, t.n = 0, 0
	t.hasLast = false
	t.last = 0
	t.bpm = 0
}
