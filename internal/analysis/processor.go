// SPDX-License-Identifier: MIT
package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWindowSize is returned by Detector.Process for a window whose length
// differs from the configured window size.
var ErrWindowSize = errors.New("analysis: window size mismatch")

// Detector is the onset/tempo detection function driven by the analysis loop.
// Calls are made from a single goroutine; implementations need no locking.
// Successive Process calls are expected to advance by one hop.
type Detector interface {
	// SetThreshold sets the peak-picking threshold in [0,1]. Lower values
	// report more onsets.
	SetThreshold(threshold float32)

	// SetSilence sets the silence floor in [0,1]. Windows quieter than the
	// floor never report an onset.
	SetSilence(silence float32)

	// Process analyses one window and returns the 1-based sample position of
	// a detected onset inside it, or 0 when there is none. An error means the
	// detector was misconfigured and cannot make progress.
	Process(window []float32) (float32, error)
}

// TempoReporter is implemented by detectors that also track tempo.
type TempoReporter interface {
	BPM() float64
}

// OnsetMode selects the onset detection function.
type OnsetMode int

const (
	// Energy follows the total spectral energy of each window.
	Energy OnsetMode = iota
	// SpectralFlux sums the positive magnitude change per bin.
	SpectralFlux
	// ComplexDomain measures the deviation from the magnitude and phase
	// predicted by the two previous windows.
	ComplexDomain
)

// String returns the configuration name of the mode.
func (m OnsetMode) String() string {
	switch m {
	case Energy:
		return "energy"
	case SpectralFlux:
		return "specflux"
	case ComplexDomain:
		return "complex"
	default:
		return "unknown"
	}
}

// ParseOnsetMode converts a configuration name (case-insensitive) to an
// OnsetMode. Unknown names return ComplexDomain and an error.
func ParseOnsetMode(name string) (OnsetMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "energy":
		return Energy, nil
	case "specflux", "spectralflux", "flux":
		return SpectralFlux, nil
	case "complex", "complexdomain", "":
		return ComplexDomain, nil
	default:
		return ComplexDomain, fmt.Errorf("unknown onset mode: '%s'", name)
	}
}
