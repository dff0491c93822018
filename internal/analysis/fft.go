// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	applog "beatpulse/internal/log"
	"beatpulse/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc defines the type for selecting an FFT window function.
type WindowFunc int

// Enum for available window functions.
const (
	BartlettHann WindowFunc = iota
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

// spectrum turns one analysis window into magnitudes and phases. All buffers
// are allocated once; compute does not allocate.
type spectrum struct {
	fft       *fourier.FFT
	size      int
	input     []float64    // Windowed input signal.
	coeffs    []complex128 // FFT complex results, size/2+1.
	magnitude []float64    // |coeffs|.
	phase     []float64    // arg(coeffs).
	taper     []float64    // Pre-calculated window coefficients.
}

func newSpectrum(size int, windowType WindowFunc) (*spectrum, error) {
	if !bitint.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", size)
	}

	taper := make([]float64, size)
	applyWindow(taper, windowType)

	bins := size/2 + 1
	return &spectrum{
		fft:       fourier.NewFFT(size),
		size:      size,
		input:     make([]float64, size),
		coeffs:    make([]complex128, bins),
		magnitude: make([]float64, bins),
		phase:     make([]float64, bins),
		taper:     taper,
	}, nil
}

// compute tapers samples, runs the FFT and fills magnitude and phase.
// len(samples) must equal the spectrum size.
func (s *spectrum) compute(samples []float32) {
	for i, v := range samples {
		s.input[i] = float64(v) * s.taper[i]
	}

	s.fft.Coefficients(s.coeffs, s.input)

	for i, c := range s.coeffs {
		s.magnitude[i] = cmplx.Abs(c)
		s.phase[i] = math.Atan2(imag(c), real(c))
	}
}

// bins returns the number of magnitude bins (size/2 + 1).
func (s *spectrum) bins() int {
	return len(s.coeffs)
}

// ParseWindowFunc converts a string name (case-insensitive) to a WindowFunc
// enum, returns a known default (Hann) and an error if the name is unknown.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning", "":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return Hann, fmt.Errorf("unknown FFT window function name: '%s'", name)
	}
}

// applyWindow fills coeffs with the selected window function. Unknown types
// fall back to Hann.
func applyWindow(coeffs []float64, windowType WindowFunc) {
	// The gonum window funcs scale the slice in place, so start from ones.
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch windowType {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hann:
		window.Hann(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	default:
		applog.Warnf("Analysis: Unknown window function type %d, defaulting to Hann", windowType)
		window.Hann(coeffs)
	}
}
