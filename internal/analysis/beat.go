// SPDX-License-Identifier: MIT
package analysis

import "math"

// silenceRangeDB is the level span covered by the silence parameter: 0 maps
// to a -90 dBFS floor and 1 maps to 0 dBFS, which gates everything.
const silenceRangeDB = 90.0

// calculateRMS calculates the Root Mean Square level of the buffer.
func calculateRMS(buffer []float32) float64 {
	if len(buffer) == 0 {
		return 0.0
	}

	var sumSquare float64
	for _, sample := range buffer {
		s := float64(sample)
		sumSquare += s * s
	}

	return math.Sqrt(sumSquare / float64(len(buffer)))
}

// levelDB converts an RMS level to dBFS. Digital silence is -Inf.
func levelDB(rms float64) float64 {
	if rms <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}

// silenceFloorDB maps a silence parameter in [0,1] to a dBFS floor.
func silenceFloorDB(silence float32) float64 {
	s := math.Min(1, math.Max(0, float64(silence)))
	return -silenceRangeDB * (1 - s)
}

// isSilent reports whether buffer is below the silence floor.
func isSilent(buffer []float32, silence float32) bool {
	return levelDB(calculateRMS(buffer)) < silenceFloorDB(silence)
}
