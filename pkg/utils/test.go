// SPDX-License-Identifier: MIT
package utils

import (
	"math"

	"github.com/go-audio/audio"
)

// GenerateSineWave returns a mono sine at 0.9 of full scale.
func GenerateSineWave(size int, sampleRate, frequency float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = float32(math.Sin(2*math.Pi*frequency*t) * 0.9)
	}
	return buffer
}

// GenerateClickTrain returns a mono signal of short decaying noise bursts
// spaced at the given tempo, on top of a quiet 220Hz bed so the signal never
// drops to digital silence between clicks.
func GenerateClickTrain(size int, sampleRate, bpm float64) []float32 {
	buffer := make([]float32, size)
	period := int(sampleRate * 60 / bpm)
	clickLen := int(sampleRate * 0.01) // 10ms bursts

	// Deterministic LCG so tests are reproducible without math/rand state.
	seed := uint32(22222)
	for i := range buffer {
		t := float64(i) / sampleRate
		v := 0.01 * math.Sin(2*math.Pi*220*t)

		if pos := i % period; pos < clickLen {
			seed = seed*1664525 + 1013904223
			noise := float64(int32(seed)) / float64(math.MaxInt32)
			env := 1 - float64(pos)/float64(clickLen)
			v += 0.8 * noise * env
		}
		buffer[i] = float32(v)
	}
	return buffer
}

// GenerateSilence returns size zero samples.
func GenerateSilence(size int) []float32 {
	return make([]float32, size)
}

// Interleave spreads a mono signal across the channels of format. Channel 0
// carries the signal; the remaining channels carry its inverse so a capture
// path that reads the wrong channel is easy to spot in tests.
func Interleave(mono []float32, format *audio.Format) *audio.Float32Buffer {
	channels := format.NumChannels
	if channels < 1 {
		channels = 1
	}

	data := make([]float32, len(mono)*channels)
	for i, v := range mono {
		data[i*channels] = v
		for ch := 1; ch < channels; ch++ {
			data[i*channels+ch] = -v
		}
	}

	return &audio.Float32Buffer{
		Format:         format,
		Data:           data,
		SourceBitDepth: 32,
	}
}

// Chunk splits buf into consecutive slices of at most size elements, the way
// a driver hands over hardware buffers of driver-determined length.
func Chunk(buf []float32, size int) [][]float32 {
	if size <= 0 {
		return [][]float32{buf}
	}
	var chunks [][]float32
	for len(buf) > 0 {
		n := min(size, len(buf))
		chunks = append(chunks, buf[:n])
		buf = buf[n:]
	}
	return chunks
}
