// SPDX-License-Identifier: MIT
package audio

import (
	"testing"

	"beatpulse/internal/ringbuf"
	"beatpulse/pkg/utils"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSampleRate = 44100
	testFrameSize  = 256
)

func TestCapture_FirstChannelOnly(t *testing.T) {
	producer, consumer, err := ringbuf.New(2048)
	require.NoError(t, err)

	format := &audio.Format{NumChannels: 2, SampleRate: testSampleRate}
	capture := NewCapture(producer, format)

	mono := utils.GenerateSineWave(testFrameSize, testSampleRate, 440)
	capture.Process(utils.Interleave(mono, format).Data)

	require.Equal(t, testFrameSize, consumer.Len())
	got := make([]float32, testFrameSize)
	consumer.Peek(got)
	assert.Equal(t, mono, got, "only channel 0 reaches the channel")
	assert.Zero(t, capture.Dropped())
}

func TestCapture_CountsDrops(t *testing.T) {
	producer, consumer, err := ringbuf.New(2048)
	require.NoError(t, err)
	capture := NewCapture(producer, &audio.Format{NumChannels: 1, SampleRate: testSampleRate})

	first := utils.GenerateSineWave(2047, testSampleRate, 440)
	capture.Process(first)
	capture.Process([]float32{0.5, 0.25})

	assert.Equal(t, 2048, consumer.Len())
	assert.Equal(t, uint64(1), capture.Dropped())

	// Buffered data is untouched by the overflow.
	got := make([]float32, 2048)
	consumer.Peek(got)
	assert.Equal(t, first, got[:2047])
	assert.Equal(t, float32(0.5), got[2047])
}

func TestCapture_ZeroChannelFormat(t *testing.T) {
	producer, consumer, err := ringbuf.New(64)
	require.NoError(t, err)
	capture := NewCapture(producer, &audio.Format{})

	capture.Process([]float32{1, 2, 3})
	assert.Equal(t, 3, consumer.Len(), "an unset channel count is treated as mono")
}

func TestCaptureNoAllocsHotPath(t *testing.T) {
	producer, consumer, err := ringbuf.New(4096)
	require.NoError(t, err)
	format := &audio.Format{NumChannels: 2, SampleRate: testSampleRate}
	capture := NewCapture(producer, format)
	in := utils.Interleave(utils.GenerateSineWave(testFrameSize, testSampleRate, 440), format).Data

	allocs := testing.AllocsPerRun(100, func() {
		capture.Process(in)
		consumer.Discard(testFrameSize)
	})

	if allocs > 0 {
		t.Errorf("Expected zero allocations in capture callback, got %.1f", allocs)
	}
}

func BenchmarkCaptureProcess(b *testing.B) {
	producer, consumer, err := ringbuf.New(4096)
	require.NoError(b, err)
	format := &audio.Format{NumChannels: 2, SampleRate: testSampleRate}
	capture := NewCapture(producer, format)
	in := utils.Interleave(utils.GenerateSineWave(testFrameSize, testSampleRate, 440), format).Data
	b.ReportAllocs()

	for b.Loop() {
		capture.Process(in)
		consumer.Discard(testFrameSize)
	}
}
