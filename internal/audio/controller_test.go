// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_PlayPauseIdempotent(t *testing.T) {
	stream := &fakeStream{}
	c := NewController(stream)
	assert.False(t, c.IsPlaying())

	require.NoError(t, c.Play())
	require.NoError(t, c.Play())
	assert.True(t, c.IsPlaying())
	assert.Equal(t, 1, stream.starts, "play while playing is a no-op")

	require.NoError(t, c.Pause())
	require.NoError(t, c.Pause())
	assert.False(t, c.IsPlaying())
	assert.Equal(t, 1, stream.stops, "pause while paused is a no-op")
}

func TestController_Toggle(t *testing.T) {
	stream := &fakeStream{}
	c := NewController(stream)

	require.NoError(t, c.Toggle())
	assert.True(t, c.IsPlaying())
	require.NoError(t, c.Toggle())
	assert.False(t, c.IsPlaying())
	assert.Equal(t, 1, stream.starts)
	assert.Equal(t, 1, stream.stops)
}

func TestController_DeviceErrors(t *testing.T) {
	boom := errors.New("device unplugged")

	t.Run("Start", func(t *testing.T) {
		c := NewController(&fakeStream{startErr: boom})
		err := c.Play()
		assert.ErrorIs(t, err, ErrDevice)
		assert.ErrorIs(t, err, boom)
		assert.False(t, c.IsPlaying())
	})

	t.Run("Stop", func(t *testing.T) {
		c := NewController(&fakeStream{stopErr: boom})
		require.NoError(t, c.Play())
		err := c.Pause()
		assert.ErrorIs(t, err, ErrDevice)
		assert.ErrorIs(t, err, boom)
		assert.True(t, c.IsPlaying(), "a failed stop leaves the state unchanged")
	})

	t.Run("Close", func(t *testing.T) {
		c := NewController(&fakeStream{closeErr: boom})
		err := c.Close()
		assert.ErrorIs(t, err, ErrDevice)
		assert.True(t, IsDeviceError(err))
	})
}

func TestController_Close(t *testing.T) {
	stream := &fakeStream{}
	c := NewController(stream)
	require.NoError(t, c.Play())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.False(t, c.IsPlaying())
	assert.Equal(t, 1, stream.stops, "close stops a playing stream")
	assert.Equal(t, 1, stream.closes, "second close is a no-op")

	assert.ErrorIs(t, c.Play(), ErrDevice)
	assert.ErrorIs(t, c.Pause(), ErrDevice)
}
