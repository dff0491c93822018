// SPDX-License-Identifier: MIT
package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"beatpulse/internal/pulse"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoop struct {
	params  pulse.Params
	frame   pulse.Frame
	err     error
	ticks   int
	applied []pulse.Command
}

func (l *fakeLoop) Tick() (pulse.Frame, error) {
	l.ticks++
	return l.frame, l.err
}

func (l *fakeLoop) Apply(cmd pulse.Command) {
	l.applied = append(l.applied, cmd)
	l.params = l.params.With(cmd)
}

func (l *fakeLoop) Params() pulse.Params { return l.params }

type fakePlayer struct {
	playing bool
	err     error
}

func (p *fakePlayer) Toggle() error {
	if p.err != nil {
		return p.err
	}
	p.playing = !p.playing
	return nil
}

func (p *fakePlayer) IsPlaying() bool { return p.playing }

func newTestVisualizer() (Visualizer, *fakeLoop, *fakePlayer) {
	loop := &fakeLoop{params: pulse.DefaultParams()}
	player := &fakePlayer{playing: true}
	return NewVisualizer(loop, player, "Test Mic", 60, 5), loop, player
}

func press(t *testing.T, m Visualizer, msg tea.KeyMsg) (Visualizer, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	v, ok := next.(Visualizer)
	require.True(t, ok)
	return v, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var (
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyQ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func TestVisualizer_ThresholdSlider(t *testing.T) {
	m, loop, _ := newTestVisualizer()

	m, _ = press(t, m, keyRight)
	assert.InDelta(t, 0.35, m.params.Threshold, 1e-6)
	m, _ = press(t, m, keyLeft)
	m, _ = press(t, m, keyLeft)
	assert.InDelta(t, 0.25, m.params.Threshold, 1e-6)
	assert.Len(t, loop.applied, 3)
}

func TestVisualizer_SlidersClamp(t *testing.T) {
	m, loop, _ := newTestVisualizer()

	for range 30 {
		m, _ = press(t, m, keyUp)
		m, _ = press(t, m, keyLeft)
	}
	assert.Equal(t, float32(1), m.params.Silence)
	assert.Equal(t, float32(0), m.params.Threshold)
	assert.Equal(t, m.params, loop.params)

	for range 30 {
		m, _ = press(t, m, keyDown)
	}
	assert.Equal(t, float32(0), m.params.Silence)
}

func TestVisualizer_SpaceToggles(t *testing.T) {
	m, _, player := newTestVisualizer()

	m, _ = press(t, m, keySpace)
	assert.False(t, player.playing)
	assert.False(t, m.frame.Playing)

	m, _ = press(t, m, keySpace)
	assert.True(t, player.playing)
	assert.True(t, m.frame.Playing)
}

func TestVisualizer_DeviceErrorQuits(t *testing.T) {
	m, _, player := newTestVisualizer()
	player.err = errors.New("device gone")

	m, cmd := press(t, m, keySpace)
	assert.True(t, isQuit(cmd))
	assert.ErrorContains(t, m.Err(), "device gone")
}

func TestVisualizer_TickDrivesLoop(t *testing.T) {
	m, loop, _ := newTestVisualizer()
	loop.frame = pulse.Frame{Strength: 0.8, Beat: true, BPM: 124, Playing: true}

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Visualizer)
	assert.Equal(t, 1, loop.ticks)
	assert.Equal(t, loop.frame, m.frame)
	assert.NotNil(t, cmd, "the next tick is scheduled")
	assert.Contains(t, m.View(), "124")
}

func TestVisualizer_TickErrorQuits(t *testing.T) {
	m, loop, _ := newTestVisualizer()
	loop.err = errors.New("detector failed")

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Visualizer)
	assert.True(t, isQuit(cmd))
	assert.ErrorContains(t, m.Err(), "detector failed")
	assert.Contains(t, m.View(), "detector failed")
}

func TestVisualizer_Quit(t *testing.T) {
	m, _, _ := newTestVisualizer()
	_, cmd := press(t, m, keyQ)
	assert.True(t, isQuit(cmd))
}

func TestRenderPulse(t *testing.T) {
	empty := renderPulse(0, 4)
	full := renderPulse(1, 4)
	half := renderPulse(0.5, 4)

	assert.Len(t, strings.Split(full, "\n"), 9, "fixed box of 2*radius+1 rows")
	assert.Len(t, strings.Split(empty, "\n"), 9)
	assert.NotContains(t, empty, "█")

	count := func(s string) int { return strings.Count(s, "█") }
	assert.Greater(t, count(full), count(half))
	assert.Greater(t, count(half), 0)
}

func TestRenderSlider(t *testing.T) {
	s := renderSlider("Threshold", 0.5)
	assert.Equal(t, 10, strings.Count(s, "█"))
	assert.Equal(t, 10, strings.Count(s, "░"))
	assert.Contains(t, s, "0.50")
}
