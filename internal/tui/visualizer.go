// SPDX-License-Identifier: MIT
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"beatpulse/internal/pulse"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// paramStep is the slider increment for threshold and silence.
const paramStep = 0.05

// sliderWidth is the number of cells in a rendered slider.
const sliderWidth = 20

// Ticker is the analysis loop as seen by the visualizer.
type Ticker interface {
	Tick() (pulse.Frame, error)
	Apply(cmd pulse.Command)
	Params() pulse.Params
}

// Player starts and stops the capture stream.
type Player interface {
	Toggle() error
	IsPlaying() bool
}

type tickMsg time.Time

// Visualizer is the Bubble Tea model drawing the beat pulse. Every tick
// drives one analysis loop step.
type Visualizer struct {
	loop      Ticker
	player    Player
	device    string
	interval  time.Duration
	maxRadius int

	frame  pulse.Frame
	params pulse.Params
	keys   visualizerKeyMap
	help   help.Model
	err    error
}

// NewVisualizer creates a visualizer ticking loop fps times per second and
// drawing a pulse of at most maxRadius rows.
func NewVisualizer(loop Ticker, player Player, device string, fps, maxRadius int) Visualizer {
	return Visualizer{
		loop:      loop,
		player:    player,
		device:    device,
		interval:  time.Second / time.Duration(max(fps, 1)),
		maxRadius: max(maxRadius, 1),
		params:    loop.Params(),
		keys:      visualizerKeys,
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m Visualizer) Init() tea.Cmd {
	return m.tick()
}

func (m Visualizer) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Visualizer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tickMsg:
		frame, err := m.loop.Tick()
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.frame = frame
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Toggle):
			if err := m.player.Toggle(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.frame.Playing = m.player.IsPlaying()

		case key.Matches(msg, m.keys.ThresholdDown):
			m.setThreshold(m.params.Threshold - paramStep)
		case key.Matches(msg, m.keys.ThresholdUp):
			m.setThreshold(m.params.Threshold + paramStep)
		case key.Matches(msg, m.keys.SilenceDown):
			m.setSilence(m.params.Silence - paramStep)
		case key.Matches(msg, m.keys.SilenceUp):
			m.setSilence(m.params.Silence + paramStep)

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

func (m *Visualizer) setThreshold(v float32) {
	m.loop.Apply(pulse.SetThreshold(clamp01(v)))
	m.params = m.loop.Params()
}

func (m *Visualizer) setSilence(v float32) {
	m.loop.Apply(pulse.SetSilence(clamp01(v)))
	m.params = m.loop.Params()
}

// Err returns the error that stopped the program, if any.
func (m Visualizer) Err() error {
	return m.err
}

// View implements tea.Model.
func (m Visualizer) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	state := dimStyle.Render("⏸ paused")
	if m.frame.Playing {
		state = highlightStyle.Render("▶ listening")
	}

	bpm := "--"
	if m.frame.BPM > 0 {
		bpm = fmt.Sprintf("%.0f", m.frame.BPM)
	}

	status := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("beatpulse"),
		"",
		infoStyle.Render(m.device),
		state,
		"",
		renderSlider("Threshold", m.params.Threshold),
		renderSlider("Silence  ", m.params.Silence),
		"",
		infoStyle.Render("BPM      "+bpm),
		dimStyle.Render(fmt.Sprintf("Dropped  %d", m.frame.Dropped)),
	)

	circle := renderPulse(m.frame.Strength, m.maxRadius)
	body := lipgloss.JoinHorizontal(lipgloss.Top, circle, "   ", status)

	return body + "\n\n" + m.help.View(m.keys) + "\n"
}

// renderPulse draws a filled circle whose radius is strength*maxRadius rows
// inside a fixed box, so the layout does not jump as it shrinks. Terminal
// cells are about twice as tall as wide, hence the doubled width.
func renderPulse(strength float32, maxRadius int) string {
	radius := float64(clamp01(strength)) * float64(maxRadius)
	style := pulseStyle
	if strength > 0.7 {
		style = beatStyle
	}

	var sb strings.Builder
	for y := -maxRadius; y <= maxRadius; y++ {
		var row strings.Builder
		for x := -2 * maxRadius; x <= 2*maxRadius; x++ {
			fx, fy := float64(x)/2, float64(y)
			if radius > 0 && fx*fx+fy*fy <= radius*radius {
				row.WriteRune('█')
			} else {
				row.WriteRune(' ')
			}
		}
		sb.WriteString(style.Render(row.String()))
		if y < maxRadius {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func renderSlider(label string, v float32) string {
	filled := int(clamp01(v)*sliderWidth + 0.5)
	bar := highlightStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", sliderWidth-filled))
	return fmt.Sprintf("%s %s %.2f", label, bar, v)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// RunVisualizer runs the visualizer until the user quits or ctx is
// cancelled. It returns the tick or device error that stopped it, if any.
func RunVisualizer(ctx context.Context, m Visualizer) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}
	if v, ok := final.(Visualizer); ok {
		return v.Err()
	}
	return nil
}
