// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/bubbles/key"

type visualizerKeyMap struct {
	Toggle        key.Binding
	ThresholdDown key.Binding
	ThresholdUp   key.Binding
	SilenceDown   key.Binding
	SilenceUp     key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// ShortHelp implements help.KeyMap.
func (k visualizerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k visualizerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Help, k.Quit},
		{k.ThresholdDown, k.ThresholdUp},
		{k.SilenceDown, k.SilenceUp},
	}
}

var visualizerKeys = visualizerKeyMap{
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "start/stop"),
	),
	ThresholdDown: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "threshold -"),
	),
	ThresholdUp: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "threshold +"),
	),
	SilenceDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "silence -"),
	),
	SilenceUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "silence +"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Back:   key.NewBinding(key.WithKeys("esc")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
}
