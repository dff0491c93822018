// SPDX-License-Identifier: MIT
package pulse

import "fmt"

// Default detection parameters.
const (
	DefaultThreshold = 0.3
	DefaultSilence   = 0.1
)

// Params are the user-adjustable detection parameters. The loop passes them
// through unchecked; callers keep them in [0,1].
type Params struct {
	Threshold float32
	Silence   float32
}

// DefaultParams returns the parameters the detector starts with.
func DefaultParams() Params {
	return Params{Threshold: DefaultThreshold, Silence: DefaultSilence}
}

type commandKind int

const (
	cmdThreshold commandKind = iota
	cmdSilence
)

// Command is a parameter change sent from the presentation layer to the
// loop.
type Command struct {
	kind  commandKind
	value float32
}

// SetThreshold returns a command that sets the onset threshold.
func SetThreshold(v float32) Command {
	return Command{kind: cmdThreshold, value: v}
}

// SetSilence returns a command that sets the silence floor.
func SetSilence(v float32) Command {
	return Command{kind: cmdSilence, value: v}
}

// Value returns the parameter value carried by c.
func (c Command) Value() float32 {
	return c.value
}

func (c Command) String() string {
	switch c.kind {
	case cmdThreshold:
		return fmt.Sprintf("SetThreshold(%.2f)", c.value)
	case cmdSilence:
		return fmt.Sprintf("SetSilence(%.2f)", c.value)
	default:
		return fmt.Sprintf("Command(%d)", c.kind)
	}
}

// With returns p updated by cmd.
func (p Params) With(cmd Command) Params {
	switch cmd.kind {
	case cmdThreshold:
		p.Threshold = cmd.value
	case cmdSilence:
		p.Silence = cmd.value
	}
	return p
}
