// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"fmt"
	"strings"
)

// MalformedValueError is returned when constructing a Value with an invalid
// width.
//
type MalformedValueError struct {
	Width int
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed value: width %d, must be at least 1", e.Width)
}

// CombinationalCycleError is returned by Elaborate when the continuous
// assignments of a design form a dependency cycle not broken by a register.
// Signals lists the hierarchical path of every signal involved in a cycle.
//
type CombinationalCycleError struct {
	Signals []string
}

func (e *CombinationalCycleError) Error() string {
	return "combinational cycle through " + strings.Join(e.Signals, " -> ")
}

// PortWidthMismatchError is returned by Elaborate when a child instance port
// is connected to a parent signal of a different width.
//
type PortWidthMismatchError struct {
	Instance    string
	Port        string
	PortWidth   int
	SignalWidth int
}

func (e *PortWidthMismatchError) Error() string {
	return fmt.Sprintf("instance %s: port %s is %d bits wide, connected signal is %d bits wide",
		e.Instance, e.Port, e.PortWidth, e.SignalWidth)
}

// OscillationError is returned by Sim.Run when combinational settling does
// not reach quiescence within the configured delta-cycle bound. Signals
// lists the signals that were still changing when the bound was hit.
// Signal values committed before the abort remain readable through Peek.
//
type OscillationError struct {
	Time    uint64
	Signals []string
}

func (e *OscillationError) Error() string {
	return fmt.Sprintf("no quiescence at time %d, still unstable: %s",
		e.Time, strings.Join(e.Signals, ", "))
}

// UnknownSignalError is returned by the stimulus and observation APIs when a
// hierarchical path does not name a signal in the design.
//
type UnknownSignalError struct {
	Path string
}

func (e *UnknownSignalError) Error() string {
	return "unknown signal " + e.Path
}
