// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

// An Eval is the read-only view handed to continuous-assignment functions.
//
type Eval struct {
	t uint64
}

// Get returns the current value of s.
//
func (e *Eval) Get(s *Signal) Value { return s.val }

// Time returns the current simulated time.
//
func (e *Eval) Time() uint64 { return e.t }

// A Proc is the evaluation view handed to Comb and Always process bodies.
// Reads always observe committed values. For an Always process, Set stages
// a non-blocking write applied only after every process triggered by the
// same edge has run; for a Comb process, Set takes effect as soon as the
// body returns.
//
type Proc struct {
	t      uint64
	writes []write
}

type write struct {
	sig *Signal
	val Value
}

// Get returns the current committed value of s.
//
func (p *Proc) Get(s *Signal) Value { return p.sigVal(s) }

func (p *Proc) sigVal(s *Signal) Value { return s.val }

// Set schedules v as the new value of s. v is truncated or extended to s's
// declared width at this assignment boundary.
//
func (p *Proc) Set(s *Signal, v Value) {
	p.writes = append(p.writes, write{sig: s, val: v.coerce(s.width, s.signed)})
}

// Time returns the current simulated time.
//
func (p *Proc) Time() uint64 { return p.t }

// assign is a continuous assignment: dst = fn(deps). Part of the static
// netlist graph.
type assign struct {
	dst  *Signal
	deps []*Signal
	fn   func(e *Eval) Value
	ord  int // topological evaluation order, derived at elaboration
}

// combProc is a free-form combinational process with an explicit
// sensitivity list.
type combProc struct {
	sense []*Signal
	fn    func(p *Proc)
	ord   int // registration order
}

// seqProc is an edge-triggered process.
type seqProc struct {
	edges []Edge
	fn    func(p *Proc)
}

func (s *seqProc) triggered(changed []*Signal) bool {
	for _, e := range s.edges {
		for _, c := range changed {
			if c == e.Signal && e.Signal.edge(e.Kind) {
				return true
			}
		}
	}
	return false
}
