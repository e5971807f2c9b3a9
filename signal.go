// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

// Kind discriminates how a signal behaves between updates.
//
type Kind uint8

// Signal kinds.
const (
	Wire    Kind = iota // recomputed whenever a combinational input changes
	Reg                 // retains its value between clock edges
	PortIn              // input port of the top-level module
	PortOut             // output port of the top-level module
)

func (k Kind) String() string {
	switch k {
	case Wire:
		return "wire"
	case Reg:
		return "reg"
	case PortIn:
		return "port-in"
	case PortOut:
		return "port-out"
	}
	return "unknown"
}

// A Signal is a named, fixed-width storage element owned by exactly one
// module instance. Child instances connected through ports reference their
// parent's signal; they never own a copy.
//
type Signal struct {
	name   string
	width  int
	signed bool
	kind   Kind
	owner  *Instance

	id   int   // index into design-wide tables
	val  Value // committed value
	prev Value // value before the last commit, for edge detection
}

// Name returns the local name of s within its owning instance.
//
func (s *Signal) Name() string { return s.name }

// Width returns the declared bit width of s.
//
func (s *Signal) Width() int { return s.width }

// Signed reports whether s holds signed values.
//
func (s *Signal) Signed() bool { return s.signed }

// Kind returns the signal kind of s.
//
func (s *Signal) Kind() Kind { return s.kind }

// Value returns the current committed value of s.
//
func (s *Signal) Value() Value { return s.val }

// Path returns the hierarchical dot path of s, e.g. "top.stage0.q".
//
func (s *Signal) Path() string {
	return s.owner.Path() + "." + s.name
}

// edge reports whether the last commit to s was a transition matching k,
// judged on bit 0 as clocks and resets are single-bit signals.
func (s *Signal) edge(k EdgeKind) bool {
	was, is := s.prev.Bit(0), s.val.Bit(0)
	if k == Posedge {
		return was == 0 && is == 1
	}
	return was == 1 && is == 0
}

// EdgeKind selects the transition direction of an edge sensitivity.
//
type EdgeKind uint8

// Edge directions.
const (
	Posedge EdgeKind = iota
	Negedge
)

// An Edge is one entry of a clocked process's sensitivity list.
//
type Edge struct {
	Signal *Signal
	Kind   EdgeKind
}

// PosEdge returns a rising-edge sensitivity on s.
//
func PosEdge(s *Signal) Edge { return Edge{Signal: s, Kind: Posedge} }

// NegEdge returns a falling-edge sensitivity on s.
//
func NegEdge(s *Signal) Edge { return Edge{Signal: s, Kind: Negedge} }
