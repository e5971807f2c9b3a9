// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"github.com/pkg/errors"
)

// Dir is the direction of a module port.
//
type Dir uint8

// Port directions.
const (
	In Dir = iota
	Out
)

// A Port declares one port of a ModuleSpec. Width may be given either as a
// literal bit count or, by setting WidthParam, as the name of an integer
// parameter resolved at instantiation time.
//
type Port struct {
	Name       string
	Width      int
	WidthParam string
	Signed     bool
	Dir        Dir
}

// Params carries the parameter bindings of a module instance. Supported
// value types are int (bit widths, depths) and []int64 (coefficient arrays,
// lookup tables).
//
type Params map[string]interface{}

func (p Params) merged(defaults Params) Params {
	m := make(Params, len(defaults)+len(p))
	for k, v := range defaults {
		m[k] = v
	}
	for k, v := range p {
		m[k] = v
	}
	return m
}

// A ModuleSpec is the blueprint of a module: its name, ports, default
// parameters and a build function. The build function runs once per
// instance during elaboration; it declares the instance's internal signals,
// processes and children through the Builder.
//
// A clocked accumulator could be declared like this:
//
//	acc := &rtlsim.ModuleSpec{
//		Name:   "acc",
//		Params: rtlsim.Params{"width": 16},
//		Ports: []rtlsim.Port{
//			{Name: "clk", Width: 1, Dir: rtlsim.In},
//			{Name: "x", WidthParam: "width", Dir: rtlsim.In},
//			{Name: "sum", WidthParam: "width", Dir: rtlsim.Out},
//		},
//		Build: func(b *rtlsim.Builder) error {
//			clk, x, sum := b.Port("clk"), b.Port("x"), b.Port("sum")
//			b.Always([]rtlsim.Edge{rtlsim.PosEdge(clk)}, func(p *rtlsim.Proc) {
//				p.Set(sum, p.Get(sum).Add(p.Get(x)))
//			})
//			return nil
//		},
//	}
//
type ModuleSpec struct {
	Name   string
	Ports  []Port
	Params Params
	Build  func(b *Builder) error
}

func (m *ModuleSpec) portWidth(p *Port, params Params) (int, error) {
	if p.WidthParam == "" {
		if p.Width < 1 {
			return 0, errors.Errorf("module %s: port %s has no width", m.Name, p.Name)
		}
		return p.Width, nil
	}
	w, ok := params[p.WidthParam].(int)
	if !ok {
		return 0, errors.Errorf("module %s: port %s: no int parameter %q", m.Name, p.Name, p.WidthParam)
	}
	if w < 1 {
		return 0, errors.Errorf("module %s: port %s: parameter %q = %d is not a valid width", m.Name, p.Name, p.WidthParam, w)
	}
	return w, nil
}

// A Builder is handed to a ModuleSpec's build function during elaboration.
// All declarations made through it belong to the instance being built.
//
type Builder struct {
	inst *Instance
	es   *elabState
}

// Param returns the int parameter bound to the given name. It panics if the
// parameter is missing or not an int; parameters are part of a module's
// contract, so a missing one is a programming error.
//
func (b *Builder) Param(name string) int {
	v, ok := b.inst.params[name].(int)
	if !ok {
		panic(errors.Errorf("instance %s: no int parameter %q", b.inst.Path(), name))
	}
	return v
}

// ParamInts returns the []int64 parameter bound to the given name, panicking
// like Param when absent.
//
func (b *Builder) ParamInts(name string) []int64 {
	v, ok := b.inst.params[name].([]int64)
	if !ok {
		panic(errors.Errorf("instance %s: no []int64 parameter %q", b.inst.Path(), name))
	}
	return v
}

// Port returns the signal bound to the named port of the instance being
// built. It panics if the module declares no such port.
//
func (b *Builder) Port(name string) *Signal {
	s, ok := b.inst.sigByName[name]
	if !ok {
		panic(errors.Errorf("instance %s: no port %q", b.inst.Path(), name))
	}
	return s
}

// Wire declares an unsigned combinational signal.
//
func (b *Builder) Wire(name string, width int) *Signal {
	return b.declare(name, width, false, Wire)
}

// SignedWire declares a signed combinational signal.
//
func (b *Builder) SignedWire(name string, width int) *Signal {
	return b.declare(name, width, true, Wire)
}

// Reg declares an unsigned registered signal.
//
func (b *Builder) Reg(name string, width int) *Signal {
	return b.declare(name, width, false, Reg)
}

// SignedReg declares a signed registered signal.
//
func (b *Builder) SignedReg(name string, width int) *Signal {
	return b.declare(name, width, true, Reg)
}

func (b *Builder) declare(name string, width int, signed bool, kind Kind) *Signal {
	if width < 1 {
		panic(&MalformedValueError{Width: width})
	}
	if _, dup := b.inst.sigByName[name]; dup {
		panic(errors.Errorf("instance %s: duplicate signal %q", b.inst.Path(), name))
	}
	s := &Signal{
		name:   name,
		width:  width,
		signed: signed,
		kind:   kind,
		owner:  b.inst,
		val:    MustNew(width, signed),
		prev:   MustNew(width, signed),
	}
	b.inst.sigByName[name] = s
	b.inst.signals = append(b.inst.signals, s)
	b.es.addSignal(s)
	return s
}

// Assign declares a continuous assignment driving dst. deps must list every
// signal the evaluation function reads: the elaborator uses it to build the
// combinational dependency graph, order evaluation topologically and reject
// cycles. fn must be idempotent for stable inputs.
//
func (b *Builder) Assign(dst *Signal, deps []*Signal, fn func(e *Eval) Value) {
	b.es.addAssign(&assign{dst: dst, deps: deps, fn: fn})
}

// Comb declares a free-form combinational process re-run whenever a signal
// in sense changes. Unlike Assign, a Comb process is not part of the static
// netlist graph; a feedback loop built from Comb processes elaborates fine
// and is caught by the runtime oscillation guard instead.
//
func (b *Builder) Comb(sense []*Signal, fn func(p *Proc)) {
	b.es.addComb(&combProc{sense: sense, fn: fn})
}

// Always declares an edge-triggered process. All processes triggered by the
// same edge read pre-edge signal values; their writes are staged and
// committed together once every triggered process has run.
//
func (b *Builder) Always(edges []Edge, fn func(p *Proc)) {
	b.es.addSeq(&seqProc{edges: edges, fn: fn})
}

// Instance elaborates spec as a child of the instance being built. conns
// binds the child's port names to signals of the parent; every port must be
// connected to a signal of exactly the port's width. params overrides the
// child's default parameters and may be nil.
//
func (b *Builder) Instance(name string, spec *ModuleSpec, params Params, conns map[string]*Signal) (*Instance, error) {
	return b.es.instantiate(b.inst, name, spec, params, conns)
}
