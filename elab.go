// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"strings"

	"github.com/pkg/errors"
)

// An Instance is one node of the elaborated module tree. It owns its local
// signals and child instances; port signals are references into the parent
// and are not owned.
//
type Instance struct {
	name   string
	spec   *ModuleSpec
	parent *Instance
	params Params

	signals     []*Signal // declaration order, owned signals only
	sigByName   map[string]*Signal
	children    []*Instance
	childByName map[string]*Instance
}

// Name returns the instance name within its parent.
//
func (i *Instance) Name() string { return i.name }

// Path returns the hierarchical dot path of the instance, starting at the
// top-level module's name.
//
func (i *Instance) Path() string {
	if i.parent == nil {
		return i.name
	}
	return i.parent.Path() + "." + i.name
}

// Child returns the named child instance, or nil.
//
func (i *Instance) Child(name string) *Instance { return i.childByName[name] }

// A Design is a fully elaborated, immutable module tree together with the
// evaluation schedule derived from it. Designs are produced by Elaborate
// and consumed by Sim.
//
type Design struct {
	root    *Instance
	signals []*Signal
	assigns []*assign // topological evaluation order
	combs   []*combProc
	seqs    []*seqProc

	fanout    [][]*assign   // per signal id, assigns reading that signal
	combSense [][]*combProc // per signal id, Comb processes sensitive to it
}

// Root returns the top-level instance of the design.
//
func (d *Design) Root() *Instance { return d.root }

// Lookup resolves a hierarchical dot path, relative to the top-level
// instance, to a signal. It returns an UnknownSignalError if no signal has
// that path.
//
func (d *Design) Lookup(path string) (*Signal, error) {
	parts := strings.Split(path, ".")
	inst := d.root
	for _, p := range parts[:len(parts)-1] {
		inst = inst.childByName[p]
		if inst == nil {
			return nil, &UnknownSignalError{Path: path}
		}
	}
	s, ok := inst.sigByName[parts[len(parts)-1]]
	if !ok {
		return nil, &UnknownSignalError{Path: path}
	}
	return s, nil
}

// elabState accumulates signals and processes while the module tree is
// being built.
type elabState struct {
	signals []*Signal
	assigns []*assign
	combs   []*combProc
	seqs    []*seqProc
}

func (es *elabState) addSignal(s *Signal) {
	s.id = len(es.signals)
	es.signals = append(es.signals, s)
}

func (es *elabState) addAssign(a *assign) { es.assigns = append(es.assigns, a) }
func (es *elabState) addComb(c *combProc) {
	c.ord = len(es.combs)
	es.combs = append(es.combs, c)
}
func (es *elabState) addSeq(s *seqProc)   { es.seqs = append(es.seqs, s) }

// Elaborate builds the module tree rooted at top, binds parameters and port
// connections, checks the combinational dependency graph and derives the
// topological evaluation order. Any error aborts elaboration entirely: no
// partial design is returned.
//
func Elaborate(top *ModuleSpec, params Params) (*Design, error) {
	es := &elabState{}

	root := &Instance{
		name:        top.Name,
		spec:        top,
		params:      params.merged(top.Params),
		sigByName:   make(map[string]*Signal),
		childByName: make(map[string]*Instance),
	}
	b := &Builder{inst: root, es: es}
	for i := range top.Ports {
		p := &top.Ports[i]
		w, err := top.portWidth(p, root.params)
		if err != nil {
			return nil, err
		}
		kind := PortIn
		if p.Dir == Out {
			kind = PortOut
		}
		b.declare(p.Name, w, p.Signed, kind)
	}
	if top.Build != nil {
		if err := top.Build(b); err != nil {
			return nil, errors.WithMessage(err, "build "+root.Path())
		}
	}

	d := &Design{
		root:    root,
		signals: es.signals,
		combs:   es.combs,
		seqs:    es.seqs,
	}
	assigns, err := orderAssigns(es)
	if err != nil {
		return nil, err
	}
	d.assigns = assigns

	d.fanout = make([][]*assign, len(d.signals))
	for _, a := range d.assigns {
		for _, dep := range a.deps {
			d.fanout[dep.id] = append(d.fanout[dep.id], a)
		}
	}
	d.combSense = make([][]*combProc, len(d.signals))
	for _, c := range d.combs {
		for _, s := range c.sense {
			d.combSense[s.id] = append(d.combSense[s.id], c)
		}
	}
	return d, nil
}

// instantiate elaborates spec as a child of parent. Called from
// Builder.Instance.
func (es *elabState) instantiate(parent *Instance, name string, spec *ModuleSpec, params Params, conns map[string]*Signal) (*Instance, error) {
	if _, dup := parent.childByName[name]; dup {
		return nil, errors.Errorf("instance %s: duplicate child %q", parent.Path(), name)
	}
	inst := &Instance{
		name:        name,
		spec:        spec,
		parent:      parent,
		params:      params.merged(spec.Params),
		sigByName:   make(map[string]*Signal),
		childByName: make(map[string]*Instance),
	}

	// bind ports to parent signals, by reference
	bound := make(map[string]bool, len(conns))
	for i := range spec.Ports {
		p := &spec.Ports[i]
		w, err := spec.portWidth(p, inst.params)
		if err != nil {
			return nil, err
		}
		sig, ok := conns[p.Name]
		if !ok || sig == nil {
			return nil, errors.Errorf("instance %s: port %s not connected", inst.Path(), p.Name)
		}
		if sig.width != w {
			return nil, &PortWidthMismatchError{
				Instance:    inst.Path(),
				Port:        p.Name,
				PortWidth:   w,
				SignalWidth: sig.width,
			}
		}
		inst.sigByName[p.Name] = sig
		bound[p.Name] = true
	}
	for n := range conns {
		if !bound[n] {
			return nil, errors.Errorf("instance %s: module %s has no port %q", inst.Path(), spec.Name, n)
		}
	}

	parent.children = append(parent.children, inst)
	parent.childByName[name] = inst

	if spec.Build != nil {
		b := &Builder{inst: inst, es: es}
		if err := spec.Build(b); err != nil {
			return nil, errors.WithMessage(err, "build "+inst.Path())
		}
	}
	return inst, nil
}
