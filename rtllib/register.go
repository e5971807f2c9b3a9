// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

// Package rtllib provides a library of reusable module specifications for
// rtlsim.
//
package rtllib

import (
	"strconv"

	"github.com/avernet/rtlsim"
)

// common port names
const (
	pClk = "clk"
	pRst = "rst"
	pIn  = "in"
	pOut = "out"
)

// Register returns a clocked D register with synchronous load and
// asynchronous active-high reset.
//
//	Parameters: width
//	Inputs:     clk, rst, d[width]
//	Outputs:    q[width]
//	Function:   q(t) = d(t-1), cleared while rst is high
//
var Register = &rtlsim.ModuleSpec{
	Name:   "register",
	Params: rtlsim.Params{"width": 8},
	Ports: []rtlsim.Port{
		{Name: pClk, Width: 1, Dir: rtlsim.In},
		{Name: pRst, Width: 1, Dir: rtlsim.In},
		{Name: "d", WidthParam: "width", Dir: rtlsim.In},
		{Name: "q", WidthParam: "width", Dir: rtlsim.Out},
	},
	Build: func(b *rtlsim.Builder) error {
		w := b.Param("width")
		clk, rst := b.Port(pClk), b.Port(pRst)
		d, q := b.Port("d"), b.Port("q")
		b.Always([]rtlsim.Edge{rtlsim.PosEdge(clk), rtlsim.PosEdge(rst)}, func(p *rtlsim.Proc) {
			if p.Get(rst).Bit(0) == 1 {
				p.Set(q, rtlsim.FromUint(w, 0))
			} else {
				p.Set(q, p.Get(d))
			}
		})
		return nil
	},
}

// Pipeline returns a register chain of the given depth, one Register
// instance per stage.
//
//	Parameters: width, depth
//	Inputs:     clk, rst, in[width]
//	Outputs:    out[width]
//	Function:   out(t) = in(t-depth)
//
var Pipeline = &rtlsim.ModuleSpec{
	Name:   "pipeline",
	Params: rtlsim.Params{"width": 8, "depth": 4},
	Ports: []rtlsim.Port{
		{Name: pClk, Width: 1, Dir: rtlsim.In},
		{Name: pRst, Width: 1, Dir: rtlsim.In},
		{Name: pIn, WidthParam: "width", Dir: rtlsim.In},
		{Name: pOut, WidthParam: "width", Dir: rtlsim.Out},
	},
	Build: func(b *rtlsim.Builder) error {
		w, depth := b.Param("width"), b.Param("depth")
		clk, rst := b.Port(pClk), b.Port(pRst)
		prev := b.Port(pIn)
		for i := 0; i < depth; i++ {
			q := b.Port(pOut)
			if i < depth-1 {
				q = b.Wire("s"+strconv.Itoa(i), w)
			}
			_, err := b.Instance("stage"+strconv.Itoa(i), Register,
				rtlsim.Params{"width": w},
				map[string]*rtlsim.Signal{pClk: clk, pRst: rst, "d": prev, "q": q})
			if err != nil {
				return err
			}
			prev = q
		}
		return nil
	},
}
