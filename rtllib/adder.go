// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtllib

import "github.com/avernet/rtlsim"

// Adder returns a registered adder: y is the sum of a and b sampled at the
// previous clock edge, truncated to width bits.
//
//	Parameters: width
//	Inputs:     clk, a[width], b[width]
//	Outputs:    y[width]
//
var Adder = &rtlsim.ModuleSpec{
	Name:   "adder",
	Params: rtlsim.Params{"width": 32},
	Ports:  adderPorts,
	Build: func(b *rtlsim.Builder) error {
		clk := b.Port(pClk)
		a, bb, y := b.Port("a"), b.Port("b"), b.Port("y")
		b.Always([]rtlsim.Edge{rtlsim.PosEdge(clk)}, func(p *rtlsim.Proc) {
			p.Set(y, p.Get(a).Add(p.Get(bb)))
		})
		return nil
	},
}

// RippleAdder computes the same function as Adder one bit at a time,
// carry-chain style. Functionally interchangeable with Adder; kept as the
// reference implementation for equivalence testing.
//
var RippleAdder = &rtlsim.ModuleSpec{
	Name:   "ripple_adder",
	Params: rtlsim.Params{"width": 32},
	Ports:  adderPorts,
	Build: func(b *rtlsim.Builder) error {
		w := b.Param("width")
		clk := b.Port(pClk)
		a, bb, y := b.Port("a"), b.Port("b"), b.Port("y")
		b.Always([]rtlsim.Edge{rtlsim.PosEdge(clk)}, func(p *rtlsim.Proc) {
			va, vb := p.Get(a), p.Get(bb)
			sum := rtlsim.FromUint(w, 0)
			carry := uint(0)
			for i := 0; i < w; i++ {
				ai, bi := va.Bit(i), vb.Bit(i)
				s := ai ^ bi ^ carry
				carry = ai&bi | carry&(ai^bi)
				if s == 1 {
					sum = sum.Or(rtlsim.FromUint(w, 1).Shl(i))
				}
			}
			p.Set(y, sum)
		})
		return nil
	},
}

var adderPorts = []rtlsim.Port{
	{Name: pClk, Width: 1, Dir: rtlsim.In},
	{Name: "a", WidthParam: "width", Dir: rtlsim.In},
	{Name: "b", WidthParam: "width", Dir: rtlsim.In},
	{Name: "y", WidthParam: "width", Dir: rtlsim.Out},
}
