// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtllib

import "github.com/avernet/rtlsim"

// Counter returns a free-running counter with enable and active-high reset.
//
//	Parameters: width
//	Inputs:     clk, rst, en
//	Outputs:    q[width]
//	Function:   q wraps modulo 2^width
//
var Counter = &rtlsim.ModuleSpec{
	Name:   "counter",
	Params: rtlsim.Params{"width": 8},
	Ports: []rtlsim.Port{
		{Name: pClk, Width: 1, Dir: rtlsim.In},
		{Name: pRst, Width: 1, Dir: rtlsim.In},
		{Name: "en", Width: 1, Dir: rtlsim.In},
		{Name: "q", WidthParam: "width", Dir: rtlsim.Out},
	},
	Build: func(b *rtlsim.Builder) error {
		w := b.Param("width")
		clk, rst, en := b.Port(pClk), b.Port(pRst), b.Port("en")
		q := b.Port("q")
		b.Always([]rtlsim.Edge{rtlsim.PosEdge(clk), rtlsim.PosEdge(rst)}, func(p *rtlsim.Proc) {
			switch {
			case p.Get(rst).Bit(0) == 1:
				p.Set(q, rtlsim.FromUint(w, 0))
			case p.Get(en).Bit(0) == 1:
				p.Set(q, p.Get(q).Add(rtlsim.FromUint(w, 1)))
			}
		})
		return nil
	},
}
