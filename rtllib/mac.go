// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtllib

import (
	"strconv"

	"github.com/avernet/rtlsim"
)

// FIR returns a direct-form multiply-accumulate filter. Each clock edge
// shifts the input sample into a delay line and registers the full-width
// dot product of the line with the coefficient array, so y lags x by one
// cycle. Products are widened before accumulation; truncation to the
// output width happens only at the final assignment.
//
//	Parameters: width, outwidth, taps ([]int64 coefficients)
//	Inputs:     clk, rst, x[width] (signed)
//	Outputs:    y[outwidth] (signed)
//
var FIR = &rtlsim.ModuleSpec{
	Name: "fir",
	Params: rtlsim.Params{
		"width":    16,
		"outwidth": 40,
		"taps":     []int64{1, 2, 1},
	},
	Ports: []rtlsim.Port{
		{Name: pClk, Width: 1, Dir: rtlsim.In},
		{Name: pRst, Width: 1, Dir: rtlsim.In},
		{Name: "x", WidthParam: "width", Signed: true, Dir: rtlsim.In},
		{Name: "y", WidthParam: "outwidth", Signed: true, Dir: rtlsim.Out},
	},
	Build: func(b *rtlsim.Builder) error {
		w := b.Param("width")
		ow := b.Param("outwidth")
		taps := b.ParamInts("taps")

		clk, rst := b.Port(pClk), b.Port(pRst)
		x, y := b.Port("x"), b.Port("y")

		// per-instance immutable copy of the coefficient table
		coef := make([]rtlsim.Value, len(taps))
		for i, c := range taps {
			coef[i] = rtlsim.FromInt(w, c)
		}

		line := make([]*rtlsim.Signal, len(taps)-1)
		for i := range line {
			line[i] = b.SignedReg("xd"+strconv.Itoa(i), w)
		}

		b.Always([]rtlsim.Edge{rtlsim.PosEdge(clk), rtlsim.PosEdge(rst)}, func(p *rtlsim.Proc) {
			if p.Get(rst).Bit(0) == 1 {
				for _, d := range line {
					p.Set(d, rtlsim.FromInt(w, 0))
				}
				p.Set(y, rtlsim.FromInt(ow, 0))
				return
			}
			acc := p.Get(x).Mul(coef[0])
			for i := 1; i < len(coef); i++ {
				acc = acc.Add(p.Get(line[i-1]).Mul(coef[i]))
			}
			p.Set(y, acc)

			if len(line) > 0 {
				p.Set(line[0], p.Get(x))
				for i := 1; i < len(line); i++ {
					p.Set(line[i], p.Get(line[i-1]))
				}
			}
		})
		return nil
	},
}
