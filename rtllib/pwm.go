// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtllib

import "github.com/avernet/rtlsim"

// PWM returns a pulse-width modulator: a free-running counter compared
// against a duty threshold. out is high while the counter is below duty.
//
//	Parameters: width
//	Inputs:     clk, rst, duty[width]
//	Outputs:    out
//
var PWM = &rtlsim.ModuleSpec{
	Name:   "pwm",
	Params: rtlsim.Params{"width": 8},
	Ports: []rtlsim.Port{
		{Name: pClk, Width: 1, Dir: rtlsim.In},
		{Name: pRst, Width: 1, Dir: rtlsim.In},
		{Name: "duty", WidthParam: "width", Dir: rtlsim.In},
		{Name: pOut, Width: 1, Dir: rtlsim.Out},
	},
	Build: func(b *rtlsim.Builder) error {
		w := b.Param("width")
		duty, out := b.Port("duty"), b.Port(pOut)
		cnt := b.Wire("cnt", w)
		one := b.Wire("one", 1)
		b.Assign(one, nil, func(*rtlsim.Eval) rtlsim.Value {
			return rtlsim.FromUint(1, 1)
		})
		_, err := b.Instance("cnt0", Counter, rtlsim.Params{"width": w},
			map[string]*rtlsim.Signal{pClk: b.Port(pClk), pRst: b.Port(pRst), "en": one, "q": cnt})
		if err != nil {
			return err
		}
		b.Assign(out, []*rtlsim.Signal{cnt, duty}, func(e *rtlsim.Eval) rtlsim.Value {
			if e.Get(cnt).Cmp(e.Get(duty)) < 0 {
				return rtlsim.FromUint(1, 1)
			}
			return rtlsim.FromUint(1, 0)
		})
		return nil
	},
}
