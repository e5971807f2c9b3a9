// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtltest

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/avernet/rtlsim"
)

// A Bench is a table of test vectors for a single design, typically loaded
// from a YAML file. Each vector spans one clock period: its set values are
// driven shortly after the period starts, and its expect values are checked
// once the period has elapsed, so an expect sees the effect of the rising
// edge within its own period.
//
//	clock: clk
//	period: 10
//	vectors:
//	  - set: {a: 2, b: 3}
//	  - expect: {y: 5}
//
type Bench struct {
	Clock   string   `yaml:"clock,omitempty"`
	Period  uint64   `yaml:"period"`
	Vectors []Vector `yaml:"vectors"`
}

// A Vector sets input signals and checks output signals for one clock
// period. Signal names are dot-paths relative to the design root.
//
type Vector struct {
	Set    map[string]uint64 `yaml:"set,omitempty"`
	Expect map[string]uint64 `yaml:"expect,omitempty"`
}

// LoadBench reads a YAML bench description.
//
func LoadBench(r io.Reader) (*Bench, error) {
	var b Bench
	if err := yaml.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.Wrap(err, "bench")
	}
	if b.Period == 0 || b.Period%2 != 0 {
		return nil, errors.Errorf("bench: period %d, want a positive even number", b.Period)
	}
	return &b, nil
}

// Run drives the bench vectors through sim and reports mismatches on t.
// Set values are truncated to the width of the signal they drive.
//
func (b *Bench) Run(t *testing.T, sim *rtlsim.Sim) {
	t.Helper()

	if b.Clock != "" {
		if err := sim.Clock(b.Clock, b.Period/2); err != nil {
			t.Fatal(err)
		}
	}
	for i, vec := range b.Vectors {
		at := uint64(i) * b.Period
		for name, raw := range vec.Set {
			cur, err := sim.Peek(name)
			if err != nil {
				t.Fatal(err)
			}
			if err := sim.Drive(name, rtlsim.FromUint(cur.Width(), raw), at+1); err != nil {
				t.Fatal(err)
			}
		}
		if err := sim.Run(at + b.Period); err != nil {
			t.Fatal(err)
		}
		for name, want := range vec.Expect {
			got, err := sim.Peek(name)
			if err != nil {
				t.Fatal(err)
			}
			if got.Uint64() != want {
				t.Errorf("vector %d: %s = %s, want %d", i, name, got, want)
			}
		}
	}
}
