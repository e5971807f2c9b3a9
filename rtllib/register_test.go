package rtllib_test

import (
	"strconv"
	"testing"

	"github.com/avernet/rtlsim"
	"github.com/avernet/rtlsim/rtllib"
)

func newSim(t *testing.T, spec *rtlsim.ModuleSpec, params rtlsim.Params) *rtlsim.Sim {
	t.Helper()
	d, err := rtlsim.Elaborate(spec, params)
	if err != nil {
		t.Fatal(err)
	}
	return rtlsim.NewSim(d)
}

func peek(t *testing.T, sim *rtlsim.Sim, path string) rtlsim.Value {
	t.Helper()
	v, err := sim.Peek(path)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func drive(t *testing.T, sim *rtlsim.Sim, path string, v rtlsim.Value, at uint64) {
	t.Helper()
	if err := sim.Drive(path, v, at); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, sim *rtlsim.Sim, until uint64) {
	t.Helper()
	if err := sim.Run(until); err != nil {
		t.Fatal(err)
	}
}

func TestRegister(t *testing.T) {
	sim := newSim(t, rtllib.Register, rtlsim.Params{"width": 16})
	if err := sim.Clock("clk", 5); err != nil {
		t.Fatal(err)
	}
	drive(t, sim, "d", rtlsim.FromUint(16, 0x1234), 1)

	run(t, sim, 6)
	if got := peek(t, sim, "q").Uint64(); got != 0x1234 {
		t.Errorf("q = %#x, want 0x1234", got)
	}

	// q holds its value between edges
	drive(t, sim, "d", rtlsim.FromUint(16, 0xffff), 8)
	run(t, sim, 14)
	if got := peek(t, sim, "q").Uint64(); got != 0x1234 {
		t.Errorf("q = %#x, want 0x1234 before next edge", got)
	}

	// reset clears on its own edge
	drive(t, sim, "rst", rtlsim.FromUint(1, 1), 17)
	run(t, sim, 18)
	if got := peek(t, sim, "q").Uint64(); got != 0 {
		t.Errorf("q = %#x after reset, want 0", got)
	}
}

func TestPipelineDelay(t *testing.T) {
	const depth = 6
	sim := newSim(t, rtllib.Pipeline, rtlsim.Params{"width": 8, "depth": depth})
	if err := sim.Clock("clk", 5); err != nil {
		t.Fatal(err)
	}
	drive(t, sim, "in", rtlsim.FromUint(8, 0x5a), 1)
	drive(t, sim, "in", rtlsim.FromUint(8, 0), 6)

	// depth posedges: 5, 15, ..., 5+10*(depth-1)
	run(t, sim, 5+10*(depth-1))
	if got := peek(t, sim, "out").Uint64(); got != 0x5a {
		t.Errorf("out = %#x, want 0x5a after %d edges", got, depth)
	}
	// the value left every intermediate stage behind
	for i := 0; i < depth-1; i++ {
		if got := peek(t, sim, "s"+strconv.Itoa(i)).Uint64(); got != 0 {
			t.Errorf("s%d = %#x, want 0", i, got)
		}
	}
}

func TestCounter(t *testing.T) {
	sim := newSim(t, rtllib.Counter, rtlsim.Params{"width": 4})
	if err := sim.Clock("clk", 5); err != nil {
		t.Fatal(err)
	}
	drive(t, sim, "en", rtlsim.FromUint(1, 1), 0)

	run(t, sim, 100) // posedges at 5, 15, ..., 95: 10 of them
	if got := peek(t, sim, "q").Uint64(); got != 10 {
		t.Errorf("q = %d, want 10", got)
	}

	// counting stops with enable low
	drive(t, sim, "en", rtlsim.FromUint(1, 0), 101)
	run(t, sim, 200)
	if got := peek(t, sim, "q").Uint64(); got != 10 {
		t.Errorf("q = %d with en low, want 10", got)
	}

	// 4 bit counter wraps modulo 16
	drive(t, sim, "en", rtlsim.FromUint(1, 1), 201)
	run(t, sim, 300) // 10 more increments
	if got := peek(t, sim, "q").Uint64(); got != 4 {
		t.Errorf("q = %d, want 4 after wrap", got)
	}
}
