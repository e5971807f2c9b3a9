package rtllib_test

import (
	"testing"

	"github.com/avernet/rtlsim"
	"github.com/avernet/rtlsim/rtllib"
)

func TestPWMDutyCycle(t *testing.T) {
	// 3-bit counter, duty 4: out is high for the first half of every
	// 8-edge period
	sim := newSim(t, rtllib.PWM, rtlsim.Params{"width": 3})
	if err := sim.Clock("clk", 5); err != nil {
		t.Fatal(err)
	}
	drive(t, sim, "duty", rtlsim.FromUint(3, 4), 0)

	type edge struct {
		t uint64
		v uint64
	}
	var got []edge
	err := sim.Watch("out", func(at uint64, v rtlsim.Value) {
		got = append(got, edge{at, v.Uint64()})
	})
	if err != nil {
		t.Fatal(err)
	}

	run(t, sim, 120)

	want := []edge{{0, 1}, {35, 0}, {75, 1}, {115, 0}}
	if len(got) != len(want) {
		t.Fatalf("out transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPWMZeroDuty(t *testing.T) {
	sim := newSim(t, rtllib.PWM, rtlsim.Params{"width": 3})
	if err := sim.Clock("clk", 5); err != nil {
		t.Fatal(err)
	}
	fired := false
	if err := sim.Watch("out", func(uint64, rtlsim.Value) { fired = true }); err != nil {
		t.Fatal(err)
	}
	run(t, sim, 100)
	if fired {
		t.Error("out toggled with duty 0")
	}
	if got := peek(t, sim, "out").Uint64(); got != 0 {
		t.Errorf("out = %d, want 0", got)
	}
}
