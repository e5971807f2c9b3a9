package rtllib_test

import (
	"testing"

	"github.com/avernet/rtlsim"
	"github.com/avernet/rtlsim/rtllib"
)

func TestFIRImpulseResponse(t *testing.T) {
	taps := []int64{3, -2, 7, 1}
	sim := newSim(t, rtllib.FIR, rtlsim.Params{
		"width": 16, "outwidth": 40, "taps": taps,
	})
	if err := sim.Clock("clk", 5); err != nil {
		t.Fatal(err)
	}

	// unit impulse: the output must replay the coefficient array
	drive(t, sim, "x", rtlsim.FromInt(16, 1), 1)
	drive(t, sim, "x", rtlsim.FromInt(16, 0), 6)

	until := uint64(6)
	for i := 0; i <= len(taps); i++ {
		run(t, sim, until)
		want := int64(0)
		if i < len(taps) {
			want = taps[i]
		}
		if got := peek(t, sim, "y").Int64(); got != want {
			t.Errorf("y after edge %d = %d, want %d", i+1, got, want)
		}
		until += 10
	}
}

func TestFIRSignedAccumulate(t *testing.T) {
	// constant input of -3 through taps summing to 9: steady state -27,
	// computed with widened products and truncated only at the output
	taps := []int64{1, 2, 3, 2, 1}
	sim := newSim(t, rtllib.FIR, rtlsim.Params{
		"width": 16, "outwidth": 40, "taps": taps,
	})
	if err := sim.Clock("clk", 5); err != nil {
		t.Fatal(err)
	}
	drive(t, sim, "x", rtlsim.FromInt(16, -3), 1)

	run(t, sim, 100) // well past len(taps) edges
	y := peek(t, sim, "y")
	if y.Width() != 40 || !y.Signed() {
		t.Fatalf("y is %d bits, signed=%v; want 40 bits signed", y.Width(), y.Signed())
	}
	if got := y.Int64(); got != -27 {
		t.Errorf("y = %d, want -27", got)
	}
}

func TestFIRReset(t *testing.T) {
	sim := newSim(t, rtllib.FIR, nil)
	if err := sim.Clock("clk", 5); err != nil {
		t.Fatal(err)
	}
	drive(t, sim, "x", rtlsim.FromInt(16, 100), 1)
	run(t, sim, 50)
	if peek(t, sim, "y").Int64() == 0 {
		t.Fatal("filter output still zero after stimulus")
	}
	drive(t, sim, "rst", rtlsim.FromUint(1, 1), 51)
	run(t, sim, 52)
	if got := peek(t, sim, "y").Int64(); got != 0 {
		t.Errorf("y = %d after reset, want 0", got)
	}
}
