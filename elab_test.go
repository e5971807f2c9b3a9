package rtlsim_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rtl "github.com/avernet/rtlsim"
)

// regSpec is a parameterized clocked register used by the elaboration
// tests.
var regSpec = &rtl.ModuleSpec{
	Name:   "reg",
	Params: rtl.Params{"width": 8},
	Ports: []rtl.Port{
		{Name: "clk", Width: 1, Dir: rtl.In},
		{Name: "d", WidthParam: "width", Dir: rtl.In},
		{Name: "q", WidthParam: "width", Dir: rtl.Out},
	},
	Build: func(b *rtl.Builder) error {
		clk, d, q := b.Port("clk"), b.Port("d"), b.Port("q")
		b.Always([]rtl.Edge{rtl.PosEdge(clk)}, func(p *rtl.Proc) {
			p.Set(q, p.Get(d))
		})
		return nil
	},
}

func TestPortWidthMismatch(t *testing.T) {
	top := &rtl.ModuleSpec{
		Name: "top",
		Ports: []rtl.Port{
			{Name: "clk", Width: 1, Dir: rtl.In},
		},
		Build: func(b *rtl.Builder) error {
			d := b.Wire("d", 16)
			q := b.Wire("q", 16)
			// child resolves "width" to its default of 8: mismatch
			_, err := b.Instance("u0", regSpec, nil, map[string]*rtl.Signal{
				"clk": b.Port("clk"), "d": d, "q": q,
			})
			return err
		},
	}
	_, err := rtl.Elaborate(top, nil)
	var pw *rtl.PortWidthMismatchError
	require.ErrorAs(t, err, &pw)
	assert.Equal(t, "top.u0", pw.Instance)
	assert.Equal(t, "d", pw.Port)
	assert.Equal(t, 8, pw.PortWidth)
	assert.Equal(t, 16, pw.SignalWidth)
}

func TestUnconnectedAndUnknownPorts(t *testing.T) {
	missing := &rtl.ModuleSpec{
		Name: "top",
		Ports: []rtl.Port{
			{Name: "clk", Width: 1, Dir: rtl.In},
		},
		Build: func(b *rtl.Builder) error {
			d := b.Wire("d", 8)
			q := b.Wire("q", 8)
			_, err := b.Instance("u0", regSpec, nil, map[string]*rtl.Signal{
				"d": d, "q": q, // clk left unconnected
			})
			return err
		},
	}
	_, err := rtl.Elaborate(missing, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port clk not connected")

	unknown := &rtl.ModuleSpec{
		Name: "top",
		Ports: []rtl.Port{
			{Name: "clk", Width: 1, Dir: rtl.In},
		},
		Build: func(b *rtl.Builder) error {
			d := b.Wire("d", 8)
			q := b.Wire("q", 8)
			_, err := b.Instance("u0", regSpec, nil, map[string]*rtl.Signal{
				"clk": b.Port("clk"), "d": d, "q": q, "oops": d,
			})
			return err
		},
	}
	_, err = rtl.Elaborate(unknown, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no port "oops"`)
}

func TestParameterOverride(t *testing.T) {
	top := &rtl.ModuleSpec{
		Name: "top",
		Ports: []rtl.Port{
			{Name: "clk", Width: 1, Dir: rtl.In},
			{Name: "d", Width: 24, Dir: rtl.In},
			{Name: "q", Width: 24, Dir: rtl.Out},
		},
		Build: func(b *rtl.Builder) error {
			_, err := b.Instance("u0", regSpec, rtl.Params{"width": 24}, map[string]*rtl.Signal{
				"clk": b.Port("clk"), "d": b.Port("d"), "q": b.Port("q"),
			})
			return err
		},
	}
	d, err := rtl.Elaborate(top, nil)
	require.NoError(t, err)

	sim := rtl.NewSim(d)
	require.NoError(t, sim.Drive("d", rtl.FromUint(24, 0xbeef0), 1))
	require.NoError(t, sim.Clock("clk", 5))
	require.NoError(t, sim.Run(6))
	q, err := sim.Peek("q")
	require.NoError(t, err)
	assert.Equal(t, uint64(0xbeef0), q.Uint64())
}

func TestGenerateStyleReplication(t *testing.T) {
	// N structurally identical children instantiated from a build-time loop
	const n = 5
	top := &rtl.ModuleSpec{
		Name: "top",
		Ports: []rtl.Port{
			{Name: "clk", Width: 1, Dir: rtl.In},
			{Name: "in", Width: 8, Dir: rtl.In},
			{Name: "out", Width: 8, Dir: rtl.Out},
		},
		Build: func(b *rtl.Builder) error {
			clk := b.Port("clk")
			prev := b.Port("in")
			for i := 0; i < n; i++ {
				var q *rtl.Signal
				if i == n-1 {
					q = b.Port("out")
				} else {
					q = b.Wire("q"+strconv.Itoa(i), 8)
				}
				if _, err := b.Instance("stage"+strconv.Itoa(i), regSpec, nil,
					map[string]*rtl.Signal{"clk": clk, "d": prev, "q": q}); err != nil {
					return err
				}
				prev = q
			}
			return nil
		},
	}
	d, err := rtl.Elaborate(top, nil)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		assert.NotNil(t, d.Root().Child("stage"+strconv.Itoa(i)))
	}
}

func TestLookup(t *testing.T) {
	top := &rtl.ModuleSpec{
		Name: "top",
		Ports: []rtl.Port{
			{Name: "clk", Width: 1, Dir: rtl.In},
			{Name: "d", Width: 8, Dir: rtl.In},
			{Name: "q", Width: 8, Dir: rtl.Out},
		},
		Build: func(b *rtl.Builder) error {
			_, err := b.Instance("u0", regSpec, nil, map[string]*rtl.Signal{
				"clk": b.Port("clk"), "d": b.Port("d"), "q": b.Port("q"),
			})
			return err
		},
	}
	d, err := rtl.Elaborate(top, nil)
	require.NoError(t, err)

	q, err := d.Lookup("q")
	require.NoError(t, err)
	assert.Equal(t, rtl.PortOut, q.Kind())
	assert.Equal(t, "top.q", q.Path())

	// the child's port q is the parent's signal, not a copy
	cq, err := d.Lookup("u0.q")
	require.NoError(t, err)
	assert.Same(t, q, cq)

	for _, path := range []string{"nope", "u0.nope", "u1.q", "u0.q.x"} {
		_, err = d.Lookup(path)
		var us *rtl.UnknownSignalError
		require.ErrorAs(t, err, &us, path)
		assert.Equal(t, path, us.Path)
	}
}
