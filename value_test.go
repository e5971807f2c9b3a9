package rtlsim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rtl "github.com/avernet/rtlsim"
)

func TestNewValue(t *testing.T) {
	v, err := rtl.New(8, false)
	require.NoError(t, err)
	assert.Equal(t, 8, v.Width())
	assert.False(t, v.Signed())
	assert.True(t, v.IsZero())

	for _, w := range []int{0, -1, -17} {
		_, err = rtl.New(w, true)
		var mv *rtl.MalformedValueError
		require.ErrorAs(t, err, &mv)
		assert.Equal(t, w, mv.Width)
	}
}

func TestAddModular(t *testing.T) {
	// truncate(add(a, b), N) must equal two's-complement addition mod 2^N
	tests := []struct {
		a, b uint64
		n    int
		exp  uint64
	}{
		{200, 100, 8, 44},
		{255, 1, 8, 0},
		{0xffff, 0xffff, 16, 0xfffe},
		{1, 2, 8, 3},
		{0x8000, 0x8000, 16, 0},
	}
	for _, tc := range tests {
		a, b := rtl.FromUint(tc.n, tc.a), rtl.FromUint(tc.n, tc.b)
		sum := a.Add(b)
		assert.Equal(t, tc.n+1, sum.Width(), "carry bit must survive until Trunc")
		assert.Equal(t, tc.exp, sum.Trunc(tc.n).Uint64(), "%d + %d mod 2^%d", tc.a, tc.b, tc.n)
	}
}

func TestSignedWraparound(t *testing.T) {
	a, b := rtl.FromInt(8, 100), rtl.FromInt(8, 100)
	assert.Equal(t, int64(-56), a.Add(b).Trunc(8).Int64())

	assert.Equal(t, int64(127), rtl.FromInt(8, -128).Sub(rtl.FromInt(8, 1)).Trunc(8).Int64())
	assert.Equal(t, int64(-128), rtl.FromInt(8, 127).Add(rtl.FromInt(8, 1)).Trunc(8).Int64())
}

func TestMulWidening(t *testing.T) {
	// an N x N multiply yields 2N bits before any truncation
	p := rtl.FromInt(8, -128).Mul(rtl.FromInt(8, -128))
	assert.Equal(t, 16, p.Width())
	assert.Equal(t, int64(16384), p.Int64())

	q := rtl.FromUint(8, 255).Mul(rtl.FromUint(8, 255))
	assert.Equal(t, 16, q.Width())
	assert.Equal(t, uint64(65025), q.Uint64())

	r := rtl.FromInt(16, -300).Mul(rtl.FromInt(8, 3))
	assert.Equal(t, 24, r.Width())
	assert.Equal(t, int64(-900), r.Int64())
}

func TestShifts(t *testing.T) {
	// arithmetic right shift replicates the sign bit
	assert.Equal(t, int64(-8), rtl.FromInt(8, -64).Asr(3).Int64())
	assert.Equal(t, int64(8), rtl.FromInt(8, 64).Asr(3).Int64())

	// shifting a signed value by >= width yields all sign bits
	assert.Equal(t, int64(-1), rtl.FromInt(8, -1).Asr(8).Int64())
	assert.Equal(t, int64(-1), rtl.FromInt(8, -100).Asr(200).Int64())
	assert.Equal(t, int64(0), rtl.FromInt(8, 100).Asr(200).Int64())

	// logical right shift zero-fills
	assert.Equal(t, uint64(0x1f), rtl.FromUint(8, 0xf8).Lsr(3).Uint64())
	assert.Equal(t, uint64(0), rtl.FromUint(8, 0xf8).Lsr(8).Uint64())

	// left shift preserves width, dropping high bits
	sh := rtl.FromUint(8, 0xf0).Shl(2)
	assert.Equal(t, 8, sh.Width())
	assert.Equal(t, uint64(0xc0), sh.Uint64())
}

func TestBitwise(t *testing.T) {
	a, b := rtl.FromUint(8, 0xf0), rtl.FromUint(8, 0x3c)
	assert.Equal(t, uint64(0x30), a.And(b).Uint64())
	assert.Equal(t, uint64(0xfc), a.Or(b).Uint64())
	assert.Equal(t, uint64(0xcc), a.Xor(b).Uint64())
	assert.Equal(t, uint64(0x0f), a.Not().Uint64())
}

func TestConcatSlice(t *testing.T) {
	hi, lo := rtl.FromUint(4, 0xa), rtl.FromUint(4, 0x5)
	cat := hi.Concat(lo)
	assert.Equal(t, 8, cat.Width())
	assert.Equal(t, uint64(0xa5), cat.Uint64())

	assert.Equal(t, uint64(0xa), cat.Slice(7, 4).Uint64())
	assert.Equal(t, uint64(0x5), cat.Slice(3, 0).Uint64())
	assert.Equal(t, 1, cat.Slice(0, 0).Width())

	assert.Panics(t, func() { cat.Slice(8, 0) })
	assert.Panics(t, func() { cat.Slice(2, 4) })
}

func TestExtTrunc(t *testing.T) {
	assert.Equal(t, uint64(0xfd), rtl.FromInt(4, -3).Ext(8).Uint64())
	assert.Equal(t, uint64(0x0d), rtl.FromUint(4, 0xd).Ext(8).Uint64())
	assert.Equal(t, int64(-3), rtl.FromInt(4, -3).Ext(8).Int64())

	v := rtl.FromUint(16, 0xbeef)
	assert.Equal(t, uint64(0xef), v.Trunc(8).Uint64())
	assert.Equal(t, 16, v.Trunc(20).Width(), "Trunc never widens")
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, rtl.FromInt(8, -1).Cmp(rtl.FromInt(8, 1)))
	assert.Equal(t, 1, rtl.FromUint(8, 0xff).Cmp(rtl.FromUint(8, 1)))
	// one unsigned operand makes the comparison unsigned
	assert.Equal(t, 1, rtl.FromInt(8, -1).Cmp(rtl.FromUint(8, 1)))
	assert.True(t, rtl.FromUint(8, 42).Eq(rtl.FromUint(16, 42)))
}

func TestFromHex(t *testing.T) {
	v, err := rtl.FromHex(32, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdeadbeef), v.Uint64())
	assert.Equal(t, "32'hdeadbeef", v.String())

	_, err = rtl.FromHex(32, "not hex")
	assert.Error(t, err)
}

func TestValueImmutable(t *testing.T) {
	a := rtl.FromUint(8, 12)
	_ = a.Add(rtl.FromUint(8, 1))
	_ = a.Not()
	_ = a.Shl(3)
	assert.Equal(t, uint64(12), a.Uint64())
}
