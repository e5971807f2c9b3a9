// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// A Value is a fixed-width two's-complement bit vector. Values are immutable:
// every operation returns a new Value and leaves its operands untouched.
//
// The zero Value is not usable; obtain Values from New, FromUint, FromInt,
// FromBig or FromHex.
//
type Value struct {
	width  int
	signed bool
	bits   *big.Int // unsigned bit pattern in [0, 2^width)
}

// New returns a zero-filled Value of the given width and signedness.
//
func New(width int, signed bool) (Value, error) {
	if width < 1 {
		return Value{}, &MalformedValueError{Width: width}
	}
	return Value{width: width, signed: signed, bits: new(big.Int)}, nil
}

// MustNew is like New but panics on error.
//
func MustNew(width int, signed bool) Value {
	v, err := New(width, signed)
	if err != nil {
		panic(err)
	}
	return v
}

// FromUint returns an unsigned Value of the given width holding v truncated
// to width bits. It panics if width < 1.
//
func FromUint(width int, v uint64) Value {
	r := MustNew(width, false)
	r.bits = wrap(new(big.Int).SetUint64(v), width)
	return r
}

// FromInt returns a signed Value of the given width holding v wrapped to
// width bits. It panics if width < 1.
//
func FromInt(width int, v int64) Value {
	r := MustNew(width, true)
	r.bits = wrap(big.NewInt(v), width)
	return r
}

// FromBig returns a Value of the given width and signedness holding x
// wrapped to width bits.
//
func FromBig(width int, signed bool, x *big.Int) (Value, error) {
	r, err := New(width, signed)
	if err != nil {
		return Value{}, err
	}
	r.bits = wrap(x, width)
	return r, nil
}

// FromHex returns an unsigned Value of the given width parsed from a
// hexadecimal string.
//
func FromHex(width int, s string) (Value, error) {
	x, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return Value{}, errors.Errorf("invalid hex string %q", s)
	}
	return FromBig(width, false, x)
}

// Width returns the bit width of v.
//
func (v Value) Width() int { return v.width }

// Signed reports whether v is interpreted as a signed quantity.
//
func (v Value) Signed() bool { return v.signed }

// Bit returns bit i of v, or 0 if i is out of range.
//
func (v Value) Bit(i int) uint {
	if i < 0 || i >= v.width {
		return 0
	}
	return v.bits.Bit(i)
}

// IsZero reports whether all bits of v are 0.
//
func (v Value) IsZero() bool { return v.bits.Sign() == 0 }

// Uint64 returns the unsigned bit pattern of v. Bits beyond 64 are dropped.
//
func (v Value) Uint64() uint64 {
	return wrap(v.bits, min(v.width, 64)).Uint64()
}

// Int64 returns the two's-complement interpretation of v. Bits beyond 64 are
// dropped before interpretation.
//
func (v Value) Int64() int64 {
	w := min(v.width, 64)
	x := wrap(v.bits, w)
	if v.signed && x.Bit(w-1) == 1 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(w)))
	}
	return x.Int64()
}

// Big returns a copy of the unsigned bit pattern of v.
//
func (v Value) Big() *big.Int { return new(big.Int).Set(v.bits) }

// String formats v in Verilog-style sized hexadecimal.
//
func (v Value) String() string {
	return fmt.Sprintf("%d'h%x", v.width, v.bits)
}

// interp returns the arithmetic interpretation of v: the unsigned pattern,
// or its two's-complement negative when v is signed with the sign bit set.
func (v Value) interp() *big.Int {
	x := new(big.Int).Set(v.bits)
	if v.signed && v.bits.Bit(v.width-1) == 1 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(v.width)))
	}
	return x
}

// Add returns v + o. The result is one bit wider than the widest operand so
// that the carry survives until an explicit Trunc, and is signed only if
// both operands are.
//
func (v Value) Add(o Value) Value {
	w := max(v.width, o.width) + 1
	return madeOf(w, v.signed && o.signed, new(big.Int).Add(v.interp(), o.interp()))
}

// Sub returns v - o with the same width and signedness rules as Add.
//
func (v Value) Sub(o Value) Value {
	w := max(v.width, o.width) + 1
	return madeOf(w, v.signed && o.signed, new(big.Int).Sub(v.interp(), o.interp()))
}

// Mul returns v * o widened to the sum of the operand widths, so that no
// product bit is lost before an explicit truncation. The result is signed
// only if both operands are.
//
func (v Value) Mul(o Value) Value {
	w := v.width + o.width
	return madeOf(w, v.signed && o.signed, new(big.Int).Mul(v.interp(), o.interp()))
}

// Neg returns the two's-complement negation of v at v's width.
//
func (v Value) Neg() Value {
	return madeOf(v.width, v.signed, new(big.Int).Neg(v.interp()))
}

// Shl returns v shifted left by n bits. The width is preserved; bits shifted
// past the top are dropped. Shl panics if n is negative.
//
func (v Value) Shl(n int) Value {
	checkShift(n)
	return madeOf(v.width, v.signed, new(big.Int).Lsh(v.bits, uint(n)))
}

// Lsr returns v logically shifted right by n bits, zero-filling from the
// top. Shifting by n >= width yields zero. Lsr panics if n is negative.
//
func (v Value) Lsr(n int) Value {
	checkShift(n)
	return madeOf(v.width, v.signed, new(big.Int).Rsh(v.bits, uint(n)))
}

// Asr returns v arithmetically shifted right by n bits. For a signed v the
// sign bit is replicated; shifting by n >= width yields all sign bits. For
// an unsigned v, Asr behaves like Lsr. Asr panics if n is negative.
//
func (v Value) Asr(n int) Value {
	checkShift(n)
	return madeOf(v.width, v.signed, new(big.Int).Rsh(v.interp(), uint(n)))
}

// And returns the bitwise AND of v and o at the wider operand's width, each
// operand extended per its own signedness.
//
func (v Value) And(o Value) Value { return v.bitwise(o, (*big.Int).And) }

// Or returns the bitwise OR of v and o at the wider operand's width.
//
func (v Value) Or(o Value) Value { return v.bitwise(o, (*big.Int).Or) }

// Xor returns the bitwise XOR of v and o at the wider operand's width.
//
func (v Value) Xor(o Value) Value { return v.bitwise(o, (*big.Int).Xor) }

// Not returns the bitwise complement of v.
//
func (v Value) Not() Value {
	return madeOf(v.width, v.signed, new(big.Int).Not(v.bits))
}

func (v Value) bitwise(o Value, op func(z, x, y *big.Int) *big.Int) Value {
	w := max(v.width, o.width)
	return madeOf(w, v.signed && o.signed, op(new(big.Int), v.Ext(w).bits, o.Ext(w).bits))
}

// Concat returns the concatenation {v, lo} with v occupying the high-order
// bits. The result is unsigned.
//
func (v Value) Concat(lo Value) Value {
	x := new(big.Int).Lsh(v.bits, uint(lo.width))
	x.Or(x, lo.bits)
	return madeOf(v.width+lo.width, false, x)
}

// Slice returns bits hi down to lo of v as an unsigned Value of width
// hi-lo+1. Slice panics if the range does not fit within v.
//
func (v Value) Slice(hi, lo int) Value {
	if lo < 0 || hi < lo || hi >= v.width {
		panic(errors.Errorf("slice [%d:%d] out of range for %d bit value", hi, lo, v.width))
	}
	return madeOf(hi-lo+1, false, new(big.Int).Rsh(v.bits, uint(lo)))
}

// Ext extends v to width n bits, sign-extending when v is signed and
// zero-extending otherwise. If n <= v's width, v is returned unchanged.
//
func (v Value) Ext(n int) Value {
	if n <= v.width {
		return v
	}
	return madeOf(n, v.signed, v.interp())
}

// Trunc returns the low-order n bits of v. Overflow is silently dropped. If
// n >= v's width, v is returned unchanged.
//
func (v Value) Trunc(n int) Value {
	if n >= v.width {
		return v
	}
	return madeOf(n, v.signed, v.bits)
}

// Resize returns v extended or truncated to width n, preserving signedness.
//
func (v Value) Resize(n int) Value {
	if n < v.width {
		return v.Trunc(n)
	}
	return v.Ext(n)
}

// Cmp compares v and o and returns -1, 0 or +1. The comparison is signed
// only when both operands are signed, otherwise both bit patterns are
// compared as unsigned quantities.
//
func (v Value) Cmp(o Value) int {
	if v.signed && o.signed {
		return v.interp().Cmp(o.interp())
	}
	return v.bits.Cmp(o.bits)
}

// Eq reports whether v and o compare equal under Cmp.
//
func (v Value) Eq(o Value) bool { return v.Cmp(o) == 0 }

// sameBits reports whether v and o have identical width and bit pattern.
// This is the change test used by the simulation kernel.
func (v Value) sameBits(o Value) bool {
	return v.width == o.width && v.bits.Cmp(o.bits) == 0
}

// coerce resizes v to the given width and signedness, applying the
// truncation / extension rule at the assignment boundary.
func (v Value) coerce(width int, signed bool) Value {
	r := v.Resize(width)
	r.signed = signed
	return r
}

func madeOf(width int, signed bool, x *big.Int) Value {
	return Value{width: width, signed: signed, bits: wrap(x, width)}
}

// wrap reduces x modulo 2^w into a fresh non-negative big.Int. big.Int
// bitwise operations use two's-complement semantics, so this is correct for
// negative x as well.
func wrap(x *big.Int, w int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(w))
	m.Sub(m, big.NewInt(1))
	return m.And(m, x)
}

func checkShift(n int) {
	if n < 0 {
		panic(errors.Errorf("negative shift amount %d", n))
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
