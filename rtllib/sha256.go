// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtllib

import (
	"strconv"

	"github.com/avernet/rtlsim"
)

// FIPS-180-4 round constants and initial hash value. Each SHA256 instance
// reads these as immutable lookup data; they are never written.
var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

var sha256IV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

func rotr(x uint32, n uint) uint32 { return x>>n | x<<(32-n) }

func shaCh(e, f, g uint32) uint32  { return e&f ^ ^e&g }
func shaMaj(a, b, c uint32) uint32 { return a&b ^ a&c ^ b&c }

func shaS0(a uint32) uint32 { return rotr(a, 2) ^ rotr(a, 13) ^ rotr(a, 22) }
func shaS1(e uint32) uint32 { return rotr(e, 6) ^ rotr(e, 11) ^ rotr(e, 25) }

func shaG0(w uint32) uint32 { return rotr(w, 7) ^ rotr(w, 18) ^ w>>3 }
func shaG1(w uint32) uint32 { return rotr(w, 17) ^ rotr(w, 19) ^ w>>10 }

// SHA256 returns a round-based SHA-256 compression core for a single
// pre-padded 512-bit message block. Asserting rst for one clock edge loads
// the block and the initial hash value; each subsequent edge runs one of
// the 64 compression rounds; one final edge forms the digest and raises
// valid. 66 edges total from load to digest.
//
//	Inputs:  clk, rst, block[512]
//	Outputs: digest[256], valid
//
var SHA256 = &rtlsim.ModuleSpec{
	Name: "sha256",
	Ports: []rtlsim.Port{
		{Name: pClk, Width: 1, Dir: rtlsim.In},
		{Name: pRst, Width: 1, Dir: rtlsim.In},
		{Name: "block", Width: 512, Dir: rtlsim.In},
		{Name: "digest", Width: 256, Dir: rtlsim.Out},
		{Name: "valid", Width: 1, Dir: rtlsim.Out},
	},
	Build: func(b *rtlsim.Builder) error {
		clk, rst := b.Port(pClk), b.Port(pRst)
		block, digest, valid := b.Port("block"), b.Port("digest"), b.Port("valid")

		round := b.Reg("round", 7)
		work := make([]*rtlsim.Signal, 8) // a..h
		for i := range work {
			work[i] = b.Reg("work"+strconv.Itoa(i), 32)
		}
		sched := make([]*rtlsim.Signal, 16) // W[t..t+15] message schedule window
		for i := range sched {
			sched[i] = b.Reg("w"+strconv.Itoa(i), 32)
		}

		get32 := func(p *rtlsim.Proc, s *rtlsim.Signal) uint32 {
			return uint32(p.Get(s).Uint64())
		}
		set32 := func(p *rtlsim.Proc, s *rtlsim.Signal, v uint32) {
			p.Set(s, rtlsim.FromUint(32, uint64(v)))
		}

		b.Always([]rtlsim.Edge{rtlsim.PosEdge(clk), rtlsim.PosEdge(rst)}, func(p *rtlsim.Proc) {
			if p.Get(rst).Bit(0) == 1 {
				for i, s := range work {
					set32(p, s, sha256IV[i])
				}
				blk := p.Get(block)
				for i, s := range sched {
					p.Set(s, blk.Slice(511-32*i, 480-32*i))
				}
				p.Set(round, rtlsim.FromUint(7, 0))
				p.Set(valid, rtlsim.FromUint(1, 0))
				return
			}

			t := uint(p.Get(round).Uint64())
			switch {
			case t < 64:
				a, bb, c, d := get32(p, work[0]), get32(p, work[1]), get32(p, work[2]), get32(p, work[3])
				e, f, g, h := get32(p, work[4]), get32(p, work[5]), get32(p, work[6]), get32(p, work[7])
				wt := get32(p, sched[0])

				t1 := h + shaS1(e) + shaCh(e, f, g) + sha256K[t] + wt
				t2 := shaS0(a) + shaMaj(a, bb, c)

				set32(p, work[7], g)
				set32(p, work[6], f)
				set32(p, work[5], e)
				set32(p, work[4], d+t1)
				set32(p, work[3], c)
				set32(p, work[2], bb)
				set32(p, work[1], a)
				set32(p, work[0], t1+t2)

				// slide the schedule window and append W[t+16]
				next := shaG1(get32(p, sched[14])) + get32(p, sched[9]) +
					shaG0(get32(p, sched[1])) + get32(p, sched[0])
				for i := 0; i < 15; i++ {
					p.Set(sched[i], p.Get(sched[i+1]))
				}
				set32(p, sched[15], next)

				p.Set(round, rtlsim.FromUint(7, uint64(t+1)))

			case t == 64:
				dg := rtlsim.FromUint(32, uint64(sha256IV[0]+get32(p, work[0])))
				for i := 1; i < 8; i++ {
					dg = dg.Concat(rtlsim.FromUint(32, uint64(sha256IV[i]+get32(p, work[i]))))
				}
				p.Set(digest, dg)
				p.Set(valid, rtlsim.FromUint(1, 1))
				p.Set(round, rtlsim.FromUint(7, uint64(t+1)))
			}
		})
		return nil
	},
}
