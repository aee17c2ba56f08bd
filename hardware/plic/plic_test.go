// This file is part of RedPlanet.
//
// RedPlanet is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RedPlanet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RedPlanet.  If not, see <https://www.gnu.org/licenses/>.

package plic_test

import (
	"encoding/binary"
	"testing"

	"github.com/jonatcln/redplanet/hardware/arena"
	"github.com/jonatcln/redplanet/hardware/plic"
	"github.com/jonatcln/redplanet/test"
)

func poke32(t *testing.T, a arena.Allocator, p *plic.PLIC, offset uint32, v uint32) {
	t.Helper()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	p.Write(a, offset, buf)
}

func peek32(t *testing.T, a arena.Allocator, p *plic.PLIC, offset uint32) uint32 {
	t.Helper()
	buf := make([]byte, 4)
	p.Read(buf, a, offset)
	return binary.LittleEndian.Uint32(buf)
}

// enable the source for context 0 with the given priority
func setup(t *testing.T, a arena.Allocator, p *plic.PLIC, src uint32, prio uint32) {
	t.Helper()
	poke32(t, a, p, plic.AddrPriority+4*src, prio)

	off := plic.AddrEnable
	bit := src
	if src >= 32 {
		off += 4
		bit -= 32
	}
	poke32(t, a, p, off, peek32(t, a, p, off)|1<<bit)
}

func TestClaimComplete(t *testing.T) {
	a := arena.NewArena()
	p := plic.NewPLIC(a)
	defer p.Release(a)

	setup(t, a, p, 7, 1)

	test.ExpectedFailure(t, p.Interrupt(a, 0))

	p.Raise(a, 7)
	test.ExpectedSuccess(t, p.Interrupt(a, 0))
	test.Equate(t, peek32(t, a, p, plic.AddrPending), uint32(1<<7))

	// the source is not enabled for context 1
	test.ExpectedFailure(t, p.Interrupt(a, 1))

	// claiming returns the source and stops it being pending
	test.Equate(t, peek32(t, a, p, plic.AddrClaim), uint32(7))
	test.ExpectedFailure(t, p.Interrupt(a, 0))
	test.Equate(t, peek32(t, a, p, plic.AddrPending), uint32(0))

	// the line is still high, so completion makes it pending again
	poke32(t, a, p, plic.AddrClaim, 7)
	test.ExpectedSuccess(t, p.Interrupt(a, 0))

	// claim once more, lower the line, complete. nothing left pending.
	test.Equate(t, peek32(t, a, p, plic.AddrClaim), uint32(7))
	p.Lower(a, 7)
	poke32(t, a, p, plic.AddrClaim, 7)
	test.ExpectedFailure(t, p.Interrupt(a, 0))

	// with nothing pending a claim returns source 0
	test.Equate(t, peek32(t, a, p, plic.AddrClaim), uint32(0))
}

func TestPriorities(t *testing.T) {
	a := arena.NewArena()
	p := plic.NewPLIC(a)
	defer p.Release(a)

	setup(t, a, p, 3, 1)
	setup(t, a, p, 40, 2)

	p.Raise(a, 3)
	p.Raise(a, 40)

	// the higher priority source wins regardless of source number
	test.Equate(t, peek32(t, a, p, plic.AddrClaim), uint32(40))
	test.Equate(t, peek32(t, a, p, plic.AddrClaim), uint32(3))
	test.Equate(t, peek32(t, a, p, plic.AddrClaim), uint32(0))
}

func TestThreshold(t *testing.T) {
	a := arena.NewArena()
	p := plic.NewPLIC(a)
	defer p.Release(a)

	setup(t, a, p, 5, 2)
	p.Raise(a, 5)

	// a threshold at or above the source's priority masks it
	poke32(t, a, p, plic.AddrThreshold, 2)
	test.ExpectedFailure(t, p.Interrupt(a, 0))

	poke32(t, a, p, plic.AddrThreshold, 1)
	test.ExpectedSuccess(t, p.Interrupt(a, 0))
}

// a source with priority zero can never interrupt: the threshold comparison
// is strict and the reset threshold is zero
func TestZeroPriority(t *testing.T) {
	a := arena.NewArena()
	p := plic.NewPLIC(a)
	defer p.Release(a)

	setup(t, a, p, 9, 0)
	p.Raise(a, 9)
	test.ExpectedFailure(t, p.Interrupt(a, 0))
}

func TestReadDebugDoesNotClaim(t *testing.T) {
	a := arena.NewArena()
	p := plic.NewPLIC(a)
	defer p.Release(a)

	setup(t, a, p, 12, 1)
	p.Raise(a, 12)

	// a debugging read of the claim register reports the candidate
	// without serving it
	buf := make([]byte, 4)
	p.ReadDebug(buf, a, plic.AddrClaim)
	test.Equate(t, binary.LittleEndian.Uint32(buf), uint32(12))

	test.ExpectedSuccess(t, p.Interrupt(a, 0))
	test.Equate(t, peek32(t, a, p, plic.AddrClaim), uint32(12))
}

func TestDroppedAccesses(t *testing.T) {
	a := arena.NewArena()
	p := plic.NewPLIC(a)
	defer p.Release(a)

	setup(t, a, p, 4, 1)
	p.Raise(a, 4)

	// only aligned 4-byte accesses reach the registers
	buf := []byte{0xaa, 0xaa}
	p.Read(buf, a, plic.AddrPending)
	test.Equate(t, buf[0], uint8(0xaa))

	big := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	p.Write(a, plic.AddrEnable, big)
	test.Equate(t, peek32(t, a, p, plic.AddrEnable), uint32(1<<4))

	misaligned := []byte{0xaa, 0xaa, 0xaa, 0xaa}
	p.Read(misaligned, a, plic.AddrPending+2)
	test.Equate(t, misaligned[0], uint8(0xaa))
}

func TestOutOfRangeSources(t *testing.T) {
	a := arena.NewArena()
	p := plic.NewPLIC(a)
	defer p.Release(a)

	// sources outside 1 to 52 are ignored rather than corrupting state
	test.ExpectNoPanic(t, func() { p.Raise(a, 0) })
	test.ExpectNoPanic(t, func() { p.Raise(a, 53) })
	test.ExpectNoPanic(t, func() { p.Lower(a, 0) })

	test.Equate(t, peek32(t, a, p, plic.AddrPending), uint32(0))
	test.Equate(t, peek32(t, a, p, plic.AddrPending+4), uint32(0))
}
