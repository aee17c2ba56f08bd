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

package memorymap_test

import (
	"strings"
	"testing"

	"github.com/jonatcln/redplanet/hardware/memory/memorymap"
	"github.com/jonatcln/redplanet/test"
)

func newTestMap(t *testing.T) *memorymap.Map {
	t.Helper()

	m := memorymap.NewMap()
	test.ExpectedSuccess(t, m.Add(0x1000, 0x1fff, memorymap.DRAM))
	test.ExpectedSuccess(t, m.Add(0x4000, 0x7fff, memorymap.MROM))
	test.ExpectedSuccess(t, m.Add(0x10000000, 0x100000ff, memorymap.UART0))

	return m
}

func TestLookup(t *testing.T) {
	m := newTestMap(t)

	rng, res := m.Lookup(0x1000)
	test.Equate(t, res, memorymap.DRAM)
	test.Equate(t, rng.Origin, uint32(0x1000))
	test.Equate(t, rng.Memtop, uint32(0x1fff))

	// both ends of a range resolve to the same range
	rng, res = m.Lookup(0x1fff)
	test.Equate(t, res, memorymap.DRAM)
	test.Equate(t, rng.Origin, uint32(0x1000))

	_, res = m.Lookup(0x4abc)
	test.Equate(t, res, memorymap.MROM)

	_, res = m.Lookup(0x100000ff)
	test.Equate(t, res, memorymap.UART0)
}

// the map is total: an address outside any added range resolves to the
// vacant gap between its neighbours
func TestLookupVacant(t *testing.T) {
	m := newTestMap(t)

	rng, res := m.Lookup(0x0000)
	test.Equate(t, res, memorymap.Undefined)
	test.Equate(t, rng.Origin, uint32(0x0000))
	test.Equate(t, rng.Memtop, uint32(0x0fff))

	rng, res = m.Lookup(0x2000)
	test.Equate(t, res, memorymap.Undefined)
	test.Equate(t, rng.Origin, uint32(0x2000))
	test.Equate(t, rng.Memtop, uint32(0x3fff))

	rng, res = m.Lookup(0xffffffff)
	test.Equate(t, res, memorymap.Undefined)
	test.Equate(t, rng.Origin, uint32(0x10000100))
	test.Equate(t, rng.Memtop, uint32(0xffffffff))
}

func TestAddOverlap(t *testing.T) {
	m := newTestMap(t)

	test.ExpectedFailure(t, m.Add(0x1800, 0x27ff, memorymap.Flash))
	test.ExpectedFailure(t, m.Add(0x0000, 0xffffffff, memorymap.Flash))
	test.ExpectedFailure(t, m.Add(0x1fff, 0x1fff, memorymap.Flash))

	// malformed ranges and explicit vacancy are also rejected
	test.ExpectedFailure(t, m.Add(0x3000, 0x2000, memorymap.Flash))
	test.ExpectedFailure(t, m.Add(0x2000, 0x2fff, memorymap.Undefined))

	// a range that exactly fills a gap is fine
	test.ExpectedSuccess(t, m.Add(0x2000, 0x3fff, memorymap.Flash))
}

func TestOrigin(t *testing.T) {
	m := newTestMap(t)

	origin, ok := m.Origin(memorymap.MROM)
	test.ExpectedSuccess(t, ok)
	test.Equate(t, origin, uint32(0x4000))

	_, ok = m.Origin(memorymap.PLIC)
	test.ExpectedFailure(t, ok)
}

func TestResources(t *testing.T) {
	m := newTestMap(t)

	l := m.Resources()
	test.Equate(t, len(l), 3)
	test.Equate(t, l[0], memorymap.DRAM)
	test.Equate(t, l[1], memorymap.MROM)
	test.Equate(t, l[2], memorymap.UART0)
}

func TestSummary(t *testing.T) {
	m := newTestMap(t)
	s := m.Summary()

	// three mapped areas and three vacant gaps
	test.Equate(t, strings.Count(s, "\n"), 7)
	test.ExpectedSuccess(t, strings.Contains(s, "00001000 -> 00001fff\tDRAM"))
	test.ExpectedSuccess(t, strings.Contains(s, "00002000 -> 00003fff\tvacant"))
	test.ExpectedSuccess(t, strings.Contains(s, "10000100 -> ffffffff\tvacant"))
}
