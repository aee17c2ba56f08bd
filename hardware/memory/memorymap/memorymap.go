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

package memorymap

import (
	"sort"

	"github.com/jonatcln/redplanet/curated"
)

// Resource identifies one of the devices attached to the system bus
type Resource int

func (r Resource) String() string {
	switch r {
	case MROM:
		return "MROM"
	case CLINT:
		return "CLINT"
	case PLIC:
		return "PLIC"
	case UART0:
		return "UART0"
	case Flash:
		return "Flash"
	case DRAM:
		return "DRAM"
	case PowerDown:
		return "PowerDown"
	}

	return "vacant"
}

// The different resources attached to the system bus. Undefined is the
// resource of a vacant range.
const (
	Undefined Resource = iota
	MROM
	CLINT
	PLIC
	UART0
	Flash
	DRAM
	PowerDown
)

// The origin address for each area of the default memory map. The memtop of
// the DRAM area depends on how much memory the board is fitted with, so the
// board computes it from the fitted size.
const (
	OriginMROM      = uint32(0x00001000)
	MemtopMROM      = uint32(0x0000ffff)
	OriginPowerDown = uint32(0x00100000)
	MemtopPowerDown = uint32(0x00100fff)
	OriginCLINT     = uint32(0x02000000)
	MemtopCLINT     = uint32(0x0200ffff)
	OriginPLIC      = uint32(0x0c000000)
	MemtopPLIC      = uint32(0x0c5fffff)
	OriginUART0     = uint32(0x10000000)
	MemtopUART0     = uint32(0x100000ff)
	OriginFlash     = uint32(0x20000000)
	MemtopFlash     = uint32(0x23ffffff)
	OriginDRAM      = uint32(0x80000000)
)

// Range describes one contiguous area of the address space. Origin and
// Memtop are both inclusive.
type Range struct {
	Origin uint32
	Memtop uint32
}

type entry struct {
	rng Range
	res Resource
}

// Map is the two-way association between address ranges and resources. Use
// NewMap() and Add() to populate it.
type Map struct {
	// populated entries sorted by origin. vacant ranges are not stored;
	// Lookup() derives them from the gaps between entries
	entries []entry
}

// NewMap is the preferred method of initialisation for the Map type
func NewMap() *Map {
	return &Map{}
}

// Add associates the range between origin and memtop (inclusive) with the
// given resource. Returns an error if the range is malformed or overlaps a
// previously added range.
func (m *Map) Add(origin uint32, memtop uint32, res Resource) error {
	if res == Undefined {
		return curated.Errorf("memorymap: cannot add a vacant range explicitly")
	}
	if origin > memtop {
		return curated.Errorf("memorymap: invalid range: %08x -> %08x", origin, memtop)
	}

	for _, e := range m.entries {
		if origin <= e.rng.Memtop && memtop >= e.rng.Origin {
			return curated.Errorf("memorymap: range overlap: %08x -> %08x (%s)", origin, memtop, e.res)
		}
	}

	m.entries = append(m.entries, entry{rng: Range{Origin: origin, Memtop: memtop}, res: res})
	sort.Slice(m.entries, func(i, j int) bool {
		return m.entries[i].rng.Origin < m.entries[j].rng.Origin
	})

	return nil
}

// Lookup returns the range covering the address along with the resource the
// range is associated with. The map is total so every address has a covering
// range; for a vacant range the resource is Undefined.
func (m *Map) Lookup(address uint32) (Range, Resource) {
	// index of the first entry beyond the address
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].rng.Origin > address
	})

	if i > 0 && address <= m.entries[i-1].rng.Memtop {
		return m.entries[i-1].rng, m.entries[i-1].res
	}

	// address is in the vacant gap between entry i-1 and entry i
	vacant := Range{Origin: 0x00000000, Memtop: 0xffffffff}
	if i > 0 {
		vacant.Origin = m.entries[i-1].rng.Memtop + 1
	}
	if i < len(m.entries) {
		vacant.Memtop = m.entries[i].rng.Origin - 1
	}

	return vacant, Undefined
}

// Origin returns the start address of the range associated with the
// resource. The second return value is false if the resource has no range.
func (m *Map) Origin(res Resource) (uint32, bool) {
	for _, e := range m.entries {
		if e.res == res {
			return e.rng.Origin, true
		}
	}
	return 0, false
}

// Resources returns every resource the map can produce, in address order.
func (m *Map) Resources() []Resource {
	l := make([]Resource, 0, len(m.entries))
	for _, e := range m.entries {
		l = append(l, e.res)
	}
	return l
}
