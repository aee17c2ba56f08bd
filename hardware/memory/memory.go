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

package memory

import (
	"fmt"

	"github.com/jonatcln/redplanet/hardware/arena"
	"github.com/jonatcln/redplanet/hardware/clint"
	"github.com/jonatcln/redplanet/hardware/irq"
	"github.com/jonatcln/redplanet/hardware/memory/bus"
	"github.com/jonatcln/redplanet/hardware/memory/memorymap"
	"github.com/jonatcln/redplanet/hardware/plic"
	"github.com/jonatcln/redplanet/hardware/uart"
)

// SystemBus owns the memory map and one instance of every device the map
// can name. Invariant: every resource the map can produce resolves to a
// live device, so dispatch never fails once an access has been validated.
//
// The bus itself holds no state beyond its devices. It is assembled by the
// board and must be torn down with Release() before the allocator is
// discarded.
type SystemBus struct {
	Map *memorymap.Map

	MROM      *ROM
	CLINT     *clint.CLINT
	PLIC      *plic.PLIC
	UART0     *uart.UART
	Flash     *ROM
	DRAM      *RAM
	PowerDown *PowerDown

	released bool
}

// checkAccess validates the (address, size) pair against the memory map.
// On acceptance it returns the resource covering the address and the
// address translated to be relative to the origin of the resource's range.
//
// Rejection means the covering range is vacant, the size is zero, or the
// span would run past the end of the covering range. The subtraction in
// the containment test cannot overflow: Lookup() guarantees the address is
// at least the range origin and at most the range memtop.
func (m *SystemBus) checkAccess(address uint32, size int) (memorymap.Resource, uint32, bool) {
	rng, res := m.Map.Lookup(address)

	if res == memorymap.Undefined {
		return memorymap.Undefined, 0, false
	}

	if size <= 0 {
		return memorymap.Undefined, 0, false
	}

	// comparing in 64 bits rejects any size too large for the 32-bit
	// domain without wrapping
	if uint64(size)-1 > uint64(rng.Memtop-address) {
		return memorymap.Undefined, 0, false
	}

	return res, address - rng.Origin, true
}

// device returns the device instance for a resource the map produced
func (m *SystemBus) device(res memorymap.Resource) bus.Device {
	switch res {
	case memorymap.MROM:
		return m.MROM
	case memorymap.CLINT:
		return m.CLINT
	case memorymap.PLIC:
		return m.PLIC
	case memorymap.UART0:
		return m.UART0
	case memorymap.Flash:
		return m.Flash
	case memorymap.DRAM:
		return m.DRAM
	case memorymap.PowerDown:
		return m.PowerDown
	}

	panic(fmt.Sprintf("memory: no device for resource: %s", res))
}

// Accepts reports whether an access of the given size and direction at the
// given address is admissible: the span must be contained in a mapped range
// and the addressed device's size/direction rules must allow it.
//
// Accepts has no side effects. Callers that need a guarantee an access will
// not be silently dropped must consult Accepts before issuing it; the
// read/write path itself only enforces containment.
func (m *SystemBus) Accepts(address uint32, size int, access bus.AccessType) bool {
	if m.released {
		panic("memory: use of released bus")
	}

	res, _, ok := m.checkAccess(address, size)
	if !ok {
		return false
	}

	switch res {
	case memorymap.MROM:
		return access != bus.Write
	case memorymap.CLINT:
		return size == 4 || size == 8
	case memorymap.PLIC:
		return size == 4
	case memorymap.UART0:
		return true
	case memorymap.Flash:
		return access != bus.Write
	case memorymap.DRAM:
		return true
	case memorymap.PowerDown:
		return access == bus.Write
	}

	return false
}

// Read fills buf from the device covering the address. An access that
// fails validation leaves buf entirely unmodified.
func (m *SystemBus) Read(buf []byte, a arena.Allocator, address uint32) {
	if m.released {
		panic("memory: use of released bus")
	}

	if res, offset, ok := m.checkAccess(address, len(buf)); ok {
		m.device(res).Read(buf, a, offset)
	}
}

// ReadDebug fills buf from the device covering the address, without
// triggering any of the side effects a normal Read may have. It is safe to
// call at any time without perturbing machine state. An access that fails
// validation leaves buf entirely unmodified.
func (m *SystemBus) ReadDebug(buf []byte, a arena.Inspector, address uint32) {
	if m.released {
		panic("memory: use of released bus")
	}

	if res, offset, ok := m.checkAccess(address, len(buf)); ok {
		m.device(res).ReadDebug(buf, a, offset)
	}
}

// Write forwards buf to the device covering the address. An access that
// fails validation changes no device state.
func (m *SystemBus) Write(a arena.Allocator, address uint32, buf []byte) {
	if m.released {
		panic("memory: use of released bus")
	}

	if res, offset, ok := m.checkAccess(address, len(buf)); ok {
		m.device(res).Write(a, offset, buf)
	}
}

// Release hands every device's arena storage back to the allocator. The
// power-down latch holds no arena storage and is skipped. The bus must not
// be used after Release; any outstanding interrupt callbacks become quiet
// no-ops.
func (m *SystemBus) Release(a arena.Allocator) {
	if m.released {
		panic("memory: bus released twice")
	}

	m.MROM.Release(a)
	m.CLINT.Release(a)
	m.PLIC.Release(a)
	m.UART0.Release(a)
	m.Flash.Release(a)
	m.DRAM.Release(a)

	m.released = true
}

// plicIrqCallback holds a non-owning reference to the bus. Go has no weak
// pointers so the reference is an ordinary pointer paired with the bus's
// released flag: resolve() treats a released bus as absent.
type plicIrqCallback struct {
	bus   *SystemBus
	index uint8
}

func (c *plicIrqCallback) resolve() *SystemBus {
	if c.bus.released {
		return nil
	}
	return c.bus
}

// Raise implements the irq.Callback interface
func (c *plicIrqCallback) Raise(a arena.Allocator) {
	if bus := c.resolve(); bus != nil {
		bus.PLIC.Raise(a, c.index)
	}
}

// Lower implements the irq.Callback interface
func (c *plicIrqCallback) Lower(a arena.Allocator) {
	if bus := c.resolve(); bus != nil {
		bus.PLIC.Lower(a, c.index)
	}
}

// PlicIrqCallback returns a callback bound to the numbered PLIC source.
// The callback does not keep the bus alive: once the bus has been released,
// raising and lowering do nothing, which is the expected situation during
// teardown.
//
// An index outside 1 to 52 is a configuration defect and panics.
func (m *SystemBus) PlicIrqCallback(index uint8) irq.Callback {
	if index < 1 || index > plic.NumSources {
		panic(fmt.Sprintf("memory: invalid interrupt source: %d", index))
	}

	return &plicIrqCallback{bus: m, index: index}
}
