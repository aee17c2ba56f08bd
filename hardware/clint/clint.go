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

// Package clint implements the core-local interruptor for a single hart:
// the machine timer (mtime/mtimecmp) and the software interrupt register
// (msip).
//
// Register layout, device-local addresses, all little-endian:
//
//	0x0000	msip		(4 bytes)
//	0x4000	mtimecmp	(8 bytes)
//	0xbff8	mtime		(8 bytes)
//
// Registers respond to naturally-sized and aligned accesses only: 4-byte
// accesses to msip, 4 or 8-byte accesses to the two timer registers. Any
// other access is dropped by the device.
package clint

import (
	"encoding/binary"

	"github.com/jonatcln/redplanet/hardware/arena"
)

// Device-local addresses of the CLINT registers
const (
	AddrMSIP     = uint32(0x0000)
	AddrMTIMECMP = uint32(0x4000)
	AddrMTIME    = uint32(0xbff8)
)

// offsets of the registers inside the arena region. msip is stored as a
// full word at the start, the two 64-bit registers follow.
const (
	regMSIP     = 0
	regMTIMECMP = 8
	regMTIME    = 16
	regionSize  = 24
)

// CLINT is the core-local interruptor. All state lives in a single arena
// region so that it snapshots with the rest of the machine.
type CLINT struct {
	region arena.Region
}

// NewCLINT is the preferred method of initialisation for the CLINT type
func NewCLINT(a arena.Allocator) *CLINT {
	return &CLINT{region: a.Allocate(regionSize)}
}

// register maps a device-local access onto an offset in the arena region.
// returns false for any access that does not hit a register exactly.
func register(offset uint32, size int) (int, bool) {
	switch offset {
	case AddrMSIP:
		if size == 4 {
			return regMSIP, true
		}
	case AddrMTIMECMP:
		if size == 4 || size == 8 {
			return regMTIMECMP, true
		}
	case AddrMTIMECMP + 4:
		if size == 4 {
			return regMTIMECMP + 4, true
		}
	case AddrMTIME:
		if size == 4 || size == 8 {
			return regMTIME, true
		}
	case AddrMTIME + 4:
		if size == 4 {
			return regMTIME + 4, true
		}
	}
	return 0, false
}

func (c *CLINT) read(buf []byte, data []byte, offset uint32) {
	if o, ok := register(offset, len(buf)); ok {
		copy(buf, data[o:o+len(buf)])
	}
}

// Read implements the bus.Device interface
func (c *CLINT) Read(buf []byte, a arena.Allocator, offset uint32) {
	c.read(buf, a.View(c.region), offset)
}

// ReadDebug implements the bus.Device interface. Reading the CLINT has no
// side effects so this is the same as Read.
func (c *CLINT) ReadDebug(buf []byte, a arena.Inspector, offset uint32) {
	c.read(buf, a.View(c.region), offset)
}

// Write implements the bus.Device interface
func (c *CLINT) Write(a arena.Allocator, offset uint32, buf []byte) {
	if o, ok := register(offset, len(buf)); ok {
		copy(a.Mutate(c.region)[o:o+len(buf)], buf)
	}
}

// Release implements the bus.Device interface
func (c *CLINT) Release(a arena.Allocator) {
	a.Free(c.region)
}

// Tick advances mtime by the given number of cycles
func (c *CLINT) Tick(a arena.Allocator, cycles uint64) {
	data := a.Mutate(c.region)
	mtime := binary.LittleEndian.Uint64(data[regMTIME:])
	binary.LittleEndian.PutUint64(data[regMTIME:], mtime+cycles)
}

// MTIP returns the state of the machine timer interrupt: true when mtime
// has reached mtimecmp
func (c *CLINT) MTIP(a arena.Inspector) bool {
	data := a.View(c.region)
	mtime := binary.LittleEndian.Uint64(data[regMTIME:])
	mtimecmp := binary.LittleEndian.Uint64(data[regMTIMECMP:])
	return mtime >= mtimecmp
}

// MSIP returns the state of the machine software interrupt
func (c *CLINT) MSIP(a arena.Inspector) bool {
	data := a.View(c.region)
	return binary.LittleEndian.Uint32(data[regMSIP:])&0x01 == 0x01
}
