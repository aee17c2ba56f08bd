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

// Package plic implements the platform-level interrupt controller: 52
// interrupt sources fanning in to 2 contexts (machine and supervisor mode
// of the single hart).
//
// Register layout, device-local addresses, all registers 32-bit
// little-endian. src is 1 to 52, ctx is 0 or 1:
//
//	0x000000 + 4*src	priority of source src
//	0x001000, 0x001004	pending bits (read-only)
//	0x002000 + 0x80*ctx	enable bits for ctx (2 words)
//	0x200000 + 0x1000*ctx	priority threshold for ctx
//	0x200004 + 0x1000*ctx	claim/complete for ctx
//
// Registers respond to aligned 4-byte accesses only; anything else is
// dropped by the device.
//
// Sources are level-triggered. A source becomes pending when its line is
// raised, stops being pending while it is being served (claimed but not yet
// completed), and becomes pending again after completion if the line is
// still high.
//
// Note that reading the claim register performs the claim. A debugging read
// returns the source that would be claimed without claiming it.
package plic

import (
	"encoding/binary"

	"github.com/jonatcln/redplanet/hardware/arena"
)

// NumSources is the number of interrupt sources. Source numbering starts at
// 1; source 0 is reserved and means "no interrupt" in the claim register.
const NumSources = 52

// NumContexts is the number of interrupt contexts served by the controller
const NumContexts = 2

// Device-local addresses of the register groups
const (
	AddrPriority  = uint32(0x000000)
	AddrPending   = uint32(0x001000)
	AddrEnable    = uint32(0x002000)
	AddrThreshold = uint32(0x200000)
	AddrClaim     = uint32(0x200004)
)

// offsets into the arena region. level is the raw line state, served the
// set of sources claimed but not yet completed.
const (
	regLevel     = 0x00
	regServed    = 0x08
	regPriority  = 0x10 // 52 words, indexed by src-1
	regEnable    = 0xe0 // one u64 per context
	regThreshold = 0xf0 // one u32 per context
	regionSize   = 0xf8
)

// PLIC is the platform-level interrupt controller. All state lives in a
// single arena region so that it snapshots with the rest of the machine.
type PLIC struct {
	region arena.Region
}

// NewPLIC is the preferred method of initialisation for the PLIC type
func NewPLIC(a arena.Allocator) *PLIC {
	return &PLIC{region: a.Allocate(regionSize)}
}

// Release implements the bus.Device interface
func (p *PLIC) Release(a arena.Allocator) {
	a.Free(p.region)
}

// Raise the line of the numbered source. Sources outside 1 to 52 are
// ignored.
func (p *PLIC) Raise(a arena.Allocator, src uint8) {
	if src < 1 || src > NumSources {
		return
	}
	data := a.Mutate(p.region)
	level := binary.LittleEndian.Uint64(data[regLevel:])
	binary.LittleEndian.PutUint64(data[regLevel:], level|uint64(1)<<src)
}

// Lower the line of the numbered source. Sources outside 1 to 52 are
// ignored.
func (p *PLIC) Lower(a arena.Allocator, src uint8) {
	if src < 1 || src > NumSources {
		return
	}
	data := a.Mutate(p.region)
	level := binary.LittleEndian.Uint64(data[regLevel:])
	binary.LittleEndian.PutUint64(data[regLevel:], level&^(uint64(1)<<src))
}

// Interrupt returns true if an interrupt is pending for the context
func (p *PLIC) Interrupt(a arena.Inspector, ctx int) bool {
	return best(a.View(p.region), ctx) != 0
}

// pending sources are those whose line is high and that are not currently
// being served
func pending(data []byte) uint64 {
	level := binary.LittleEndian.Uint64(data[regLevel:])
	served := binary.LittleEndian.Uint64(data[regServed:])
	return level &^ served
}

// best returns the pending source with the highest priority strictly above
// the context's threshold, among those the context has enabled. ties are
// broken in favour of the lowest source number. returns 0 if there is none.
func best(data []byte, ctx int) uint32 {
	if ctx < 0 || ctx >= NumContexts {
		return 0
	}

	pend := pending(data)
	enable := binary.LittleEndian.Uint64(data[regEnable+8*ctx:])
	threshold := binary.LittleEndian.Uint32(data[regThreshold+4*ctx:])

	var bestSrc uint32
	var bestPrio uint32

	for src := uint32(1); src <= NumSources; src++ {
		if pend&enable&(uint64(1)<<src) == 0 {
			continue
		}
		prio := binary.LittleEndian.Uint32(data[regPriority+4*(src-1):])
		if prio > threshold && prio > bestPrio {
			bestSrc = src
			bestPrio = prio
		}
	}

	return bestSrc
}

// claim the best pending source for the context, marking it as served
func claim(data []byte, ctx int) uint32 {
	src := best(data, ctx)
	if src != 0 {
		served := binary.LittleEndian.Uint64(data[regServed:])
		binary.LittleEndian.PutUint64(data[regServed:], served|uint64(1)<<src)
	}
	return src
}

// complete serving of the numbered source
func complete(data []byte, src uint32) {
	if src < 1 || src > NumSources {
		return
	}
	served := binary.LittleEndian.Uint64(data[regServed:])
	binary.LittleEndian.PutUint64(data[regServed:], served&^(uint64(1)<<src))
}

// Read implements the bus.Device interface. Note that reading the claim
// register claims the interrupt.
func (p *PLIC) Read(buf []byte, a arena.Allocator, offset uint32) {
	if len(buf) != 4 || offset%4 != 0 {
		return
	}

	data := a.Mutate(p.region)

	for ctx := 0; ctx < NumContexts; ctx++ {
		if offset == AddrClaim+0x1000*uint32(ctx) {
			binary.LittleEndian.PutUint32(buf, claim(data, ctx))
			return
		}
	}

	p.readQuiet(buf, data, offset)
}

// ReadDebug implements the bus.Device interface. A debugging read of the
// claim register reports the claim candidate without claiming it.
func (p *PLIC) ReadDebug(buf []byte, a arena.Inspector, offset uint32) {
	if len(buf) != 4 || offset%4 != 0 {
		return
	}

	data := a.View(p.region)

	for ctx := 0; ctx < NumContexts; ctx++ {
		if offset == AddrClaim+0x1000*uint32(ctx) {
			binary.LittleEndian.PutUint32(buf, best(data, ctx))
			return
		}
	}

	p.readQuiet(buf, data, offset)
}

// readQuiet handles the registers whose read has no side effect
func (p *PLIC) readQuiet(buf []byte, data []byte, offset uint32) {
	switch {
	case offset >= AddrPriority+4 && offset < AddrPriority+4+4*NumSources:
		src := (offset - AddrPriority) / 4
		copy(buf, data[regPriority+4*(src-1):])

	case offset == AddrPending:
		binary.LittleEndian.PutUint32(buf, uint32(pending(data)))

	case offset == AddrPending+4:
		binary.LittleEndian.PutUint32(buf, uint32(pending(data)>>32))

	default:
		for ctx := 0; ctx < NumContexts; ctx++ {
			switch offset {
			case AddrEnable + 0x80*uint32(ctx):
				copy(buf, data[regEnable+8*ctx:regEnable+8*ctx+4])
				return
			case AddrEnable + 0x80*uint32(ctx) + 4:
				copy(buf, data[regEnable+8*ctx+4:regEnable+8*ctx+8])
				return
			case AddrThreshold + 0x1000*uint32(ctx):
				copy(buf, data[regThreshold+4*ctx:regThreshold+4*ctx+4])
				return
			}
		}
	}
}

// Write implements the bus.Device interface. A write to the claim register
// completes the written source.
func (p *PLIC) Write(a arena.Allocator, offset uint32, buf []byte) {
	if len(buf) != 4 || offset%4 != 0 {
		return
	}

	data := a.Mutate(p.region)
	v := binary.LittleEndian.Uint32(buf)

	switch {
	case offset >= AddrPriority+4 && offset < AddrPriority+4+4*NumSources:
		src := (offset - AddrPriority) / 4
		binary.LittleEndian.PutUint32(data[regPriority+4*(src-1):], v)

	default:
		for ctx := 0; ctx < NumContexts; ctx++ {
			switch offset {
			case AddrEnable + 0x80*uint32(ctx):
				copy(data[regEnable+8*ctx:regEnable+8*ctx+4], buf)
				return
			case AddrEnable + 0x80*uint32(ctx) + 4:
				copy(data[regEnable+8*ctx+4:regEnable+8*ctx+8], buf)
				return
			case AddrThreshold + 0x1000*uint32(ctx):
				copy(data[regThreshold+4*ctx:regThreshold+4*ctx+4], buf)
				return
			case AddrClaim + 0x1000*uint32(ctx):
				complete(data, v)
				return
			}
		}
	}
}
