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

package hardware

import (
	"io"

	"github.com/jonatcln/redplanet/curated"
	"github.com/jonatcln/redplanet/hardware/arena"
	"github.com/jonatcln/redplanet/hardware/clint"
	"github.com/jonatcln/redplanet/hardware/memory"
	"github.com/jonatcln/redplanet/hardware/memory/memorymap"
	"github.com/jonatcln/redplanet/hardware/plic"
	"github.com/jonatcln/redplanet/hardware/uart"
	"github.com/jonatcln/redplanet/logger"
)

// UART0IrqSource is the PLIC source number of the serial port
const UART0IrqSource = uint8(10)

// DefaultDRAMSize is the amount of DRAM a board is fitted with when the
// spec does not say otherwise
const DefaultDRAMSize = 128 * 1024 * 1024

// mromSize and flashSize follow from the fixed ranges in the memory map
const (
	mromSize  = int(memorymap.MemtopMROM - memorymap.OriginMROM + 1)
	flashSize = int(memorymap.MemtopFlash - memorymap.OriginFlash + 1)
)

// BoardSpec describes the machine to build. The zero value is a valid
// specification: default DRAM size, empty memories, transmitted UART bytes
// discarded.
type BoardSpec struct {
	// DRAMSize is the amount of DRAM in bytes. Zero means DefaultDRAMSize.
	DRAMSize int

	// initial contents of the three memories. each may be nil or shorter
	// than the memory it loads into
	MROMImage  []byte
	FlashImage []byte
	DRAMImage  []byte

	// host side of the UART transmit line. may be nil.
	UARTOutput io.Writer
}

// Board is the assembled machine. All machine state lives in the allocator
// the board was built with; the board must be torn down with Release()
// against that same allocator before the allocator is discarded.
type Board struct {
	Mem *memory.SystemBus
}

// NewBoard is the preferred method of initialisation for the Board type
func NewBoard(a arena.Allocator, spec BoardSpec) (*Board, error) {
	dramSize := spec.DRAMSize
	if dramSize == 0 {
		dramSize = DefaultDRAMSize
	}
	if dramSize < 0 || uint64(dramSize) > 0x80000000 {
		return nil, curated.Errorf("board: invalid DRAM size: %d", dramSize)
	}

	// validate every image before allocating anything so that a failed
	// construction leaves the allocator untouched
	if len(spec.DRAMImage) > dramSize {
		return nil, curated.Errorf("board: DRAM image of %d bytes does not fit in %d bytes", len(spec.DRAMImage), dramSize)
	}
	if len(spec.MROMImage) > mromSize {
		return nil, curated.Errorf("board: MROM image of %d bytes does not fit in %d bytes", len(spec.MROMImage), mromSize)
	}
	if len(spec.FlashImage) > flashSize {
		return nil, curated.Errorf("board: flash image of %d bytes does not fit in %d bytes", len(spec.FlashImage), flashSize)
	}

	mmap := memorymap.NewMap()
	for _, r := range []struct {
		origin uint32
		memtop uint32
		res    memorymap.Resource
	}{
		{memorymap.OriginMROM, memorymap.MemtopMROM, memorymap.MROM},
		{memorymap.OriginPowerDown, memorymap.MemtopPowerDown, memorymap.PowerDown},
		{memorymap.OriginCLINT, memorymap.MemtopCLINT, memorymap.CLINT},
		{memorymap.OriginPLIC, memorymap.MemtopPLIC, memorymap.PLIC},
		{memorymap.OriginUART0, memorymap.MemtopUART0, memorymap.UART0},
		{memorymap.OriginFlash, memorymap.MemtopFlash, memorymap.Flash},
		{memorymap.OriginDRAM, memorymap.OriginDRAM + uint32(dramSize) - 1, memorymap.DRAM},
	} {
		if err := mmap.Add(r.origin, r.memtop, r.res); err != nil {
			return nil, curated.Errorf("board: %v", err)
		}
	}

	mrom, err := memory.NewROM(a, mromSize, spec.MROMImage)
	if err != nil {
		return nil, curated.Errorf("board: %v", err)
	}
	flash, err := memory.NewROM(a, flashSize, spec.FlashImage)
	if err != nil {
		return nil, curated.Errorf("board: %v", err)
	}

	mem := &memory.SystemBus{
		Map:       mmap,
		MROM:      mrom,
		CLINT:     clint.NewCLINT(a),
		PLIC:      plic.NewPLIC(a),
		UART0:     uart.NewUART(a, spec.UARTOutput),
		Flash:     flash,
		DRAM:      memory.NewRAM(a, dramSize),
		PowerDown: memory.NewPowerDown(),
	}

	// the UART raises its interrupt through the bus so it can only be
	// wired up now that the bus exists
	mem.UART0.Plumb(mem.PlicIrqCallback(UART0IrqSource))

	if len(spec.DRAMImage) > 0 {
		mem.Write(a, memorymap.OriginDRAM, spec.DRAMImage)
	}

	logger.Logf("board", "%d bytes of DRAM fitted", dramSize)

	return &Board{Mem: mem}, nil
}

// Tick advances the machine timer by the given number of cycles
func (b *Board) Tick(a arena.Allocator, cycles uint64) {
	b.Mem.CLINT.Tick(a, cycles)
}

// PoweredDown returns true once software has asked the machine to stop
func (b *Board) PoweredDown() bool {
	return b.Mem.PowerDown.Requested()
}

// Release hands all machine state back to the allocator. The board must
// not be used afterwards. Skipping Release before discarding the allocator
// corrupts the allocator's accounting.
func (b *Board) Release(a arena.Allocator) {
	b.Mem.Release(a)
}
