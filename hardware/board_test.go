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

package hardware_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/jonatcln/redplanet/hardware"
	"github.com/jonatcln/redplanet/hardware/arena"
	"github.com/jonatcln/redplanet/hardware/memory/bus"
	"github.com/jonatcln/redplanet/hardware/memory/memorymap"
	"github.com/jonatcln/redplanet/hardware/plic"
	"github.com/jonatcln/redplanet/hardware/uart"
	"github.com/jonatcln/redplanet/test"
)

// a small DRAM keeps board tests cheap
const testDRAMSize = 0x10000

func TestReleaseReturnsEverything(t *testing.T) {
	a := arena.NewArena()

	board, err := hardware.NewBoard(a, hardware.BoardSpec{DRAMSize: testDRAMSize})
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, a.Live() > 0)

	board.Release(a)
	test.Equate(t, a.Live(), 0)
}

func TestRoundTrip(t *testing.T) {
	a := arena.NewArena()

	board, err := hardware.NewBoard(a, hardware.BoardSpec{DRAMSize: testDRAMSize})
	test.ExpectedSuccess(t, err)
	defer board.Release(a)

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 0xdeadbeef)

	test.ExpectedSuccess(t, board.Mem.Accepts(memorymap.OriginDRAM, 4, bus.Write))
	board.Mem.Write(a, memorymap.OriginDRAM, buf)

	check := make([]byte, 4)
	board.Mem.Read(check, a, memorymap.OriginDRAM)
	test.Equate(t, binary.LittleEndian.Uint32(check), uint32(0xdeadbeef))
}

func TestImages(t *testing.T) {
	a := arena.NewArena()

	board, err := hardware.NewBoard(a, hardware.BoardSpec{
		DRAMSize:  testDRAMSize,
		MROMImage: []byte{0x01, 0x02},
		DRAMImage: []byte{0x03, 0x04},
	})
	test.ExpectedSuccess(t, err)
	defer board.Release(a)

	buf := make([]byte, 2)
	board.Mem.ReadDebug(buf, a, memorymap.OriginMROM)
	test.Equate(t, buf[0], uint8(0x01))
	test.Equate(t, buf[1], uint8(0x02))

	board.Mem.ReadDebug(buf, a, memorymap.OriginDRAM)
	test.Equate(t, buf[0], uint8(0x03))
	test.Equate(t, buf[1], uint8(0x04))
}

func TestBadSpecs(t *testing.T) {
	a := arena.NewArena()

	_, err := hardware.NewBoard(a, hardware.BoardSpec{DRAMSize: -1})
	test.ExpectedFailure(t, err)

	_, err = hardware.NewBoard(a, hardware.BoardSpec{
		DRAMSize:  testDRAMSize,
		DRAMImage: make([]byte, testDRAMSize+1),
	})
	test.ExpectedFailure(t, err)

	_, err = hardware.NewBoard(a, hardware.BoardSpec{
		DRAMSize:  testDRAMSize,
		MROMImage: make([]byte, 0x10000),
	})
	test.ExpectedFailure(t, err)

	// a failed construction leaves nothing behind in the allocator
	test.Equate(t, a.Live(), 0)
}

func TestPowerDown(t *testing.T) {
	a := arena.NewArena()

	board, err := hardware.NewBoard(a, hardware.BoardSpec{DRAMSize: testDRAMSize})
	test.ExpectedSuccess(t, err)
	defer board.Release(a)

	test.ExpectedFailure(t, board.PoweredDown())

	// reads of the latch are rejected by policy
	test.ExpectedFailure(t, board.Mem.Accepts(memorymap.OriginPowerDown, 4, bus.Read))

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 0x5555)
	board.Mem.Write(a, memorymap.OriginPowerDown, buf)

	test.ExpectedSuccess(t, board.PoweredDown())
	test.Equate(t, board.Mem.PowerDown.Code(), uint32(0x5555))
}

// a character arriving on the serial line travels all the way to a claimable
// PLIC interrupt and back out through the transmit side
func TestUARTInterruptPath(t *testing.T) {
	a := arena.NewArena()

	tx := &strings.Builder{}
	board, err := hardware.NewBoard(a, hardware.BoardSpec{
		DRAMSize:   testDRAMSize,
		UARTOutput: tx,
	})
	test.ExpectedSuccess(t, err)
	defer board.Release(a)

	mem := board.Mem

	// guest setup through the bus: PLIC priority and enable for the UART
	// source, then the UART's received-data interrupt
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 1)
	mem.Write(a, memorymap.OriginPLIC+plic.AddrPriority+4*uint32(hardware.UART0IrqSource), buf)

	binary.LittleEndian.PutUint32(buf, 1<<hardware.UART0IrqSource)
	mem.Write(a, memorymap.OriginPLIC+plic.AddrEnable, buf)

	mem.Write(a, memorymap.OriginUART0+uart.AddrIER, []byte{0x01})

	test.ExpectedFailure(t, mem.PLIC.Interrupt(a, 0))

	mem.UART0.Receive(a, '!')
	test.ExpectedSuccess(t, mem.PLIC.Interrupt(a, 0))

	// claim, service (read RBR, echo to THR), complete
	claim := make([]byte, 4)
	mem.Read(claim, a, memorymap.OriginPLIC+plic.AddrClaim)
	test.Equate(t, binary.LittleEndian.Uint32(claim), uint32(hardware.UART0IrqSource))

	data := make([]byte, 1)
	mem.Read(data, a, memorymap.OriginUART0+uart.AddrRBR)
	test.Equate(t, data[0], uint8('!'))
	mem.Write(a, memorymap.OriginUART0+uart.AddrTHR, data)

	mem.Write(a, memorymap.OriginPLIC+plic.AddrClaim, claim)
	test.ExpectedFailure(t, mem.PLIC.Interrupt(a, 0))

	test.Equate(t, tx.String(), "!")
}

func TestSnapshotRewind(t *testing.T) {
	a := arena.NewArena()

	board, err := hardware.NewBoard(a, hardware.BoardSpec{DRAMSize: testDRAMSize})
	test.ExpectedSuccess(t, err)
	defer board.Release(a)

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 0x11111111)
	board.Mem.Write(a, memorymap.OriginDRAM, buf)

	snap := a.Snapshot()

	binary.LittleEndian.PutUint32(buf, 0x22222222)
	board.Mem.Write(a, memorymap.OriginDRAM, buf)
	board.Tick(a, 1000)

	// rewinding the allocator rewinds the whole machine
	a.Plumb(snap)

	check := make([]byte, 4)
	board.Mem.Read(check, a, memorymap.OriginDRAM)
	test.Equate(t, binary.LittleEndian.Uint32(check), uint32(0x11111111))

	board.Mem.ReadDebug(check, a, memorymap.OriginCLINT+0xbff8)
	test.Equate(t, binary.LittleEndian.Uint32(check), uint32(0))
}
