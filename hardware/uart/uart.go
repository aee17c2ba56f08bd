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

// Package uart implements a 16550-style serial port. Byte-wide registers at
// device-local addresses:
//
//	0x00	RBR (read) / THR (write)
//	0x01	IER
//	0x02	IIR (read) / FCR (write)
//	0x03	LCR
//	0x04	MCR
//	0x05	LSR (read-only, derived)
//	0x06	MSR (read-only, not modelled)
//	0x07	SCR
//
// A multi-byte access touches consecutive registers, one byte each.
//
// Received data sits in a 16-byte FIFO until the machine reads RBR. The
// FIFO is machine state and lives in an arena region; the transmit side
// goes straight out to a host io.Writer and is not part of any snapshot, in
// the same way a television is not part of a console's state.
//
// Reading RBR pops the FIFO. A debugging read of RBR returns the head of
// the FIFO without popping it.
package uart

import (
	"io"

	"github.com/jonatcln/redplanet/hardware/arena"
	"github.com/jonatcln/redplanet/hardware/irq"
	"github.com/jonatcln/redplanet/logger"
)

// Device-local addresses of the UART registers
const (
	AddrRBR = uint32(0x00)
	AddrTHR = uint32(0x00)
	AddrIER = uint32(0x01)
	AddrIIR = uint32(0x02)
	AddrFCR = uint32(0x02)
	AddrLCR = uint32(0x03)
	AddrMCR = uint32(0x04)
	AddrLSR = uint32(0x05)
	AddrMSR = uint32(0x06)
	AddrSCR = uint32(0x07)
)

// IER bit 0 enables the received-data-available interrupt
const ierRxAvail = uint8(0x01)

// LSR bits: transmitter idle and empty (always, transmission is immediate)
// and data ready
const (
	lsrTxEmpty   = uint8(0x60)
	lsrDataReady = uint8(0x01)
)

// fifoSize is the depth of the receive FIFO
const fifoSize = 16

// offsets into the arena region
const (
	regIER     = 0
	regLCR     = 1
	regMCR     = 2
	regSCR     = 3
	regHead    = 4
	regCount   = 5
	regFifo    = 8
	regionSize = regFifo + fifoSize
)

// UART is the serial port. Machine-visible state lives in an arena region;
// the tx writer and the interrupt callback are host-side wiring.
type UART struct {
	region arena.Region

	// host side of the transmit line. may be nil, in which case
	// transmitted bytes disappear
	tx io.Writer

	// callback for the received-data-available interrupt. wired up with
	// Plumb() after the system bus has been assembled
	rxIrq irq.Callback
}

// NewUART is the preferred method of initialisation for the UART type. The
// tx writer receives every byte the machine transmits; it may be nil.
func NewUART(a arena.Allocator, tx io.Writer) *UART {
	return &UART{
		region: a.Allocate(regionSize),
		tx:     tx,
	}
}

// Plumb the interrupt callback into the UART. The callback cannot be
// created until the system bus exists, which is after the UART itself has
// been created, so it arrives late.
func (u *UART) Plumb(rxIrq irq.Callback) {
	u.rxIrq = rxIrq
}

// Release implements the bus.Device interface
func (u *UART) Release(a arena.Allocator) {
	a.Free(u.region)
}

// Receive a byte from the host side of the serial line. If the FIFO is full
// the byte is dropped.
func (u *UART) Receive(a arena.Allocator, data uint8) {
	reg := a.Mutate(u.region)

	if reg[regCount] >= fifoSize {
		logger.Log("uart", "rx overrun: byte dropped")
		return
	}

	reg[regFifo+(int(reg[regHead])+int(reg[regCount]))%fifoSize] = data
	reg[regCount]++

	u.updateIrq(a)
}

// fifoPop removes and returns the head of the receive FIFO
func fifoPop(reg []byte) uint8 {
	if reg[regCount] == 0 {
		return 0
	}
	data := reg[regFifo+int(reg[regHead])]
	reg[regHead] = (reg[regHead] + 1) % fifoSize
	reg[regCount]--
	return data
}

func lsr(reg []byte) uint8 {
	v := lsrTxEmpty
	if reg[regCount] > 0 {
		v |= lsrDataReady
	}
	return v
}

func iir(reg []byte) uint8 {
	if reg[regCount] > 0 && reg[regIER]&ierRxAvail == ierRxAvail {
		return 0x04 // received data available
	}
	return 0x01 // no interrupt pending
}

// updateIrq reflects the FIFO and IER state onto the interrupt line
func (u *UART) updateIrq(a arena.Allocator) {
	if u.rxIrq == nil {
		return
	}

	reg := a.View(u.region)
	if reg[regCount] > 0 && reg[regIER]&ierRxAvail == ierRxAvail {
		u.rxIrq.Raise(a)
	} else {
		u.rxIrq.Lower(a)
	}
}

// Read implements the bus.Device interface. Reading RBR pops the FIFO.
func (u *UART) Read(buf []byte, a arena.Allocator, offset uint32) {
	reg := a.Mutate(u.region)
	popped := false

	for i := range buf {
		switch offset + uint32(i) {
		case AddrRBR:
			buf[i] = fifoPop(reg)
			popped = true
		case AddrIER:
			buf[i] = reg[regIER]
		case AddrIIR:
			buf[i] = iir(reg)
		case AddrLCR:
			buf[i] = reg[regLCR]
		case AddrMCR:
			buf[i] = reg[regMCR]
		case AddrLSR:
			buf[i] = lsr(reg)
		case AddrMSR:
			buf[i] = 0x00
		case AddrSCR:
			buf[i] = reg[regSCR]
		}
	}

	if popped {
		u.updateIrq(a)
	}
}

// ReadDebug implements the bus.Device interface. Reading RBR through the
// debugging bus returns the head of the FIFO without popping it.
func (u *UART) ReadDebug(buf []byte, a arena.Inspector, offset uint32) {
	reg := a.View(u.region)

	for i := range buf {
		switch offset + uint32(i) {
		case AddrRBR:
			if reg[regCount] > 0 {
				buf[i] = reg[regFifo+int(reg[regHead])]
			} else {
				buf[i] = 0
			}
		case AddrIER:
			buf[i] = reg[regIER]
		case AddrIIR:
			buf[i] = iir(reg)
		case AddrLCR:
			buf[i] = reg[regLCR]
		case AddrMCR:
			buf[i] = reg[regMCR]
		case AddrLSR:
			buf[i] = lsr(reg)
		case AddrMSR:
			buf[i] = 0x00
		case AddrSCR:
			buf[i] = reg[regSCR]
		}
	}
}

// Write implements the bus.Device interface. Writing THR transmits the
// byte to the host side immediately.
func (u *UART) Write(a arena.Allocator, offset uint32, buf []byte) {
	reg := a.Mutate(u.region)
	ierChanged := false

	for i := range buf {
		switch offset + uint32(i) {
		case AddrTHR:
			if u.tx != nil {
				u.tx.Write([]byte{buf[i]})
			}
		case AddrIER:
			reg[regIER] = buf[i]
			ierChanged = true
		case AddrFCR:
			// bit 1 resets the receive FIFO
			if buf[i]&0x02 == 0x02 {
				reg[regHead] = 0
				reg[regCount] = 0
				ierChanged = true
			}
		case AddrLCR:
			reg[regLCR] = buf[i]
		case AddrMCR:
			reg[regMCR] = buf[i]
		case AddrSCR:
			reg[regSCR] = buf[i]
		}
	}

	if ierChanged {
		u.updateIrq(a)
	}
}
