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
	"encoding/binary"

	"github.com/jonatcln/redplanet/hardware/arena"
)

// PowerDown is the write-only latch through which software asks the
// machine to stop. A write latches the shutdown code; reads leave the
// buffer untouched.
//
// Unlike every other device the latch holds no arena storage. It is the
// one device the bus teardown does not need to release.
type PowerDown struct {
	requested bool
	code      uint32
}

// NewPowerDown is the preferred method of initialisation for the PowerDown
// type
func NewPowerDown() *PowerDown {
	return &PowerDown{}
}

// Read implements the bus.Device interface. The latch is write-only so
// this does nothing.
func (p *PowerDown) Read(buf []byte, a arena.Allocator, offset uint32) {
}

// ReadDebug implements the bus.Device interface. The latch is write-only
// so this does nothing.
func (p *PowerDown) ReadDebug(buf []byte, a arena.Inspector, offset uint32) {
}

// Write implements the bus.Device interface. The low 32 bits of the
// written value are latched and the shutdown request is recorded.
func (p *PowerDown) Write(a arena.Allocator, offset uint32, buf []byte) {
	if offset != 0 {
		return
	}

	var w [4]byte
	copy(w[:], buf)

	p.code = binary.LittleEndian.Uint32(w[:])
	p.requested = true
}

// Release implements the bus.Device interface. The latch holds no arena
// storage so this does nothing.
func (p *PowerDown) Release(a arena.Allocator) {
}

// Requested returns true once software has written to the latch
func (p *PowerDown) Requested() bool {
	return p.requested
}

// Code returns the most recently latched shutdown code
func (p *PowerDown) Code() uint32 {
	return p.code
}
